// Package config loads the timer's settings. Sources are layered with
// koanf: defaults, the user config file, an explicit -config file,
// OTTOTIMER_* environment variables and finally command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// to config keys: OTTOTIMER_POLL_INTERVAL -> poll_interval.
const EnvPrefix = "OTTOTIMER_"

// Config holds every runtime setting.
type Config struct {
	PollInterval   time.Duration `koanf:"poll_interval" validate:"min=10ms,max=1s"`
	Presets        []int         `koanf:"presets" validate:"min=1,max=9,dive,gt=0"`
	InitialSeconds int           `koanf:"initial_seconds" validate:"min=0"`
	Label          string        `koanf:"label" validate:"max=64"`

	Notify    bool   `koanf:"notify"`
	Sound     bool   `koanf:"sound"`
	SoundFile string `koanf:"sound_file" validate:"omitempty,endswith=.wav"`

	Speech   bool   `koanf:"speech"`
	TTSVoice string `koanf:"tts_voice"`
	CacheDir string `koanf:"cache_dir"`

	AI bool `koanf:"ai"`

	Voice        bool   `koanf:"voice"`
	WhisperBin   string `koanf:"whisper_bin" validate:"required_if=Voice true"`
	WhisperModel string `koanf:"whisper_model" validate:"required_if=Voice true"`

	LogLevel string `koanf:"log_level" validate:"oneof=off quiet none normal info verbose debug"`
	LogFile  string `koanf:"log_file"`
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"poll_interval":   "100ms",
		"presets":         []int{300, 60, 10},
		"initial_seconds": 0,
		"label":           "",
		"notify":          true,
		"sound":           true,
		"sound_file":      "",
		"speech":          false,
		"tts_voice":       "en-US-AvaNeural",
		"cache_dir":       ".ottotimer-cache",
		"ai":              false,
		"voice":           false,
		"whisper_bin":     "whisper-cli",
		"whisper_model":   "",
		"log_level":       "normal",
		"log_file":        filepath.Join(".ottotimer-logs", "ottotimer.log"),
	}
}

// UserConfigPath returns ~/.config/ottotimer/config.json (or the platform
// equivalent), or "" when the config dir cannot be determined.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ottotimer", "config.json")
}

// Load builds the configuration. path is an optional extra JSON file that
// must exist when given. overrides are applied last, typically from flags
// the user set explicitly.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if global := UserConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			if err := k.Load(file.Provider(global), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading %s: %w", global, err)
			}
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	for key, value := range overrides {
		k.Set(key, value)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", describe(err))
	}

	cfg.SoundFile = expandHomePath(cfg.SoundFile)
	cfg.CacheDir = expandHomePath(cfg.CacheDir)
	cfg.WhisperModel = expandHomePath(cfg.WhisperModel)
	cfg.LogFile = expandHomePath(cfg.LogFile)
	return &cfg, nil
}

// envTransform maps OTTOTIMER_POLL_INTERVAL=250ms to poll_interval. List
// values are comma separated: OTTOTIMER_PRESETS=1500,300,60.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "presets" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

// describe flattens validator errors into "field: rule" pairs.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ErrInvalid is returned when a setting fails validation.
var ErrInvalid = errors.New("validation failed")

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
