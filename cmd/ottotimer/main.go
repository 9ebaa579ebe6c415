// OttoTimer, a single countdown timer for the terminal.
//
// Usage:
//
//	ottotimer [-config file.json] [-time 5m] [-label Tea] [-verbose] [-quiet]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottotimer/internal/alarm"
	"github.com/hammamikhairi/ottotimer/internal/clock"
	"github.com/hammamikhairi/ottotimer/internal/config"
	"github.com/hammamikhairi/ottotimer/internal/conversation"
	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/display"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/gpt"
	"github.com/hammamikhairi/ottotimer/internal/logger"
	"github.com/hammamikhairi/ottotimer/internal/notify"
	"github.com/hammamikhairi/ottotimer/internal/speech"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "extra JSON config file")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	flag.Duration("poll", 0, "how often a running countdown is re-evaluated (10ms..1s)")
	flag.String("label", "", "name shown next to the countdown")
	initial := flag.String("time", "", "initial duration, e.g. 5m, 1:30 or \"ten minutes\"")
	noSound := flag.Bool("no-sound", false, "disable the overdue alarm sound")
	noNotify := flag.Bool("no-notify", false, "disable desktop notifications")
	flag.Bool("speech", false, "announce actions via Azure TTS (needs AZURE_SPEECH_KEY and AZURE_SPEECH_REGION)")
	flag.String("sound-file", "", "custom alarm sound (24kHz mono 16-bit PCM WAV)")
	flag.String("cache-dir", "", "directory for persistent TTS audio cache")
	flag.Bool("ai", false, "classify unrecognised commands with a chat model (needs GPT_CHAT_KEY and GPT_CHAT_ENDPOINT)")
	flag.Bool("voice", false, "enable voice commands via local Whisper STT")
	flag.String("whisper-bin", "", "path to the whisper-cpp CLI binary")
	flag.String("whisper-model", "", "path to the Whisper GGML model file")
	flag.Parse()

	overrides, err := flagOverrides()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if *verbose {
		overrides["log_level"] = "verbose"
	}
	if *quiet {
		overrides["log_level"] = "off"
	}
	if *noSound {
		overrides["sound"] = false
	}
	if *noNotify {
		overrides["notify"] = false
	}

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Logs go to a file by default so the UI stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// The whisper transcriber logs through the standard log package.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logger.ParseLevel(cfg.LogLevel), logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Countdown ────────────────────────────────────────────────

	sys := clock.System{}
	eng := countdown.New(sys, sys, log,
		countdown.WithPollInterval(cfg.PollInterval),
		countdown.WithLabel(cfg.Label),
	)
	defer eng.Close()

	if *initial != "" {
		secs, err := parseInitial(*initial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: -time: %v\n", err)
			os.Exit(2)
		}
		cfg.InitialSeconds = secs
	}
	if cfg.InitialSeconds > 0 {
		_ = eng.Set(cfg.InitialSeconds)
	}

	ui := display.NewUI(cfg.Presets)
	parser := conversation.NewKeywordParser(log, cfg.Presets...)

	// ── Notifications ────────────────────────────────────────────

	var activeNotifier domain.Notifier = conversation.NewCLINotifier(log, ui.Printf)

	var desktop *notify.DesktopNotifier
	if cfg.Notify {
		desktop = notify.NewDesktopNotifier(activeNotifier, notify.NewSender(), log, notify.WithUrgentOnly())
		if desktop.Available() {
			activeNotifier = desktop
			log.Info("desktop notifications enabled (%s)", notify.Platform())
		} else {
			log.Info("desktop notifications unavailable on %s", notify.Platform())
			desktop = nil
		}
	}

	// ── Audio ────────────────────────────────────────────────────

	// One audio context per process: the siren and the announcer share it.
	var player *speech.Player
	if cfg.Sound || cfg.Speech {
		p, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, sound disabled: %v", err)
		} else {
			player = p
		}
	}

	var sounder domain.Sounder = speech.NewNoOp(log)
	var siren *speech.Siren
	if cfg.Sound && player != nil {
		var opts []speech.SirenOption
		if cfg.SoundFile != "" {
			wav, err := speech.LoadSound(cfg.SoundFile)
			if err != nil {
				log.Error("alarm sound %s: %v (using built-in tone)", cfg.SoundFile, err)
			} else {
				opts = append(opts, speech.WithSound(wav))
			}
		}
		siren = speech.NewSiren(player, log, opts...)
		sounder = siren
	}

	var announcer *speech.Announcer
	azureKey := os.Getenv(speech.EnvAzureSpeechKey)
	azureRegion := os.Getenv(speech.EnvAzureSpeechRegion)

	switch {
	case !cfg.Speech:
	case azureKey == "" || azureRegion == "":
		log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
	case player == nil:
		log.Warn("TTS disabled: no audio output")
	default:
		tts := speech.NewAzureClient(azureKey, azureRegion, log, speech.WithVoice(cfg.TTSVoice))
		announcer = speech.NewAnnouncer(tts, player, cfg.CacheDir, log)
		go announcer.Run(ctx)
		announcer.Prefetch(ctx, speech.LineWelcome(), alarm.LineTimeUp(cfg.Label))
		activeNotifier = speech.NewSpeakingNotifier(activeNotifier, announcer, log)
		log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), azureRegion)
	}

	monitor := alarm.New(sounder, activeNotifier, log, alarm.WithTitle(ui.SetTitle))
	defer monitor.Close()

	// ── AI fallback ──────────────────────────────────────────────

	var ai classifier
	gptKey := os.Getenv(gpt.EnvChatKey)
	gptEndpoint := os.Getenv(gpt.EnvChatEndpoint)

	switch {
	case !cfg.AI:
	case gptKey == "" || gptEndpoint == "":
		log.Info("AI fallback disabled: set %s and %s env vars to enable", gpt.EnvChatKey, gpt.EnvChatEndpoint)
	default:
		ai = gpt.NewClassifier(gpt.NewClient(gptEndpoint, gptKey, log), log)
		log.Info("AI fallback enabled")
	}

	// ── Voice input ──────────────────────────────────────────────

	var ear *speech.Ear
	if cfg.Voice {
		if _, err := os.Stat(cfg.WhisperModel); err != nil {
			fmt.Fprintf(os.Stderr, "error: whisper model not found at %s\n", cfg.WhisperModel)
			os.Exit(1)
		}
		tempDir := ".ottotimer-stt"
		os.MkdirAll(tempDir, 0o755)
		earOpts := []speech.EarOption{speech.WithTempDir(tempDir)}
		if announcer != nil {
			earOpts = append(earOpts, speech.WithBusy(announcer.Busy))
		}
		if siren != nil {
			earOpts = append(earOpts, speech.WithMute(siren))
		}
		ear = speech.NewEar(cfg.WhisperBin, cfg.WhisperModel, log, earOpts...)
		go ear.Run(ctx)
		log.Info("voice input enabled (bin=%s, model=%s)", cfg.WhisperBin, cfg.WhisperModel)
	}

	app := &cliApp{
		engine:    eng,
		parser:    parser,
		ai:        ai,
		announcer: announcer,
		ear:       ear,
		presets:   parser.Presets(),
		log:       log,
		ui:        ui,
	}

	fmt.Println(display.RenderBanner())
	if ear != nil {
		fmt.Println(display.BannerStyle.Render("  Voice mode ON: say \"timer\" and a command, or type it."))
	}
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()

		// Seed both observers with the current state before any change.
		snap := eng.Snapshot()
		monitor.Observe(snap)
		ui.Show(snap)
		eng.Subscribe(monitor.Observe)
		eng.Subscribe(ui.Show)

		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()

	eng.Close()
	monitor.Close()
	if siren != nil {
		siren.Wait()
	}
	if desktop != nil {
		desktop.Wait()
	}
}

// parseInitial reads the -time flag. A countdown cannot begin overdue.
func parseInitial(s string) (int, error) {
	secs, err := countdown.Parse(s)
	if err != nil {
		return 0, err
	}
	if secs < 0 {
		return 0, fmt.Errorf("%w: %q is negative", domain.ErrInvalidDuration, s)
	}
	return secs, nil
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"log-file":      "log_file",
	"poll":          "poll_interval",
	"label":         "label",
	"speech":        "speech",
	"sound-file":    "sound_file",
	"cache-dir":     "cache_dir",
	"ai":            "ai",
	"voice":         "voice",
	"whisper-bin":   "whisper_bin",
	"whisper-model": "whisper_model",
}

// flagOverrides returns the config values of flags set on the command
// line, so unset flags never shadow the config file.
func flagOverrides() (map[string]any, error) {
	overrides := map[string]any{}
	var err error
	flag.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		switch v := f.Value.(flag.Getter).Get().(type) {
		case time.Duration:
			overrides[key] = v.String()
		case string:
			overrides[key] = strings.TrimSpace(v)
		case bool:
			overrides[key] = v
		default:
			err = fmt.Errorf("flag -%s: unsupported type %T", f.Name, v)
		}
	})
	return overrides, err
}
