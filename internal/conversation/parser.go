// Package conversation turns typed or transcribed commands into intents and
// prints notifications above the prompt.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// DefaultPresets are the seconds added by the 1, 2 and 3 shortcuts.
var DefaultPresets = []int{300, 60, 10}

// KeywordParser matches user input to intents using keywords and simple
// patterns.
type KeywordParser struct {
	log      *logger.Logger
	presets  []int
	keywords []keywordRule
	commands []commandRule
}

// keywordRule maps a whole-input match to an intent without arguments.
type keywordRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// commandRule matches a verb and hands the remainder to build.
type commandRule struct {
	regex *regexp.Regexp
	build func(arg string) (*domain.Intent, error)
}

// NewKeywordParser creates a keyword-based intent parser. presets are the
// seconds bound to the digit shortcuts; nil uses DefaultPresets.
func NewKeywordParser(log *logger.Logger, presets ...int) *KeywordParser {
	if len(presets) == 0 {
		presets = DefaultPresets
	}
	p := &KeywordParser{log: log, presets: presets}

	p.keywords = []keywordRule{
		{regexp.MustCompile(`(?i)^(start|go|begin|resume)( (the )?timer)?$`), domain.IntentStart},
		{regexp.MustCompile(`(?i)^(stop|pause|hold|halt)( (the )?timer)?$`), domain.IntentStop},
		{regexp.MustCompile(`(?i)^(toggle|space|start/stop)$`), domain.IntentToggle},
		{regexp.MustCompile(`(?i)^(clear|x|reset|cancel)( (the )?timer)?$`), domain.IntentClear},
		{regexp.MustCompile(`(?i)^(status|time|how long|time left|how much time( is)? left)\??$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(name|label|unname)$`), domain.IntentRename},
	}

	p.commands = []commandRule{
		{regexp.MustCompile(`(?i)^[+](.+)$`), addTime(1)},
		{regexp.MustCompile(`(?i)^-(.+)$`), addTime(-1)},
		{regexp.MustCompile(`(?i)^(?:add|plus)\s+(.+)$`), addTime(1)},
		{regexp.MustCompile(`(?i)^(?:sub|subtract|minus|remove|take off)\s+(.+)$`), addTime(-1)},
		{regexp.MustCompile(`(?i)^set\s+(?:(?:a |the )?timer\s+)?(?:for\s+|to\s+)?(.+)$`), setTime},
		{regexp.MustCompile(`(?i)^(?:name|label|call it)\s+(.+)$`), rename},
	}
	return p
}

// Presets returns the seconds bound to the digit shortcuts.
func (p *KeywordParser) Presets() []int {
	return p.presets
}

// Parse converts user input into an intent. A command whose duration
// cannot be read returns an error wrapping domain.ErrInvalidDuration.
func (p *KeywordParser) Parse(_ context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}
	p.log.Debug("parsing input: %q", trimmed)

	// Preset shortcuts: "1", "2", "3".
	if n, err := strconv.Atoi(trimmed); err == nil && len(trimmed) == 1 && n >= 1 && n <= len(p.presets) {
		return &domain.Intent{Type: domain.IntentAddTime, Seconds: p.presets[n-1]}, nil
	}

	bare := strings.TrimRight(trimmed, ".!")
	for _, rule := range p.keywords {
		if rule.regex.MatchString(bare) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent}, nil
		}
	}

	for _, rule := range p.commands {
		if m := rule.regex.FindStringSubmatch(trimmed); m != nil {
			intent, err := rule.build(strings.TrimSpace(m[1]))
			if err != nil {
				return nil, err
			}
			p.log.Debug("matched intent: %s (%ds %q)", intent.Type, intent.Seconds, intent.Payload)
			return intent, nil
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func addTime(sign int) func(string) (*domain.Intent, error) {
	return func(arg string) (*domain.Intent, error) {
		secs, err := countdown.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("adding time: %w", err)
		}
		return &domain.Intent{Type: domain.IntentAddTime, Seconds: sign * secs}, nil
	}
}

func setTime(arg string) (*domain.Intent, error) {
	secs, err := countdown.Parse(arg)
	if err != nil {
		return nil, fmt.Errorf("setting time: %w", err)
	}
	return &domain.Intent{Type: domain.IntentSetTime, Seconds: secs}, nil
}

func rename(arg string) (*domain.Intent, error) {
	return &domain.Intent{Type: domain.IntentRename, Payload: strings.Trim(arg, `"'`)}, nil
}
