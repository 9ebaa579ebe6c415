package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantSeconds int
		wantPayload string
	}{
		// Start / stop / toggle
		{"start", domain.IntentStart, 0, ""},
		{"go", domain.IntentStart, 0, ""},
		{"Start the timer.", domain.IntentStart, 0, ""},
		{"stop", domain.IntentStop, 0, ""},
		{"pause", domain.IntentStop, 0, ""},
		{"toggle", domain.IntentToggle, 0, ""},
		{"space", domain.IntentToggle, 0, ""},

		// Clear
		{"clear", domain.IntentClear, 0, ""},
		{"x", domain.IntentClear, 0, ""},
		{"reset timer", domain.IntentClear, 0, ""},

		// Presets
		{"1", domain.IntentAddTime, 300, ""},
		{"2", domain.IntentAddTime, 60, ""},
		{"3", domain.IntentAddTime, 10, ""},

		// Add / subtract
		{"+5m", domain.IntentAddTime, 300, ""},
		{"+1m", domain.IntentAddTime, 60, ""},
		{"+10s", domain.IntentAddTime, 10, ""},
		{"+90", domain.IntentAddTime, 90, ""},
		{"-1m", domain.IntentAddTime, -60, ""},
		{"add 1:30", domain.IntentAddTime, 90, ""},
		{"add five minutes", domain.IntentAddTime, 300, ""},
		{"sub 30s", domain.IntentAddTime, -30, ""},
		{"take off a minute", domain.IntentAddTime, -60, ""},

		// Set
		{"set 10:00", domain.IntentSetTime, 600, ""},
		{"set timer for 5 minutes", domain.IntentSetTime, 300, ""},
		{"set to 90s", domain.IntentSetTime, 90, ""},

		// Rename
		{"name Tea", domain.IntentRename, 0, "Tea"},
		{`label "Soft boiled eggs"`, domain.IntentRename, 0, "Soft boiled eggs"},
		{"name", domain.IntentRename, 0, ""},

		// Status / help / quit
		{"status", domain.IntentStatus, 0, ""},
		{"how much time is left?", domain.IntentStatus, 0, ""},
		{"help", domain.IntentHelp, 0, ""},
		{"?", domain.IntentHelp, 0, ""},
		{"quit", domain.IntentQuit, 0, ""},
		{"q", domain.IntentQuit, 0, ""},
		{"exit", domain.IntentQuit, 0, ""},

		// Unknown
		{"", domain.IntentUnknown, 0, ""},
		{"make coffee", domain.IntentUnknown, 0, "make coffee"},
		{"4", domain.IntentUnknown, 0, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("Parse(%q) type = %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if intent.Seconds != tt.wantSeconds {
				t.Errorf("Parse(%q) seconds = %d, want %d", tt.input, intent.Seconds, tt.wantSeconds)
			}
			if intent.Payload != tt.wantPayload {
				t.Errorf("Parse(%q) payload = %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}

func TestKeywordParserInvalidDuration(t *testing.T) {
	parser := NewKeywordParser(logger.New(logger.LevelOff, nil))

	for _, input := range []string{"add soon", "set later", "+abc"} {
		_, err := parser.Parse(context.Background(), input)
		if !errors.Is(err, domain.ErrInvalidDuration) {
			t.Errorf("Parse(%q): expected ErrInvalidDuration, got %v", input, err)
		}
	}
}

func TestKeywordParserCustomPresets(t *testing.T) {
	parser := NewKeywordParser(logger.New(logger.LevelOff, nil), 1500, 300)

	intent, _ := parser.Parse(context.Background(), "1")
	if intent.Type != domain.IntentAddTime || intent.Seconds != 1500 {
		t.Fatalf("unexpected intent %+v", intent)
	}
	intent, _ = parser.Parse(context.Background(), "3")
	if intent.Type != domain.IntentUnknown {
		t.Fatalf("expected unknown for an unbound preset, got %s", intent.Type)
	}
}

func TestCLINotifier(t *testing.T) {
	var lines []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...any) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})

	_ = n.Notify(context.Background(), "Started")
	_ = n.NotifyUrgent(context.Background(), "Time is up!")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Started") || !strings.Contains(lines[1], red+bold+"Time is up!") {
		t.Fatalf("unexpected output %q", lines)
	}
}
