package speech

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
)

// Every user-facing line lives here so printed and spoken wording match.

// ── Global ───────────────────────────────────────────────────────

func LineWelcome() string {
	return "Timer ready. Type a duration, then start."
}

func LineBye() string {
	return "Bye."
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch that: %s. Type help for commands.", input)
}

// LineHelp lists the commands the prompt understands.
func LineHelp(presets []int) string {
	var b strings.Builder
	b.WriteString("start | stop | space (toggle) | clear | set <dur> | +<dur> | -<dur> | name <text> | status | quit")
	if len(presets) > 0 {
		b.WriteString("\npresets:")
		for i, p := range presets {
			fmt.Fprintf(&b, " [%d] +%s", i+1, countdown.Compact(p))
		}
	}
	return b.String()
}

// ── Timer ────────────────────────────────────────────────────────

func LineStarted(s countdown.Snapshot) string {
	if s.Display <= 0 {
		return "Started with no time left."
	}
	return fmt.Sprintf("Started. %s to go.", DurationWords(s.Display))
}

func LineStopped(s countdown.Snapshot) string {
	return fmt.Sprintf("Stopped at %s.", countdown.Format(s.Display))
}

func LineCleared() string {
	return "Cleared."
}

func LineAdded(delta int, s countdown.Snapshot) string {
	verb := "Added"
	if delta < 0 {
		verb = "Took off"
		delta = -delta
	}
	return fmt.Sprintf("%s %s, now %s.", verb, DurationWords(delta), countdown.Format(s.Display))
}

func LineSet(s countdown.Snapshot) string {
	return fmt.Sprintf("Set to %s.", countdown.Format(s.Display))
}

func LineStopFirst() string {
	return "Stop the timer before setting a new duration."
}

func LineNamed(label string) string {
	if label == "" {
		return "Name cleared."
	}
	return fmt.Sprintf("Named %q.", label)
}

func LineStatus(s countdown.Snapshot) string {
	state := "stopped"
	if s.Running {
		state = "running"
	}
	if s.Overdue() {
		state = "overdue"
	}
	if s.Label != "" {
		return fmt.Sprintf("%s: %s, %s.", s.Label, countdown.Format(s.Display), state)
	}
	return fmt.Sprintf("%s, %s.", countdown.Format(s.Display), state)
}

// ── Durations ────────────────────────────────────────────────────

// DurationWords spells seconds out for speech: 3725 -> "1 hour 2 minutes
// 5 seconds". Negative values read as "minus ...".
func DurationWords(seconds int) string {
	prefix := ""
	if seconds < 0 {
		prefix = "minus "
		seconds = -seconds
	}
	if seconds == 0 {
		return "0 seconds"
	}

	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	var parts []string
	for _, f := range []struct {
		n    int
		unit string
	}{{h, "hour"}, {m, "minute"}, {s, "second"}} {
		switch f.n {
		case 0:
		case 1:
			parts = append(parts, "1 "+f.unit)
		default:
			parts = append(parts, fmt.Sprintf("%d %ss", f.n, f.unit))
		}
	}
	return prefix + strings.Join(parts, " ")
}
