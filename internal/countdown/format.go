package countdown

import (
	"fmt"
	"strings"
)

// Format renders a signed second count as HH:MM:SS. Negative values get a
// leading "-" and the magnitude is formatted the same as the positive value,
// so Format(-5) == "-00:00:05". Hours widen past two digits from 100 on.
func Format(seconds int) string {
	sign := ""
	abs := uint64(seconds)
	if seconds < 0 {
		sign = "-"
		// -(seconds+1)+1 keeps math.MinInt from overflowing.
		abs = uint64(-(seconds + 1)) + 1
	}

	h := abs / 3600
	m := (abs / 60) % 60
	s := abs % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// Title builds the window/tab title for a display value and label:
// "00:04:59" or "00:04:59 - Tea".
func Title(seconds int, label string) string {
	if label == "" {
		return Format(seconds)
	}
	return Format(seconds) + " - " + label
}

// Compact renders a duration the short way, for preset hints:
// 300 -> "5m", 90 -> "1m30s", 3600 -> "1h".
func Compact(seconds int) string {
	var b strings.Builder
	abs := uint64(seconds)
	if seconds < 0 {
		b.WriteByte('-')
		abs = uint64(-(seconds + 1)) + 1
	}
	h, m, s := abs/3600, (abs/60)%60, abs%60
	start := b.Len()
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if s > 0 || b.Len() == start {
		fmt.Fprintf(&b, "%ds", s)
	}
	return b.String()
}
