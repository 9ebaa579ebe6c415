package countdown

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/domain"
)

// MaxSeconds bounds every parsed duration, about 68 years.
const MaxSeconds = math.MaxInt32

// Parse reads a human duration into whole seconds. Accepted forms:
//
//	"90"            plain seconds
//	"05:00", "1:02:03", "-00:00:05"
//	"90s", "5m", "1h30m"  (Go durations, truncated to seconds)
//	"5 minutes", "one hour and ten seconds"  (spoken form, from voice input)
//
// A leading "-" or "+" applies to the whole value. Magnitudes above
// MaxSeconds are rejected.
func Parse(input string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.TrimRight(s, ".!?,")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", domain.ErrInvalidDuration)
	}

	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = strings.TrimSpace(s[1:])
	case '+':
		s = strings.TrimSpace(s[1:])
	}

	var (
		n   int
		err error
	)
	switch {
	case strings.Contains(s, ":"):
		n, err = parseClock(s)
	case isDigits(s):
		n, err = strconv.Atoi(s)
	default:
		if d, derr := time.ParseDuration(s); derr == nil {
			n = int(d / time.Second)
			if d < 0 {
				err = domain.ErrInvalidDuration
			}
		} else {
			n, err = parseWords(s)
		}
	}
	if err != nil || n > MaxSeconds {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, input)
	}
	return sign * n, nil
}

// parseClock handles SS, MM:SS and HH:MM:SS. Only the leading field may
// exceed 59.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, domain.ErrInvalidDuration
	}
	total := 0
	for i, p := range parts {
		if !isDigits(p) {
			return 0, domain.ErrInvalidDuration
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		if i > 0 && v > 59 {
			return 0, domain.ErrInvalidDuration
		}
		if total > (MaxSeconds-v)/60 {
			return 0, domain.ErrInvalidDuration
		}
		total = total*60 + v
	}
	return total, nil
}

var unitSeconds = map[string]int{
	"h": 3600, "hr": 3600, "hrs": 3600, "hour": 3600, "hours": 3600,
	"m": 60, "min": 60, "mins": 60, "minute": 60, "minutes": 60,
	"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1,
}

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "fifteen": 15, "twenty": 20, "thirty": 30,
	"forty": 40, "forty-five": 45, "fifty": 50, "sixty": 60, "ninety": 90,
}

// parseWords handles "<n> <unit>" sequences such as "1 hour 30 minutes".
func parseWords(s string) (int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})

	var (
		total, pending       int
		havePending, matched bool
	)
	for _, f := range fields {
		if f == "and" {
			continue
		}
		if !havePending {
			v, ok := numberWords[f]
			if !ok {
				if !isDigits(f) {
					return 0, domain.ErrInvalidDuration
				}
				n, err := strconv.Atoi(f)
				if err != nil {
					return 0, domain.ErrInvalidDuration
				}
				v = n
			}
			pending, havePending = v, true
			continue
		}
		unit, ok := unitSeconds[f]
		if !ok || pending > (MaxSeconds-total)/unit {
			return 0, domain.ErrInvalidDuration
		}
		total += pending * unit
		havePending = false
		matched = true
	}
	if havePending || !matched {
		return 0, domain.ErrInvalidDuration
	}
	return total, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
