package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*SpeakingNotifier)(nil)

// SpeakingNotifier wraps a notifier and also reads messages aloud through
// the announcer. Urgent messages preempt anything queued.
type SpeakingNotifier struct {
	inner domain.Notifier
	voice *Announcer
	log   *logger.Logger
}

// NewSpeakingNotifier creates a notifier that both forwards and speaks.
func NewSpeakingNotifier(inner domain.Notifier, voice *Announcer, log *logger.Logger) *SpeakingNotifier {
	return &SpeakingNotifier{inner: inner, voice: voice, log: log}
}

// Notify forwards the message and queues it at normal priority.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.inner.Notify(ctx, message); err != nil {
		return err
	}
	n.voice.Say(cleanForSpeech(message), PriorityNormal)
	return nil
}

// NotifyUrgent forwards the message and queues it ahead of everything else.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.inner.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	n.voice.Say(cleanForSpeech(message), PriorityUrgent)
	return nil
}

var (
	ansiCodes     = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
	clockText     = regexp.MustCompile(`-?\d{2,}:\d{2}:\d{2}`)
)

// cleanForSpeech strips terminal formatting and reads HH:MM:SS clocks as
// words, so "00:05:00" is spoken as "5 minutes".
func cleanForSpeech(msg string) string {
	s := ansiCodes.ReplaceAllString(msg, "")
	s = bracketPrefix.ReplaceAllString(s, "")
	s = clockText.ReplaceAllStringFunc(s, func(c string) string {
		secs, err := countdown.Parse(c)
		if err != nil {
			return c
		}
		return DurationWords(secs)
	})
	return strings.TrimSpace(s)
}
