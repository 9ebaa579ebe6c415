// Package domain defines the command types and ports shared by the timer's
// layers. All other packages may depend on domain; domain depends on nothing.
package domain

import "context"

// IntentParser converts raw user input (typed or transcribed) into an intent.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can print to the
// terminal, raise a desktop notification, or speak the message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Sounder plays the overdue alarm. Start and Stop are idempotent and must
// not block on audio playback.
type Sounder interface {
	Start()
	Stop()
}

// SpeechProvider handles voice output. The no-op implementation is used
// when speech is disabled.
type SpeechProvider interface {
	Speak(ctx context.Context, text string) error
}
