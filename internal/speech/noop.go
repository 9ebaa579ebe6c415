package speech

import (
	"context"

	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.SpeechProvider = (*NoOp)(nil)
	_ domain.Sounder        = (*NoOp)(nil)
)

// NoOp stands in for the siren and the announcer when audio is disabled or
// no audio device could be opened. It only logs.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent sounder/speaker.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Speak logs the text.
func (n *NoOp) Speak(_ context.Context, text string) error {
	n.log.Debug("speech no-op: would say %q", text)
	return nil
}

// Start logs that the alarm would ring.
func (n *NoOp) Start() {
	n.log.Debug("sound no-op: alarm would ring")
}

// Stop logs that the alarm would stop.
func (n *NoOp) Stop() {
	n.log.Debug("sound no-op: alarm would stop")
}
