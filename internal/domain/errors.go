package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrRunning         = errors.New("timer is running")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrUnsupportedWAV  = errors.New("unsupported wav format")
)
