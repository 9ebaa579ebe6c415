// Package alarm turns countdown snapshots into side effects: the overdue
// alarm sound, the one-shot "time is up" notification, and the window title.
// Every effect is edge-triggered against the previous snapshot, so a side
// effect happens once per transition no matter how often snapshots arrive.
package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// TitleFunc receives the window/tab title whenever it changes.
type TitleFunc func(title string)

// Option configures the monitor.
type Option func(*Monitor)

// WithTitle sets the title sink.
func WithTitle(fn TitleFunc) Option {
	return func(m *Monitor) {
		m.title = fn
	}
}

// WithNotifyTimeout bounds how long a notification may take.
func WithNotifyTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		m.notifyTimeout = d
	}
}

// Monitor evaluates each snapshot once, in arrival order.
type Monitor struct {
	sounder       domain.Sounder
	notifier      domain.Notifier
	title         TitleFunc
	log           *logger.Logger
	notifyTimeout time.Duration

	mu        sync.Mutex
	ringing   countdown.Previous[bool]
	display   countdown.Previous[int]
	lastTitle countdown.Previous[string]
	fired     int
}

// New creates a monitor. sounder and notifier may be nil to disable them.
func New(sounder domain.Sounder, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		sounder:       sounder,
		notifier:      notifier,
		log:           log,
		notifyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Observe evaluates one snapshot. Pass it to countdown.Engine.Subscribe.
func (m *Monitor) Observe(s countdown.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluateSound(s)
	m.evaluateCrossing(s)
	m.evaluateTitle(s)
}

// Close silences the alarm. Call on teardown.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ringing, _ := m.ringing.Peek(); ringing && m.sounder != nil {
		m.sounder.Stop()
	}
	m.ringing.Observe(false)
}

// Fired returns how many zero-crossing notifications have been sent.
func (m *Monitor) Fired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fired
}

// evaluateSound starts the alarm when the countdown becomes overdue while
// running and stops it when that stops being true (stop, clear, add time).
func (m *Monitor) evaluateSound(s countdown.Snapshot) {
	ringing := s.Overdue()
	was, _ := m.ringing.Observe(ringing)
	if m.sounder == nil || was == ringing {
		return
	}

	if ringing {
		m.log.Info("alarm: ringing (%s)", countdown.Format(s.Display))
		m.sounder.Start()
	} else {
		m.log.Info("alarm: silenced")
		m.sounder.Stop()
	}
}

// evaluateCrossing fires the notification when a running countdown moves
// from a positive display to zero or below. At poll resolution this is the
// 1 -> 0 tick; a jump past zero (host suspend, subtracting time) counts as
// the same crossing. Staying at or below zero never re-fires.
func (m *Monitor) evaluateCrossing(s countdown.Snapshot) {
	prev, ok := m.display.Observe(s.Display)
	if !ok || !s.Running || prev <= 0 || s.Display > 0 {
		return
	}

	m.fired++
	m.log.Info("alarm: time is up (label=%q)", s.Label)
	if m.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.notifyTimeout)
	defer cancel()
	if err := m.notifier.NotifyUrgent(ctx, LineTimeUp(s.Label)); err != nil {
		m.log.Error("alarm: notifying: %v", err)
	}
}

func (m *Monitor) evaluateTitle(s countdown.Snapshot) {
	t := countdown.Title(s.Display, s.Label)
	if !m.lastTitle.Changed(t) || m.title == nil {
		return
	}
	m.title(t)
}

// LineTimeUp is the notification text for a finished countdown.
func LineTimeUp(label string) string {
	if label == "" {
		return "Time is up!"
	}
	return "Time is up! " + label
}
