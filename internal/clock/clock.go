// Package clock abstracts the two things the countdown needs from the host:
// a monotonic time source and a periodic scheduler with a cancellable handle.
// Use System in production and Fake in tests.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock provides the current instant. Implementations must be monotonic:
// successive calls never go backwards, regardless of wall-clock changes.
type Clock interface {
	Now() time.Time
}

// Handle is a registered periodic callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler runs fn every interval until the returned handle is cancelled.
// Invocations for one handle never overlap.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// System is the production clock. time.Now carries a monotonic reading,
// so differences between two Now values ignore wall-clock adjustments.
type System struct{}

// Compile-time interface checks.
var (
	_ Clock     = System{}
	_ Scheduler = System{}
)

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// Every starts a ticker goroutine calling fn once per interval. The ticker
// delivers ticks to a single goroutine, so fn is never re-entered.
func (System) Every(interval time.Duration, fn func()) Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &tickerHandle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick racing with Cancel must not run.
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()

	return h
}

type tickerHandle struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the ticker goroutine. Non-blocking: a callback already in
// flight finishes on its own.
func (h *tickerHandle) Cancel() {
	h.once.Do(h.cancel)
}

// Done is closed once the ticker goroutine has exited.
func (h *tickerHandle) Done() <-chan struct{} { return h.done }
