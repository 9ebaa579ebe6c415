// Package countdown implements the countdown state machine: a single timer
// whose remaining time is always recomputed from an anchor instant instead
// of being decremented on each poll, so scheduling jitter never accumulates.
package countdown

import (
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/clock"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Poll interval bounds. Finer than a second keeps the visible second
// transition prompt; coarser than a few ms avoids busy work.
const (
	DefaultPollInterval = 100 * time.Millisecond
	MinPollInterval     = 10 * time.Millisecond
	MaxPollInterval     = time.Second
)

// Option configures the engine.
type Option func(*Engine)

// WithPollInterval sets how often the running engine recomputes the display.
// Values outside [MinPollInterval, MaxPollInterval] are clamped.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.interval = min(max(d, MinPollInterval), MaxPollInterval)
	}
}

// WithLabel sets the initial label.
func WithLabel(label string) Option {
	return func(e *Engine) {
		e.label = label
	}
}

// Snapshot is an immutable view of the engine handed to observers.
type Snapshot struct {
	Display int // remaining seconds, negative when overdue
	Running bool
	Label   string
}

// Overdue reports whether the countdown is running at or past zero.
func (s Snapshot) Overdue() bool {
	return s.Running && s.Display <= 0
}

// String returns a short description for logs.
func (s Snapshot) String() string {
	state := "idle"
	if s.Running {
		state = "running"
	}
	return fmt.Sprintf("%s %s label=%q", Format(s.Display), state, s.Label)
}

// Engine is the countdown state machine. Transitions and poll ticks are
// serialized by one mutex. Observers registered with Subscribe are called in
// publish order after every externally visible change; they must not call
// back into the engine synchronously.
type Engine struct {
	clock    clock.Clock
	sched    clock.Scheduler
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	target  int       // remaining seconds at the last anchor
	anchor  time.Time // zero unless running
	running bool
	display int
	label   string
	poll    clock.Handle
	gen     uint64 // bumped on every Start; stale ticks compare against it
	closed  bool

	pubMu   sync.Mutex // held across observer calls to keep publish order
	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates an idle engine at 00:00:00. clk supplies monotonic time and
// sched drives the poll while running.
func New(clk clock.Clock, sched clock.Scheduler, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		clock:    clk,
		sched:    sched,
		log:      log,
		interval: DefaultPollInterval,
		subs:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers fn to receive a snapshot after each change. The
// returned func removes the subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

// ── Accessors ────────────────────────────────────────────────────

// DisplaySeconds returns the last computed remaining seconds.
func (e *Engine) DisplaySeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

// Running reports whether the countdown is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Label returns the user-supplied name.
func (e *Engine) Label() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.label
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// ── Transitions ──────────────────────────────────────────────────

// AddTime adds delta seconds (negative subtracts). While running, the
// elapsed progress is folded into the target and the anchor reset to now
// before adding, so no elapsed time is lost or counted twice.
func (e *Engine) AddTime(delta int) {
	e.mu.Lock()
	if e.running {
		now := e.clock.Now()
		e.target = e.remainingLocked(now)
		e.anchor = now
	}
	e.target += delta
	e.display = e.target

	e.log.Debug("countdown: add %+ds -> %s", delta, Format(e.display))
	e.publishLocked()
}

// Set replaces the duration. Only valid while idle.
func (e *Engine) Set(seconds int) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return domain.ErrRunning
	}
	e.target = seconds
	e.display = seconds

	e.log.Debug("countdown: set %s", Format(seconds))
	e.publishLocked()
	return nil
}

// Start anchors the countdown at now and begins polling. No-op when
// already running or after Close.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running || e.closed {
		e.mu.Unlock()
		return
	}
	e.startLocked()
	e.publishLocked()
}

// Stop freezes the countdown at its current remaining time and cancels
// polling. No-op when idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.stopLocked()
	e.publishLocked()
}

// Toggle starts an idle countdown or stops a running one as a single
// transition, and reports whether the countdown is now running. After
// Close it does nothing and reports false.
func (e *Engine) Toggle() (running bool) {
	e.mu.Lock()
	switch {
	case e.running:
		e.stopLocked()
	case e.closed:
		e.mu.Unlock()
		return false
	default:
		e.startLocked()
	}
	running = e.running
	e.publishLocked()
	return running
}

func (e *Engine) startLocked() {
	e.anchor = e.clock.Now()
	e.running = true
	e.gen++
	gen := e.gen
	e.poll = e.sched.Every(e.interval, func() { e.tick(gen) })

	e.log.Info("countdown: started at %s (poll=%s)", Format(e.display), e.interval)
}

func (e *Engine) stopLocked() {
	e.display = e.remainingLocked(e.clock.Now())
	e.target = e.display
	e.haltLocked()

	e.log.Info("countdown: stopped at %s", Format(e.display))
}

// Clear cancels polling and resets the countdown to zero. Valid in any state.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.haltLocked()
	e.target = 0
	e.display = 0

	e.log.Info("countdown: cleared")
	e.publishLocked()
}

// SetLabel names the countdown. Timing is unaffected.
func (e *Engine) SetLabel(label string) {
	e.mu.Lock()
	if e.label == label {
		e.mu.Unlock()
		return
	}
	e.label = label
	e.publishLocked()
}

// Close tears the engine down: any active poll is cancelled and later
// Start calls are ignored. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.running {
		e.display = e.remainingLocked(e.clock.Now())
		e.target = e.display
	}
	e.haltLocked()
	e.closed = true
	e.log.Debug("countdown: closed")
}

// ── Internals ────────────────────────────────────────────────────

// tick recomputes the display from the anchor. Called only by the poll
// registered for generation gen; ticks from a cancelled poll are dropped.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if !e.running || gen != e.gen {
		e.mu.Unlock()
		return
	}

	next := e.remainingLocked(e.clock.Now())
	if next == e.display {
		e.mu.Unlock()
		return
	}
	e.display = next
	e.publishLocked()
}

// remainingLocked computes target - whole seconds elapsed since the anchor.
func (e *Engine) remainingLocked(now time.Time) int {
	elapsed := now.Sub(e.anchor)
	if elapsed < 0 {
		elapsed = 0
	}
	return e.target - int(elapsed/time.Second)
}

// haltLocked leaves the running state and releases the poll handle.
func (e *Engine) haltLocked() {
	if e.poll != nil {
		e.poll.Cancel()
		e.poll = nil
	}
	e.running = false
	e.anchor = time.Time{}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{Display: e.display, Running: e.running, Label: e.label}
}

// publishLocked must be called with e.mu held; it releases e.mu and then
// delivers the snapshot to every subscriber. pubMu is taken before e.mu is
// released so two publishes can never reach observers out of order.
func (e *Engine) publishLocked() {
	snap := e.snapshotLocked()
	e.pubMu.Lock()
	e.mu.Unlock()
	defer e.pubMu.Unlock()

	e.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(e.subs))
	for id := 0; id < e.nextSub; id++ {
		if fn, ok := e.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
