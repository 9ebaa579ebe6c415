package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock and Scheduler. Callbacks fire only
// inside Advance, in due-time order, on the caller's goroutine.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	jobs  []*fakeJob
	fired int
}

// Compile-time interface checks.
var (
	_ Clock     = (*Fake)(nil)
	_ Scheduler = (*Fake)(nil)
)

type fakeJob struct {
	interval  time.Duration
	next      time.Time
	fn        func()
	cancelled bool
}

// NewFake creates a fake clock reading start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake's current instant.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Every registers fn to run each interval of fake time.
func (f *Fake) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	j := &fakeJob{interval: interval, next: f.now.Add(interval), fn: fn}
	f.jobs = append(f.jobs, j)
	return &fakeHandle{fake: f, job: j}
}

// Advance moves time forward by d, firing every callback that comes due
// along the way. Time is set to each due instant before its callback runs,
// so callbacks observe the same Now a real ticker would.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		j := f.nextDueLocked(target)
		if j == nil {
			break
		}
		f.now = j.next
		j.next = j.next.Add(j.interval)
		f.fired++

		f.mu.Unlock()
		j.fn()
		f.mu.Lock()
	}

	f.now = target
	f.mu.Unlock()
}

// Active returns how many registered callbacks are still live.
func (f *Fake) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, j := range f.jobs {
		if !j.cancelled {
			n++
		}
	}
	return n
}

// Fired returns the total number of callback invocations so far.
func (f *Fake) Fired() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired
}

func (f *Fake) nextDueLocked(target time.Time) *fakeJob {
	var due *fakeJob
	for _, j := range f.jobs {
		if j.cancelled || j.next.After(target) {
			continue
		}
		if due == nil || j.next.Before(due.next) {
			due = j
		}
	}
	return due
}

type fakeHandle struct {
	fake *Fake
	job  *fakeJob
}

func (h *fakeHandle) Cancel() {
	h.fake.mu.Lock()
	defer h.fake.mu.Unlock()
	h.job.cancelled = true
}
