package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFakeAdvanceFiresInOrder(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFake(start)

	var seen []time.Duration
	f.Every(100*time.Millisecond, func() {
		seen = append(seen, f.Now().Sub(start))
	})

	f.Advance(350 * time.Millisecond)

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(seen) != len(want) {
		t.Fatalf("expected %d callbacks, got %d (%v)", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("callback %d saw %s, want %s", i, seen[i], want[i])
		}
	}
	if got := f.Now().Sub(start); got != 350*time.Millisecond {
		t.Fatalf("expected clock at 350ms, got %s", got)
	}
}

func TestFakeCancelStopsCallbacks(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	calls := 0
	h := f.Every(50*time.Millisecond, func() { calls++ })
	f.Advance(100 * time.Millisecond)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}

	h.Cancel()
	h.Cancel() // idempotent
	f.Advance(time.Second)

	if calls != 2 {
		t.Fatalf("expected no calls after cancel, got %d", calls)
	}
	if f.Active() != 0 {
		t.Fatalf("expected 0 active jobs, got %d", f.Active())
	}
}

func TestFakeCancelFromInsideCallback(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	calls := 0
	var h Handle
	h = f.Every(10*time.Millisecond, func() {
		calls++
		h.Cancel()
	})
	f.Advance(100 * time.Millisecond)

	if calls != 1 {
		t.Fatalf("expected exactly 1 call, got %d", calls)
	}
}

func TestSystemEveryAndCancel(t *testing.T) {
	var calls atomic.Int32
	h := System{}.Every(10*time.Millisecond, func() { calls.Add(1) })

	time.Sleep(80 * time.Millisecond)
	h.Cancel()

	th := h.(*tickerHandle)
	select {
	case <-th.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker goroutine did not exit after cancel")
	}

	n := calls.Load()
	if n == 0 {
		t.Fatal("expected at least one tick")
	}

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != n {
		t.Fatalf("ticks continued after cancel: %d -> %d", n, calls.Load())
	}
}
