package alarm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/clock"
	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// mockSounder counts start/stop calls.
type mockSounder struct {
	mu     sync.Mutex
	starts int
	stops  int
}

func (s *mockSounder) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
}

func (s *mockSounder) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

func (s *mockSounder) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) urgentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urgent)
}

func setupMonitor(t *testing.T) (*Monitor, *mockSounder, *mockNotifier, *[]string) {
	t.Helper()
	sounder := &mockSounder{}
	notifier := &mockNotifier{}
	var titles []string
	mon := New(sounder, notifier, logger.New(logger.LevelOff, nil),
		WithTitle(func(s string) { titles = append(titles, s) }),
	)
	return mon, sounder, notifier, &titles
}

func TestZeroCrossingFiresOnce(t *testing.T) {
	mon, _, notifier, _ := setupMonitor(t)

	for _, d := range []int{3, 2, 1, 0, -1, -2, -3} {
		mon.Observe(countdown.Snapshot{Display: d, Running: true, Label: "Tea"})
	}

	if notifier.urgentCount() != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", notifier.urgentCount())
	}
	if got := notifier.urgent[0]; got != "Time is up! Tea" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestNoCrossingWhileIdle(t *testing.T) {
	mon, _, notifier, _ := setupMonitor(t)

	// Clearing from 1 drops the display to 0 while idle.
	mon.Observe(countdown.Snapshot{Display: 1, Running: true})
	mon.Observe(countdown.Snapshot{Display: 0, Running: false})

	if notifier.urgentCount() != 0 {
		t.Fatalf("expected no notification, got %d", notifier.urgentCount())
	}
}

func TestCrossingRefiresAfterTimeAdded(t *testing.T) {
	mon, _, notifier, _ := setupMonitor(t)

	seq := []countdown.Snapshot{
		{Display: 1, Running: true},
		{Display: 0, Running: true},  // fire
		{Display: -4, Running: true}, // overdue
		{Display: 56, Running: true}, // +1m
		{Display: 1, Running: true},
		{Display: 0, Running: true}, // fire again
	}
	for _, s := range seq {
		mon.Observe(s)
	}

	if notifier.urgentCount() != 2 {
		t.Fatalf("expected 2 notifications, got %d", notifier.urgentCount())
	}
	if mon.Fired() != 2 {
		t.Fatalf("expected Fired()=2, got %d", mon.Fired())
	}
}

func TestStartingAtZeroDoesNotNotify(t *testing.T) {
	mon, sounder, notifier, _ := setupMonitor(t)

	mon.Observe(countdown.Snapshot{Display: 0, Running: false})
	mon.Observe(countdown.Snapshot{Display: 0, Running: true})

	if notifier.urgentCount() != 0 {
		t.Fatalf("expected no notification, got %d", notifier.urgentCount())
	}
	// The alarm itself does ring: running with nothing left.
	if starts, _ := sounder.counts(); starts != 1 {
		t.Fatalf("expected alarm to start, got %d starts", starts)
	}
}

func TestSoundEdges(t *testing.T) {
	mon, sounder, _, _ := setupMonitor(t)

	seq := []countdown.Snapshot{
		{Display: 2, Running: true},
		{Display: 1, Running: true},
		{Display: 0, Running: true},   // start
		{Display: -1, Running: true},  // still ringing
		{Display: -1, Running: false}, // stop
		{Display: -1, Running: true},  // start again
		{Display: 59, Running: true},  // added time, stop
		{Display: 0, Running: false},  // idle, nothing
	}
	for _, s := range seq {
		mon.Observe(s)
	}

	starts, stops := sounder.counts()
	if starts != 2 || stops != 2 {
		t.Fatalf("expected 2 starts and 2 stops, got %d/%d", starts, stops)
	}
}

func TestCloseSilencesRingingAlarm(t *testing.T) {
	mon, sounder, _, _ := setupMonitor(t)

	mon.Observe(countdown.Snapshot{Display: -1, Running: true})
	mon.Close()
	mon.Close()

	if _, stops := sounder.counts(); stops != 1 {
		t.Fatalf("expected one stop on close, got %d", stops)
	}
}

func TestTitleFollowsDisplayAndLabel(t *testing.T) {
	mon, _, _, titles := setupMonitor(t)

	mon.Observe(countdown.Snapshot{Display: 65})
	mon.Observe(countdown.Snapshot{Display: 65}) // unchanged
	mon.Observe(countdown.Snapshot{Display: 65, Label: "Tea"})
	mon.Observe(countdown.Snapshot{Display: -1, Running: true, Label: "Tea"})

	want := []string{"00:01:05", "00:01:05 - Tea", "-00:00:01 - Tea"}
	if len(*titles) != len(want) {
		t.Fatalf("expected titles %v, got %v", want, *titles)
	}
	for i := range want {
		if (*titles)[i] != want[i] {
			t.Errorf("title %d = %q, want %q", i, (*titles)[i], want[i])
		}
	}
}

func TestNilCollaborators(t *testing.T) {
	mon := New(nil, nil, logger.New(logger.LevelOff, nil))
	mon.Observe(countdown.Snapshot{Display: 1, Running: true})
	mon.Observe(countdown.Snapshot{Display: 0, Running: true})
	mon.Close()

	if mon.Fired() != 1 {
		t.Fatalf("expected crossing counted without a notifier, got %d", mon.Fired())
	}
}

func TestMonitorWithEngine(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	fake := clock.NewFake(time.Unix(0, 0))
	eng := countdown.New(fake, fake, log)
	defer eng.Close()

	sounder := &mockSounder{}
	notifier := &mockNotifier{}
	mon := New(sounder, notifier, log)
	eng.Subscribe(mon.Observe)

	eng.SetLabel("Eggs")
	eng.AddTime(3)
	eng.Start()
	fake.Advance(10 * time.Second)

	if eng.DisplaySeconds() != -7 {
		t.Fatalf("expected -7, got %d", eng.DisplaySeconds())
	}
	if notifier.urgentCount() != 1 {
		t.Fatalf("expected one notification, got %d", notifier.urgentCount())
	}
	if starts, stops := sounder.counts(); starts != 1 || stops != 0 {
		t.Fatalf("expected alarm ringing, got %d starts / %d stops", starts, stops)
	}

	eng.Stop()
	if _, stops := sounder.counts(); stops != 1 {
		t.Fatalf("expected alarm silenced by stop, got %d stops", stops)
	}

	eng.Clear()
	fake.Advance(10 * time.Second)
	if notifier.urgentCount() != 1 {
		t.Fatalf("expected no further notifications, got %d", notifier.urgentCount())
	}
}
