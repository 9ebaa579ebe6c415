package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// mockSender records notifications and can be made to block.
type mockSender struct {
	mu        sync.Mutex
	available bool
	err       error
	block     chan struct{}
	sent      []Notification
}

func (m *mockSender) SendVisual(n Notification) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.err
}

func (m *mockSender) VisualAvailable() bool { return m.available }

func (m *mockSender) notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.sent...)
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
	err      error
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.err
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return m.err
}

func quietLog() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}

func TestDesktopNotifierForwardsAndSends(t *testing.T) {
	sender := &mockSender{available: true}
	inner := &mockNotifier{}
	d := NewDesktopNotifier(inner, sender, quietLog(), WithTitle("Timer"))

	if err := d.NotifyUrgent(context.Background(), "Time is up! Tea"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Notify(context.Background(), "Started"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Wait()

	if len(inner.urgent) != 1 || len(inner.messages) != 1 {
		t.Fatalf("inner notifier not called: %v / %v", inner.urgent, inner.messages)
	}

	sent := sender.notifications()
	if len(sent) != 2 {
		t.Fatalf("expected 2 desktop notifications, got %d", len(sent))
	}
	urgent := map[Urgency]string{}
	for _, n := range sent {
		if n.Title != "Timer" {
			t.Errorf("unexpected title %q", n.Title)
		}
		urgent[n.Urgency] = n.Message
	}
	if urgent[UrgencyCritical] != "Time is up! Tea" {
		t.Errorf("critical notification missing: %v", sent)
	}
	if urgent[UrgencyNormal] != "Started" {
		t.Errorf("normal notification missing: %v", sent)
	}
}

func TestDesktopNotifierUnavailableIsSilent(t *testing.T) {
	sender := &mockSender{available: false}
	inner := &mockNotifier{}
	d := NewDesktopNotifier(inner, sender, quietLog())

	if d.Available() {
		t.Fatal("expected notifier to report unavailable")
	}
	_ = d.NotifyUrgent(context.Background(), "Time is up!")
	d.Wait()

	if len(sender.notifications()) != 0 {
		t.Fatal("expected no desktop notification")
	}
	if len(inner.urgent) != 1 {
		t.Fatal("inner notifier should still be called")
	}
}

func TestDesktopNotifierUrgentOnly(t *testing.T) {
	sender := &mockSender{available: true}
	d := NewDesktopNotifier(nil, sender, quietLog(), WithUrgentOnly())

	_ = d.Notify(context.Background(), "Started")
	_ = d.NotifyUrgent(context.Background(), "Time is up!")
	d.Wait()

	sent := sender.notifications()
	if len(sent) != 1 || sent[0].Urgency != UrgencyCritical {
		t.Fatalf("expected only the urgent notification, got %v", sent)
	}
}

func TestDesktopNotifierDoesNotBlock(t *testing.T) {
	sender := &mockSender{available: true, block: make(chan struct{})}
	d := NewDesktopNotifier(nil, sender, quietLog(), WithSendTimeout(20*time.Millisecond))

	start := time.Now()
	_ = d.NotifyUrgent(context.Background(), "Time is up!")
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("NotifyUrgent blocked for %s", elapsed)
	}

	// The dispatcher gives up after the timeout even though the send hangs.
	d.Wait()
	close(sender.block)
}

func TestDesktopNotifierInnerErrorStopsSend(t *testing.T) {
	sender := &mockSender{available: true}
	inner := &mockNotifier{err: errors.New("boom")}
	d := NewDesktopNotifier(inner, sender, quietLog())

	if err := d.NotifyUrgent(context.Background(), "Time is up!"); err == nil {
		t.Fatal("expected inner error to propagate")
	}
	d.Wait()
	if len(sender.notifications()) != 0 {
		t.Fatal("expected no desktop notification after inner failure")
	}
}

func TestSenderErrorIsSwallowed(t *testing.T) {
	sender := &mockSender{available: true, err: errors.New("notify-send exited 1")}
	d := NewDesktopNotifier(nil, sender, quietLog())

	if err := d.NotifyUrgent(context.Background(), "Time is up!"); err != nil {
		t.Fatalf("sender failure must not surface: %v", err)
	}
	d.Wait()
}

func TestNoopSender(t *testing.T) {
	var s Sender = noopSender{}
	if s.VisualAvailable() {
		t.Fatal("noop sender must report unavailable")
	}
	if err := s.SendVisual(NewNotification("a", "b", UrgencyNormal)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSenderUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	if NewSender().VisualAvailable() {
		t.Fatal("expected no desktop notifications under CI")
	}
}

func TestPSQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Time is up! Tea", "Time is up! Tea"},
		{"Ma's tea", "Ma''s tea"},
		{"cost $5 `now`", "cost $5 `now`"},
		{"‘x’", "‘‘x’’"},
		{"‚y‛", "‚‚y‛‛"},
	}
	for _, tt := range tests {
		if got := psQuote(tt.in); got != tt.want {
			t.Errorf("psQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
