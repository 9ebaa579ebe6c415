package notify

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*DesktopNotifier)(nil)

// DefaultSendTimeout bounds a single notification process.
const DefaultSendTimeout = 5 * time.Second

// DesktopOption configures a DesktopNotifier.
type DesktopOption func(*DesktopNotifier)

// WithTitle sets the notification title. Default "ottotimer".
func WithTitle(title string) DesktopOption {
	return func(d *DesktopNotifier) {
		d.title = title
	}
}

// WithSendTimeout sets how long a send may run before it is abandoned.
func WithSendTimeout(t time.Duration) DesktopOption {
	return func(d *DesktopNotifier) {
		d.timeout = t
	}
}

// WithUrgentOnly suppresses desktop notifications for normal messages.
func WithUrgentOnly() DesktopOption {
	return func(d *DesktopNotifier) {
		d.urgentOnly = true
	}
}

// DesktopNotifier wraps another notifier and mirrors its messages to the
// desktop. The inner notifier runs synchronously; the desktop send runs on
// its own goroutine so callers never wait on an external process.
type DesktopNotifier struct {
	inner      domain.Notifier
	sender     Sender
	log        *logger.Logger
	title      string
	timeout    time.Duration
	urgentOnly bool

	wg sync.WaitGroup
}

// NewDesktopNotifier creates a desktop notifier. inner may be nil.
func NewDesktopNotifier(inner domain.Notifier, sender Sender, log *logger.Logger, opts ...DesktopOption) *DesktopNotifier {
	d := &DesktopNotifier{
		inner:   inner,
		sender:  sender,
		log:     log,
		title:   "ottotimer",
		timeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Available reports whether desktop notifications can be shown at all.
// When false, only the inner notifier is used.
func (d *DesktopNotifier) Available() bool {
	return d.sender != nil && d.sender.VisualAvailable()
}

// Notify forwards to the inner notifier and posts a normal notification.
func (d *DesktopNotifier) Notify(ctx context.Context, message string) error {
	if d.inner != nil {
		if err := d.inner.Notify(ctx, message); err != nil {
			return err
		}
	}
	if !d.urgentOnly {
		d.dispatch(NewNotification(d.title, message, UrgencyNormal))
	}
	return nil
}

// NotifyUrgent forwards to the inner notifier and posts a critical notification.
func (d *DesktopNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if d.inner != nil {
		if err := d.inner.NotifyUrgent(ctx, message); err != nil {
			return err
		}
	}
	d.dispatch(NewNotification(d.title, message, UrgencyCritical))
	return nil
}

// Wait blocks until every in-flight send has finished or timed out.
func (d *DesktopNotifier) Wait() {
	d.wg.Wait()
}

// dispatch sends n in the background. A send that outlives the timeout is
// abandoned and logged; its process is left to finish on its own.
func (d *DesktopNotifier) dispatch(n Notification) {
	if !d.Available() {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- d.sender.SendVisual(n)
		}()

		select {
		case err := <-done:
			if err != nil {
				d.log.Warn("notify: desktop notification failed: %v", err)
				return
			}
			d.log.Debug("notify: sent %q (%s)", n.Message, n.Urgency)
		case <-ctx.Done():
			d.log.Warn("notify: desktop notification timed out after %s", d.timeout)
		}
	}()
}
