// Package notify raises desktop notifications through the host's own
// tooling: notify-send on Linux, osascript on macOS and a PowerShell toast on
// Windows. Hosts without a display or without the tool get a no-op sender.
package notify

// Urgency maps onto the platform's notification priority.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Notification is a single desktop notification.
type Notification struct {
	Title   string
	Message string
	Urgency Urgency
}

// NewNotification creates a notification.
func NewNotification(title, message string, urgency Urgency) Notification {
	return Notification{Title: title, Message: message, Urgency: urgency}
}
