//go:build linux

package notify

import (
	"os"
	"os/exec"
)

// linuxSender shells out to notify-send.
type linuxSender struct {
	available bool
}

func newPlatformSender() Sender {
	return &linuxSender{available: toolAvailable("notify-send") && hasDisplay()}
}

// hasDisplay reports whether an X11 or Wayland session is reachable.
func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func (s *linuxSender) SendVisual(n Notification) error {
	if !s.available {
		return nil
	}
	urgency := "normal"
	if n.Urgency == UrgencyCritical {
		urgency = "critical"
	}
	return exec.Command("notify-send", "-a", "ottotimer", "-u", urgency, n.Title, n.Message).Run()
}

func (s *linuxSender) VisualAvailable() bool { return s.available }
