//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// darwinSender runs an AppleScript "display notification".
type darwinSender struct {
	available bool
}

func newPlatformSender() Sender {
	return &darwinSender{available: toolAvailable("osascript")}
}

func (s *darwinSender) SendVisual(n Notification) error {
	if !s.available {
		return nil
	}
	script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
	if n.Urgency == UrgencyCritical {
		script += ` sound name "Glass"`
	}
	return exec.Command("osascript", "-e", script).Run()
}

func (s *darwinSender) VisualAvailable() bool { return s.available }
