//go:build windows

package notify

import (
	"fmt"
	"os/exec"
)

// windowsSender shows a toast through PowerShell's WinRT bindings.
type windowsSender struct {
	available bool
}

func newPlatformSender() Sender {
	return &windowsSender{available: toolAvailable("powershell")}
}

const toastScript = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$text = $template.GetElementsByTagName('text')
$text.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$text.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('ottotimer').Show($toast)
`

func (s *windowsSender) SendVisual(n Notification) error {
	if !s.available {
		return nil
	}
	script := fmt.Sprintf(toastScript, psQuote(n.Title), psQuote(n.Message))
	return exec.Command("powershell", "-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script).Run()
}

func (s *windowsSender) VisualAvailable() bool { return s.available }
