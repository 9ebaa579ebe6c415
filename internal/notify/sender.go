package notify

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Sender delivers a notification to the OS notification system.
type Sender interface {
	SendVisual(n Notification) error
	VisualAvailable() bool
}

// NewSender returns the sender for the current OS, or a no-op sender when
// the OS is unsupported or running under CI.
func NewSender() Sender {
	if isCI() {
		return noopSender{}
	}
	return newPlatformSender()
}

// Platform returns the current operating system name.
func Platform() string {
	return runtime.GOOS
}

func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// isCI reports whether a common CI environment variable is set.
func isCI() bool {
	for _, v := range []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"BUILDKITE",
		"JENKINS_URL",
		"TF_BUILD",
	} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

type noopSender struct{}

func (noopSender) SendVisual(Notification) error { return nil }
func (noopSender) VisualAvailable() bool         { return false }

// psQuote escapes text for a single-quoted PowerShell string. Only quotes
// need doubling there; PowerShell also treats the typographic single
// quotes U+2018..U+201B as delimiters.
var psQuote = strings.NewReplacer(
	"'", "''",
	"\u2018", "\u2018\u2018",
	"\u2019", "\u2019\u2019",
	"\u201a", "\u201a\u201a",
	"\u201b", "\u201b\u201b",
).Replace
