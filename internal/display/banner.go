package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art centred for the current terminal
// width.
func RenderBanner() string {
	return centre(strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n"), termWidth(), BannerStyle.Render)
}

// centre pads every line by the same amount so the block is centred as a
// whole, then styles it.
func centre(lines []string, width int, render func(...string) string) string {
	maxW := 0
	for _, l := range lines {
		maxW = max(maxW, len([]rune(l)))
	}
	pad := ""
	if width > maxW {
		pad = strings.Repeat(" ", (width-maxW)/2)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(pad)
		b.WriteString(render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
