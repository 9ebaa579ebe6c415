// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type renders the countdown as a large clock with its label and
// state above an input prompt. All application output is printed above
// the rendered area via Program.Println / Printf, so concurrent writes
// never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	clockIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	clockRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	clockOverdueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5")).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Println], [UI.Printf], [UI.Show] and [UI.SetTitle] and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns. None of them
// may be called from inside the Bubble Tea event loop.
type UI struct {
	program *tea.Program
	presets []int
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	ready   atomic.Bool
	done    atomic.Bool
}

// NewUI creates the display. presets are shown as shortcut hints.
func NewUI(presets []int) *UI {
	return &UI{
		presets: presets,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// live reports whether the event loop is accepting messages.
func (u *UI) live() bool {
	return u.program != nil && u.ready.Load() && !u.done.Load()
}

// Println prints a line above the prompt. Falls back to stdout when the
// program is not running.
func (u *UI) Println(a ...any) {
	if u.live() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...any) {
	if u.live() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// Show pushes a countdown snapshot to the view.
func (u *UI) Show(s countdown.Snapshot) {
	if u.live() {
		u.program.Send(snapshotMsg(s))
	}
}

// SetTitle sets the terminal window/tab title.
func (u *UI) SetTitle(title string) {
	if u.live() {
		u.program.Send(titleMsg(title))
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintInfo prints a plain response line.
func (u *UI) PrintInfo(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintVoice prints a voice-recognised input line.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintUserInput echoes a typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("timer") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	m := newModel(u.presets, u.inputCh, func(v string) { u.PrintUserInput(v) })
	m.onReady = func() {
		u.ready.Store(true)
		close(u.readyCh)
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

const promptText = "timer> "

type model struct {
	input   textinput.Model
	inputCh chan<- string
	echoFn  func(string) // prints user input into scrollback
	onReady func()
	presets []int
	snap    countdown.Snapshot
	width   int
}

// Messages.
type (
	snapshotMsg countdown.Snapshot
	titleMsg    string
	readyMsg    struct{}
)

func newModel(presets []int, inputCh chan<- string, echo func(string)) model {
	ti := textinput.New()
	// A plain-text prompt keeps the textinput width math correct.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60 // updated on first WindowSizeMsg

	return model{
		input:   ti,
		inputCh: inputCh,
		echoFn:  echo,
		presets: presets,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg { return readyMsg{} },
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case readyMsg:
		if m.onReady != nil {
			m.onReady()
			m.onReady = nil
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeySpace:
			// Space on an empty prompt is the start/stop button.
			if m.input.Value() == "" {
				m.submit("toggle")
				return m, nil
			}
		case tea.KeyEnter:
			v := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if v == "" {
				return m, nil
			}
			m.submit(v)
			// Echo from a Cmd so Println runs outside Update.
			echoFn := m.echoFn
			return m, func() tea.Msg {
				echoFn(v)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case snapshotMsg:
		m.snap = countdown.Snapshot(msg)
		return m, nil

	case titleMsg:
		return m, tea.SetWindowTitle(string(msg))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands a command to the app without ever blocking the event loop.
// A full queue drops the command.
func (m model) submit(v string) {
	select {
	case m.inputCh <- v:
	default:
	}
}

func (m model) View() string {
	var b strings.Builder

	w := m.width
	if w <= 0 {
		w = 80
	}

	clock := BigText(countdown.Format(m.snap.Display))
	b.WriteByte('\n')
	b.WriteString(centre(clock[:], w, m.clockStyle().Render))

	b.WriteString(centre([]string{m.statusLine()}, w, func(s ...string) string {
		return strings.Join(s, "")
	}))
	b.WriteString(centre([]string{m.hintLine()}, w, secondaryStyle.Render))

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) clockStyle() lipgloss.Style {
	switch {
	case m.snap.Overdue():
		return clockOverdueStyle
	case m.snap.Running:
		return clockRunStyle
	default:
		return clockIdleStyle
	}
}

// statusLine shows the label and state under the clock.
func (m model) statusLine() string {
	state := "stopped"
	switch {
	case m.snap.Overdue():
		state = "time is up"
	case m.snap.Running:
		state = "running"
	}
	if m.snap.Label == "" {
		return stateStyle.Render(state)
	}
	return labelStyle.Render(m.snap.Label) + sepStyle.Render("  │  ") + stateStyle.Render(state)
}

func (m model) hintLine() string {
	parts := []string{"space start/stop", "x clear"}
	for i, p := range m.presets {
		parts = append(parts, fmt.Sprintf("%d +%s", i+1, countdown.Compact(p)))
	}
	return strings.Join(parts, " · ")
}
