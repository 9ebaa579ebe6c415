package display

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
)

func testModel() (model, chan string) {
	ch := make(chan string, 4)
	return newModel([]int{300, 60, 10}, ch, func(string) {}), ch
}

func TestSpaceOnEmptyPromptToggles(t *testing.T) {
	m, ch := testModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(model)

	select {
	case v := <-ch:
		if v != "toggle" {
			t.Fatalf("expected toggle, got %q", v)
		}
	default:
		t.Fatal("expected a command on space")
	}
	if m.input.Value() != "" {
		t.Fatalf("space must not reach the prompt, got %q", m.input.Value())
	}
}

func TestEnterSubmitsTrimmedInput(t *testing.T) {
	m, ch := testModel()
	m.input.SetValue("  +5m ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	if got := <-ch; got != "+5m" {
		t.Fatalf("expected +5m, got %q", got)
	}
	if cmd == nil {
		t.Fatal("expected an echo command")
	}
	if m.input.Value() != "" {
		t.Fatal("expected the prompt to be reset")
	}
}

func TestEnterOnEmptyPromptDoesNothing(t *testing.T) {
	m, ch := testModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command")
	}
	select {
	case v := <-ch:
		t.Fatalf("unexpected command %q", v)
	default:
	}
}

func TestSubmitNeverBlocks(t *testing.T) {
	ch := make(chan string) // unbuffered, nobody reading
	m := newModel(nil, ch, func(string) {})
	m.submit("start") // must return
}

func TestSnapshotRendering(t *testing.T) {
	m, _ := testModel()
	m.width = 100

	next, _ := m.Update(snapshotMsg(countdown.Snapshot{Display: 65, Running: true, Label: "Tea"}))
	view := next.(model).View()

	for _, want := range []string{"Tea", "running", "1 +5m", "2 +1m", "3 +10s", promptText} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	big := BigText("00:01:05")
	if !strings.Contains(view, big[1]) {
		t.Errorf("view missing clock row %q", big[1])
	}
}

func TestOverdueState(t *testing.T) {
	m, _ := testModel()
	m.snap = countdown.Snapshot{Display: -3, Running: true}
	if !strings.Contains(m.statusLine(), "time is up") {
		t.Fatalf("unexpected status %q", m.statusLine())
	}
	if m.clockStyle().GetBold() != true {
		t.Fatal("expected the overdue clock to be bold")
	}
}

func TestTitleMsgSetsWindowTitle(t *testing.T) {
	m, _ := testModel()
	_, cmd := m.Update(titleMsg("00:04:59 - Tea"))
	if cmd == nil {
		t.Fatal("expected a SetWindowTitle command")
	}
}

func TestBigText(t *testing.T) {
	rows := BigText("-1:0")
	want := [3]string{
		"   " + " " + "   " + " " + " " + " " + " _ ",
		" _ " + " " + "  |" + " " + "." + " " + "| |",
		"   " + " " + "  |" + " " + "." + " " + "|_|",
	}
	for i := range rows {
		if rows[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestCentre(t *testing.T) {
	out := centre([]string{"ab", "abcd"}, 10, func(s ...string) string { return strings.Join(s, "") })
	if out != "   ab\n   abcd\n" {
		t.Fatalf("unexpected %q", out)
	}
}
