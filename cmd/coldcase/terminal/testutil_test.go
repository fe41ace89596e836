package terminal

import (
	"context"
	"testing"
	"time"

	"coldcase/cmd/coldcase/ui"
	"coldcase/internal/archive"
	"coldcase/internal/assistant"
	"coldcase/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// TestModelOption configures a test model.
type TestModelOption func(*testSetup)

type testSetup struct {
	opts   session.Options
	width  int
	height int
}

// WithAssistant wires a fake analysis assistant.
func WithAssistant(a assistant.Assistant) TestModelOption {
	return func(s *testSetup) { s.opts.Assistant = a }
}

// WithSize sets the initial window size.
func WithSize(width, height int) TestModelOption {
	return func(s *testSetup) { s.width, s.height = width, height }
}

// NewTestModel builds a ready model over a fresh copy of the built-in case.
// Decrypt settles without waiting, markdown rendering is off and the clock is
// fixed at 1999-11-08.
func NewTestModel(t *testing.T, opts ...TestModelOption) Model {
	t.Helper()
	setup := &testSetup{
		opts: session.Options{
			Clipboard: Clipboard(),
			Sleep:     func(context.Context, time.Duration) error { return nil },
		},
		width:  120,
		height: 40,
	}
	for _, opt := range opts {
		opt(setup)
	}

	arc, err := archive.LoadBuiltin(archive.DefaultCase)
	if err != nil {
		t.Fatalf("load case: %v", err)
	}
	sess := session.New(session.NewEngine(arc, setup.opts))

	m := New(sess, WithStyles(ui.NewStyles(ui.AmberTheme())))
	m.renderer = nil
	m.now = func() time.Time { return time.Date(1999, 11, 8, 23, 0, 0, 0, time.UTC) }
	m.resize(setup.width, setup.height)
	return m
}

// mockClipboard swaps the system clipboard for the duration of the test and
// returns the slice copies are recorded in.
func mockClipboard(t *testing.T, err error) *[]string {
	t.Helper()
	var copied []string
	old := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = append(copied, s)
		return err
	}
	t.Cleanup(func() { clipboardWriteAll = old })
	return &copied
}

// typeLine enters line and presses Enter, returning the updated model and the
// command Update produced.
func typeLine(m Model, line string) (Model, tea.Cmd) {
	m.textinput.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// collect runs cmd and every command batched inside it, returning the
// messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds every taskDoneMsg produced by cmd back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	found := false
	for _, msg := range collect(cmd) {
		if done, ok := msg.(taskDoneMsg); ok {
			found = true
			next, _ := m.Update(done)
			m = next.(Model)
		}
	}
	if !found {
		t.Fatalf("expected a task to be started")
	}
	return m
}

func lastEntry(m Model) session.Entry {
	tr := m.sess.State().Transcript
	return tr[len(tr)-1]
}
