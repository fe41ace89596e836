package terminal

import (
	"errors"
	"slices"
	"strings"

	"coldcase/internal/logging"
	"coldcase/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// taskDoneMsg carries the outcome of a pending task back to the UI goroutine.
type taskDoneMsg struct {
	out session.Outcome
}

const (
	headerHeight  = 2
	inputHeight   = 1
	statusHeight  = 1
	dividerHeight = 1
	footerHeight  = 1
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.busy() {
				return m, nil
			}
			return m.submit()

		case tea.KeyTab:
			m.cycleSelection(1)
			return m, nil

		case tea.KeyShiftTab:
			m.cycleSelection(-1)
			return m, nil

		case tea.KeyCtrlY:
			m.copySelected()
			return m, nil
		}

		if !m.busy() {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case taskDoneMsg:
		if _, err := m.sess.Complete(msg.out); err != nil {
			logging.Get(logging.CategoryUI).Warn("dropped task outcome: %v", err)
		}
		m.textinput.Focus()
		m.refresh(true)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m Model) busy() bool {
	return m.sess.State().Busy
}

// submit sends the input line to the session and starts any task it leaves
// pending.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.textinput.Value()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.textinput.Reset()

	delta, err := m.sess.Submit(line)
	if errors.Is(err, session.ErrBusy) {
		return m, nil
	}
	m.refresh(true)
	if delta.Pending == nil {
		return m, nil
	}

	logging.UIDebug("task %s started", delta.Pending.Kind)
	m.textinput.Blur()
	return m, tea.Batch(m.runTask(delta.Pending), m.spinner.Tick)
}

// runTask runs task off the UI goroutine.
func (m Model) runTask(task *session.Task) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return taskDoneMsg{out: task.Run(ctx)}
	}
}

// cycleSelection moves the selection through the latest listing, wrapping at
// both ends.
func (m *Model) cycleSelection(step int) {
	n := len(m.listing)
	if n == 0 {
		return
	}
	switch {
	case m.selected < 0 && step > 0:
		m.selected = 0
	case m.selected < 0:
		m.selected = n - 1
	default:
		m.selected = ((m.selected+step)%n + n) % n
	}
	m.refresh(false)
}

func (m *Model) copySelected() {
	if m.selected < 0 || m.selected >= len(m.listing) {
		return
	}
	name := m.listing[m.selected]
	m.sess.Copy(name)
	logging.UIDebug("copied %q", name)
	m.refresh(true)
}

func (m *Model) resize(width, height int) {
	if width < 10 {
		width = 10
	}
	m.width = width
	m.height = height

	vpHeight := height - headerHeight - inputHeight - statusHeight - dividerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width-2, vpHeight)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width = width - 2
		m.viewport.Height = vpHeight
	}
	m.textinput.Width = max(width-len(m.textinput.Prompt)-2, 1)

	if m.renderer != nil {
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-6),
		)
	}
	m.refresh(true)
}

// refresh re-renders the transcript from the session state.
func (m *Model) refresh(toBottom bool) {
	st := m.sess.State()

	if at, names := latestListing(st.Transcript); at != m.listingAt || !slices.Equal(names, m.listing) {
		m.listingAt = at
		m.listing = names
		m.selected = -1
	}
	m.textinput.Prompt = prompt(m.sess, st)

	m.viewport.SetContent(m.renderTranscript(st))
	if toBottom {
		m.viewport.GotoBottom()
	}
}

// latestListing finds the last directory listing in entries and returns the
// index of its header and the names it lists.
func latestListing(entries []session.Entry) (int, []string) {
	at := -1
	for i := len(entries) - 1; i >= 0; i-- {
		if r := entries[i].Row; r != nil && r.Header {
			at = i
			break
		}
	}
	if at < 0 {
		return -1, nil
	}
	var names []string
	for _, e := range entries[at+1:] {
		if e.Row == nil || e.Row.Header {
			break
		}
		names = append(names, e.Row.Name)
	}
	return at, names
}
