// Package terminal is the interactive front end: a bubbletea program that
// renders a session transcript as an old archive console and feeds typed lines
// back into the session.
package terminal

import (
	"context"
	"time"

	"coldcase/cmd/coldcase/ui"
	"coldcase/internal/logging"
	"coldcase/internal/session"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Clipboard returns the system clipboard as a session collaborator.
func Clipboard() session.Clipboard {
	return session.ClipboardFunc(func(text string) error {
		return clipboardWriteAll(text)
	})
}

// Model is the bubbletea model of the terminal.
type Model struct {
	// UI Components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Backend
	sess *session.Session
	ctx  context.Context

	// Latest directory listing, for tab selection and copying
	listing   []string
	listingAt int // transcript index of the listing header, -1 when none
	selected  int // index into listing, -1 when nothing is selected

	width  int
	height int
	ready  bool
	now    func() time.Time
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context tasks run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithStyles overrides the detected theme.
func WithStyles(s ui.Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates the terminal model for sess.
func New(sess *session.Session, opts ...Option) Model {
	styles := ui.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "type help"
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Line

	vp := viewport.New(80, 20)
	vp.KeyMap = scrollKeys()

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	m := Model{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  renderer,
		sess:      sess,
		ctx:       context.Background(),
		listingAt: -1,
		selected:  -1,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.applyStyles()
	m.refresh(true)
	return m
}

// scrollKeys limits the viewport to keys that never reach the input line.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

func (m *Model) applyStyles() {
	m.textinput.PromptStyle = m.styles.Prompt
	m.textinput.TextStyle = m.styles.UserInput
	m.textinput.PlaceholderStyle = m.styles.Muted
	m.spinner.Style = m.styles.Spinner
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Run starts the terminal on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, sess *session.Session, opts ...Option) error {
	opts = append([]Option{WithContext(ctx)}, opts...)
	p := tea.NewProgram(
		New(sess, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	logging.UI("terminal started for session %s", sess.State().ID)
	_, err := p.Run()
	return err
}
