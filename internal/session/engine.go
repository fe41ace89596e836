// Package session is the command interpreter of a case archive.
//
// The Engine is a reducer: Execute takes a State and one input line and
// returns the next State plus the entries that line produced. Commands that
// take time (decrypt, ask) come back with a pending Task; the caller runs it
// wherever it likes and hands the Outcome to Settle. Session wraps the Engine
// with the one-command-at-a-time rule.
package session

import (
	"fmt"
	"strings"
	"time"

	"coldcase/internal/archive"
	"coldcase/internal/assistant"
	"coldcase/internal/logging"

	"github.com/google/uuid"
)

// DefaultDecryptDelay is how long a successful decrypt keeps the session busy.
const DefaultDecryptDelay = 800 * time.Millisecond

// Clipboard receives names the user copies out of a listing.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

// Options configures an Engine. In the zero value decrypt settles without a
// delay, there is no assistant or clipboard, and the assistant context is
// unbounded.
type Options struct {
	DecryptDelay time.Duration
	ContextLimit int
	Assistant    assistant.Assistant
	Clipboard    Clipboard
	Sleep        SleepFunc
}

// Engine interprets commands against one archive. The archive tree is only
// ever written by Settle, so an Engine must not be shared by concurrent
// callers; Session takes care of that.
type Engine struct {
	arc  *archive.Archive
	opts Options
}

// NewEngine creates an Engine over arc.
func NewEngine(arc *archive.Archive, opts Options) *Engine {
	if opts.DecryptDelay < 0 {
		opts.DecryptDelay = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	return &Engine{arc: arc, opts: opts}
}

// Archive returns the archive the engine works on.
func (e *Engine) Archive() *archive.Archive { return e.arc }

// NewState starts a session at the root with the case's opening banner.
func (e *Engine) NewState() State {
	st := State{ID: uuid.NewString()}
	for _, line := range e.arc.Case.Opening {
		st.Transcript = append(st.Transcript, Entry{Kind: ParseKind(line.Kind), Content: line.Text})
	}
	logging.Session("session %s opened on case %s", st.ID, e.arc.Case.ID)
	return st
}

// turn collects the effects of one step before they are applied.
type turn struct {
	st      State
	dir     *archive.Directory
	entries []Entry
	cleared bool
	pending *Task
}

func (t *turn) add(kind Kind, content string) {
	t.entries = append(t.entries, Entry{Kind: kind, Content: content})
}

func (t *turn) addf(kind Kind, format string, args ...interface{}) {
	t.add(kind, fmt.Sprintf(format, args...))
}

func (t *turn) fail(err *CommandError) {
	t.add(KindError, err.Message)
	if err.Hint != "" {
		t.add(KindSystem, err.Hint)
	}
}

func (t *turn) finish() (State, Delta) {
	if t.cleared {
		t.st.Transcript = nil
	}
	t.st.Transcript = append(t.st.Transcript, t.entries...)
	return t.st, Delta{Entries: t.entries, Cleared: t.cleared, Pending: t.pending}
}

// Execute runs one input line. The line is echoed first, whatever it holds.
// Every failure becomes exactly one error entry (plus an optional hint); none
// is returned to the caller. The caller must not Execute while st.Busy.
func (e *Engine) Execute(st State, line string) (State, Delta) {
	line = strings.TrimSpace(line)
	t := &turn{st: st.fork()}
	t.add(KindCommand, "> "+line)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return t.finish()
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	dir, err := archive.ResolveDir(e.arc.Root, t.st.Path)
	if err != nil {
		logging.Get(logging.CategorySession).Error("session %s: current path lost: %v", st.ID, err)
		t.fail(fail(ErrNotFound, "System error: current path lost."))
		return t.finish()
	}
	t.dir = dir

	logging.SessionDebug("session %s at %q: %s", st.ID, t.st.Location(), line)
	if cerr := e.dispatch(t, verb, args); cerr != nil {
		logging.SessionDebug("session %s: %s failed: %v", st.ID, verb, cerr)
		t.fail(cerr)
	}
	return t.finish()
}

func (e *Engine) dispatch(t *turn, verb string, args []string) *CommandError {
	switch verb {
	case "help":
		return e.help(t, args)
	case "ls", "dir", "ll":
		return e.list(t)
	case "cd":
		return e.changeDir(t, args)
	case "open", "cat", "read", "view":
		return e.open(t, args)
	case "decrypt", "unlock":
		return e.decrypt(t, args)
	case "search", "find", "grep":
		return e.search(t, args)
	case "ask", "ai":
		return e.ask(t, args)
	case "clear":
		t.entries = nil
		t.cleared = true
		return nil
	default:
		cerr := fail(ErrUnknownCommand, "Invalid command: %s", verb)
		if s, ok := suggestVerb(verb); ok {
			cerr.withHint("Did you mean '%s'? Type 'help' for the command list.", s)
		}
		return cerr
	}
}

// Settle applies the outcome of the task st is waiting on. The busy flag is
// cleared before anything else, so a failed task never leaves the session
// blocked.
func (e *Engine) Settle(st State, out Outcome) (State, Delta) {
	t := &turn{st: st.fork()}
	t.st.Busy = false
	if out.Task == nil {
		return t.finish()
	}

	switch out.Task.Kind {
	case TaskDecrypt:
		e.settleDecrypt(t, out)
	case TaskAsk:
		e.settleAsk(t, out)
	}
	return t.finish()
}

func (e *Engine) settleDecrypt(t *turn, out Outcome) {
	task := out.Task
	if out.Err != nil {
		logging.Get(logging.CategorySession).Warn("session %s: decrypt of %s interrupted: %v", t.st.ID, task.name, out.Err)
		t.fail(fail(ErrCollaborator, "Decryption of %s was interrupted.", task.name))
		return
	}
	if err := task.target.Unlock(task.password); err != nil {
		t.fail(fail(ErrAuthFailure, "Access denied: wrong password."))
		return
	}
	logging.Archive("session %s unlocked %s", t.st.ID, task.name)
	t.add(KindSuccess, "Access granted.")
	t.addf(KindSuccess, "File %s unlocked. Use 'open' to view it.", task.name)
}

func (e *Engine) settleAsk(t *turn, out Outcome) {
	if out.Err != nil {
		logging.APIError("session %s: assistant call failed: %v", t.st.ID, out.Err)
		t.fail(fail(ErrCollaborator, "Connection to the analysis server failed. Please try again later."))
		return
	}
	t.add(KindAssistant, "[AI ANALYSIS]:\n"+strings.TrimSpace(out.Text))
}

// Copy sends name to the clipboard collaborator and reports the result as a
// single transcript entry. It is not a command: nothing is echoed.
func (e *Engine) Copy(st State, name string) (State, Delta) {
	t := &turn{st: st.fork()}
	if e.opts.Clipboard == nil {
		t.fail(fail(ErrCollaborator, "Clipboard unavailable."))
		return t.finish()
	}
	if err := e.opts.Clipboard.WriteAll(name); err != nil {
		logging.Get(logging.CategoryUI).Warn("clipboard write failed: %v", err)
		t.fail(fail(ErrCollaborator, "Clipboard write failed: %v", err))
		return t.finish()
	}
	t.addf(KindSuccess, "System: copied %q to clipboard.", name)
	return t.finish()
}
