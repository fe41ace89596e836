package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"coldcase/internal/logging"

	"golang.org/x/sync/semaphore"
)

// Session owns the State of one player and enforces that commands run one at
// a time. A command that leaves a Task pending holds the session until its
// Outcome is handed to Complete.
type Session struct {
	engine *Engine
	gate   *semaphore.Weighted

	mu      sync.Mutex
	state   State
	pending *Task
}

// New opens a session over engine.
func New(engine *Engine) *Session {
	return &Session{
		engine: engine,
		gate:   semaphore.NewWeighted(1),
		state:  engine.NewState(),
	}
}

// Engine returns the engine behind the session.
func (s *Session) Engine() *Engine { return s.engine }

// State returns a copy of the session state that the caller may modify.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Path = slices.Clone(st.Path)
	st.Transcript = slices.Clone(st.Transcript)
	return st
}

// Submit executes line. Blank lines are ignored. While a task is outstanding
// Submit returns ErrBusy and the line is dropped. When the returned Delta has a
// Pending task the caller runs it and passes its Outcome to Complete.
func (s *Session) Submit(line string) (Delta, error) {
	if strings.TrimSpace(line) == "" {
		return Delta{}, nil
	}
	if !s.gate.TryAcquire(1) {
		logging.SessionDebug("session busy, dropped %q", line)
		return Delta{}, ErrBusy
	}

	s.mu.Lock()
	next, delta := s.engine.Execute(s.state, line)
	s.state = next
	s.pending = delta.Pending
	s.mu.Unlock()

	if delta.Pending == nil {
		s.gate.Release(1)
	}
	return delta, nil
}

// Complete applies the outcome of the pending task and releases the session.
// Outcomes of any other task are rejected with ErrNoPending.
func (s *Session) Complete(out Outcome) (Delta, error) {
	s.mu.Lock()
	if s.pending == nil || out.Task != s.pending {
		s.mu.Unlock()
		return Delta{}, ErrNoPending
	}
	s.pending = nil
	s.state.Busy = false
	next, delta := s.engine.Settle(s.state, out)
	s.state = next
	s.mu.Unlock()

	s.gate.Release(1)
	return delta, nil
}

// Run submits line and, if it leaves a task pending, runs the task on the
// calling goroutine and completes it. The returned Delta covers both steps.
func (s *Session) Run(ctx context.Context, line string) (Delta, error) {
	delta, err := s.Submit(line)
	if err != nil || delta.Pending == nil {
		return delta, err
	}
	settled, err := s.Complete(delta.Pending.Run(ctx))
	if err != nil {
		return delta, err
	}
	return delta.merge(settled), nil
}

// Copy reports a clipboard copy of name in the transcript. Copying is allowed
// while a task is pending.
func (s *Session) Copy(name string) Delta {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, delta := s.engine.Copy(s.state, name)
	s.state = next
	return delta
}
