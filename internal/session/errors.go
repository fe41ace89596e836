package session

import (
	"errors"
	"fmt"
)

// Error classes. Every failure inside a command is one of these and ends up as
// a single error entry in the transcript.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidTarget  = errors.New("invalid target")
	ErrAuthFailure    = errors.New("authentication failure")
	ErrPrecondition   = errors.New("precondition not met")
	ErrUnknownCommand = errors.New("unknown command")
	ErrCollaborator   = errors.New("collaborator failure")
)

// Boundary errors returned by Session, never written to the transcript.
var (
	// ErrBusy is returned when a command is submitted while a task is running.
	ErrBusy = errors.New("session is busy")
	// ErrNoPending is returned when an outcome does not belong to the running task.
	ErrNoPending = errors.New("no matching task is pending")
)

// CommandError is a failed command: the class, the line shown to the user and
// an optional hint shown as a separate system line.
type CommandError struct {
	Class   error
	Message string
	Hint    string
}

func (e *CommandError) Error() string { return e.Message }

func (e *CommandError) Unwrap() error { return e.Class }

func fail(class error, format string, args ...interface{}) *CommandError {
	return &CommandError{Class: class, Message: fmt.Sprintf(format, args...)}
}

func (e *CommandError) withHint(format string, args ...interface{}) *CommandError {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}
