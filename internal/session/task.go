package session

import (
	"context"
	"time"

	"coldcase/internal/archive"
	"coldcase/internal/assistant"
)

// TaskKind names the two operations that suspend the interpreter.
type TaskKind int

const (
	TaskDecrypt TaskKind = iota
	TaskAsk
)

func (k TaskKind) String() string {
	if k == TaskDecrypt {
		return "decrypt"
	}
	return "ask"
}

// Task is the long-running half of a command. Run may be called on any
// goroutine: it touches neither the archive nor the session state. Its Outcome
// is applied afterwards with Engine.Settle (or Session.Complete).
type Task struct {
	Kind TaskKind
	run  func(ctx context.Context) (string, error)

	// decrypt
	target   *archive.Encrypted
	name     string
	password string
}

// Outcome is the result of running a Task.
type Outcome struct {
	Task *Task
	Text string
	Err  error
}

// Run performs the task and reports its outcome. It always returns; errors
// are carried in the Outcome.
func (t *Task) Run(ctx context.Context) Outcome {
	text, err := t.run(ctx)
	return Outcome{Task: t, Text: text, Err: err}
}

func newDecryptTask(target *archive.Encrypted, name, password string, delay time.Duration, sleep SleepFunc) *Task {
	return &Task{
		Kind:     TaskDecrypt,
		target:   target,
		name:     name,
		password: password,
		run: func(ctx context.Context) (string, error) {
			return "", sleep(ctx, delay)
		},
	}
}

func newAskTask(a assistant.Assistant, req assistant.Request) *Task {
	return &Task{
		Kind: TaskAsk,
		run: func(ctx context.Context) (string, error) {
			return a.Ask(ctx, req)
		},
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
