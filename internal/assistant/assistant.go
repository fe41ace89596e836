// Package assistant talks to the hosted language model that answers the
// detective's questions about the archive.
package assistant

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("assistant returned an empty response")

// Request is one question plus the instruction envelope built for it.
type Request struct {
	Question          string
	SystemInstruction string
}

// Assistant answers a single question. Implementations do not retry.
type Assistant interface {
	Ask(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to Assistant.
type Func func(ctx context.Context, req Request) (string, error)

// Ask calls f.
func (f Func) Ask(ctx context.Context, req Request) (string, error) { return f(ctx, req) }
