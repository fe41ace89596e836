package session

import (
	"slices"
	"strings"
)

// Kind classifies a transcript entry for the renderer.
type Kind string

const (
	KindInfo      Kind = "info"
	KindError     Kind = "error"
	KindSuccess   Kind = "success"
	KindCommand   Kind = "command"
	KindSystem    Kind = "system"
	KindAssistant Kind = "assistant"
)

// ParseKind maps a case-file banner kind to a Kind. Unknown kinds are info.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(s)); k {
	case KindError, KindSuccess, KindCommand, KindSystem, KindAssistant:
		return k
	default:
		return KindInfo
	}
}

// Row is the structured form of one directory listing line. Rows that are not
// headers name a child the renderer may offer for copying.
type Row struct {
	Header bool
	Date   string
	Tag    string
	Name   string
}

// Entry is one line (or block) of transcript output.
type Entry struct {
	Kind    Kind
	Content string
	Row     *Row // set on listing lines only
}

// State is everything the interpreter knows about a running session besides
// the archive itself.
type State struct {
	ID         string
	Path       []string // directory names from the root; empty at the root
	Transcript []Entry
	Solved     bool // never goes back to false
	Busy       bool // true while a Task is outstanding
}

// Location renders Path the way the prompt shows it: "" at the root,
// "/a/b" below it.
func (s State) Location() string {
	if len(s.Path) == 0 {
		return ""
	}
	return "/" + strings.Join(s.Path, "/")
}

// fork returns a copy whose slices can be appended to without touching s.
func (s State) fork() State {
	s.Path = slices.Clip(s.Path)
	s.Transcript = slices.Clip(s.Transcript)
	return s
}

// Delta is what one step adds to the transcript.
type Delta struct {
	Entries []Entry
	Cleared bool  // the transcript was emptied before Entries were appended
	Pending *Task // non-nil when the command still has work in flight
}

func (d Delta) merge(next Delta) Delta {
	if next.Cleared {
		d.Entries = nil
		d.Cleared = true
	}
	d.Entries = append(d.Entries, next.Entries...)
	d.Pending = next.Pending
	return d
}
