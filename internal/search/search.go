// Package search implements keyword search over the case archive.
package search

import (
	"fmt"
	"strings"

	"coldcase/internal/archive"
)

// Kind says what part of a record matched.
type Kind int

const (
	FilenameMatch Kind = iota
	ContentMatch
)

// Label is the tag shown in front of a result.
func (k Kind) Label() string {
	if k == FilenameMatch {
		return "[FILE MATCH]"
	}
	return "[CONTENT MATCH]"
}

// Match is one search hit.
type Match struct {
	Kind Kind
	Path string // slash-joined, no leading slash
}

func (m Match) String() string {
	return fmt.Sprintf("%s %s", m.Kind.Label(), m.Path)
}

// Run searches every node below root, pre-order, for query (case-insensitive).
//
// For each node the name is checked first, then the readable body. The secret
// of an encrypted record only counts once it is unlocked. A node can therefore
// appear twice: once for its name and once for its content.
func Run(root *archive.Directory, query string) []Match {
	q := strings.ToLower(query)
	if q == "" {
		return nil
	}

	var out []Match
	archive.Walk(root, func(path string, n archive.Node) bool {
		if strings.Contains(strings.ToLower(archive.NameOf(n)), q) {
			out = append(out, Match{Kind: FilenameMatch, Path: path})
		}
		switch node := n.(type) {
		case *archive.Text:
			if strings.Contains(strings.ToLower(node.Body), q) {
				out = append(out, Match{Kind: ContentMatch, Path: path})
			}
		case *archive.Encrypted:
			if body, ok := node.Secret(); ok && strings.Contains(strings.ToLower(body), q) {
				out = append(out, Match{Kind: ContentMatch, Path: path})
			}
		}
		return true
	})
	return out
}
