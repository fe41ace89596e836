// Package briefing turns the archive into the knowledge document handed to the
// analysis assistant, and wraps it in the assistant's standing instructions.
//
// The document is rebuilt for every question so that it always mirrors the
// current lock state: sealed records appear only as a locked marker.
package briefing

import (
	"fmt"
	"strings"

	"coldcase/internal/archive"
)

// LockedMarker replaces the body of a sealed record. The assistant needs to see
// it to know the record exists and that it must not guess at its content.
const LockedMarker = "[STATUS: ENCRYPTED/LOCKED]\n(NOTE: you cannot read this file until the user decrypts it.)"

// UnlockedMarker heads the body of an opened record.
const UnlockedMarker = "[STATUS: DECRYPTED]"

// TruncatedMarker ends a document that hit its size limit.
const TruncatedMarker = "\n[... archive context truncated ...]\n"

// Build serializes every readable record below root in pre-order.
func Build(root *archive.Directory) string {
	return BuildBounded(root, 0)
}

// BuildBounded is Build with an upper bound on the document size in bytes.
// Encrypted records always get their section, locked marker or secret, so the
// bound only ever drops text records. Their budget is what the encrypted
// sections leave; a text section that does not fit whole is left out and
// later, smaller ones may still be included. A document that lost anything
// ends with TruncatedMarker. limit <= 0 means unbounded.
func BuildBounded(root *archive.Directory, limit int) string {
	type part struct {
		text   string
		sealed bool
	}
	var parts []part
	reserved := 0
	archive.Walk(root, func(path string, n archive.Node) bool {
		sec, ok := section(path, n)
		if !ok {
			return true
		}
		_, sealed := n.(*archive.Encrypted)
		if sealed {
			reserved += len(sec)
		}
		parts = append(parts, part{text: sec, sealed: sealed})
		return true
	})

	budget := limit - reserved
	used, dropped := 0, false
	var sb strings.Builder
	for _, p := range parts {
		if limit > 0 && !p.sealed {
			if used+len(p.text) > budget {
				dropped = true
				continue
			}
			used += len(p.text)
		}
		sb.WriteString(p.text)
	}
	if dropped {
		sb.WriteString(TruncatedMarker)
	}
	return sb.String()
}

func section(path string, n archive.Node) (string, bool) {
	switch node := n.(type) {
	case *archive.Text:
		return fmt.Sprintf("\n=== FILE: %s ===\n%s\n", path, node.Body), true
	case *archive.Encrypted:
		if body, ok := node.Secret(); ok {
			return fmt.Sprintf("\n=== FILE: %s ===\n%s\n%s\n", path, UnlockedMarker, body), true
		}
		return fmt.Sprintf("\n=== FILE: %s ===\n%s\n", path, LockedMarker), true
	default:
		// Directories have no section of their own.
		return "", false
	}
}
