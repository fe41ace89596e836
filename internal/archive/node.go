// Package archive holds the case archive: a tree of text records, directories
// and encrypted records, plus the lookups the interpreter runs against it.
//
// The shape of the tree is fixed once it is loaded. The only state that ever
// changes is the lock flag of an encrypted record, and it only ever goes from
// locked to unlocked.
package archive

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrNotFound is returned when a path or name does not resolve.
	ErrNotFound = errors.New("node not found")
	// ErrDuplicateName is returned when a sibling already uses a name (case-insensitive).
	ErrDuplicateName = errors.New("duplicate name")
	// ErrWrongPassword is returned by Unlock on a password mismatch.
	ErrWrongPassword = errors.New("wrong password")
)

// Meta carries the fields every node has.
type Meta struct {
	Name string
	Date string // optional, free-form (the cases use YYYY-MM-DD)
}

func (m *Meta) meta() *Meta { return m }

// Node is one entry of the archive. The set of implementations is closed:
// *Text, *Directory and *Encrypted.
type Node interface {
	meta() *Meta
}

// NameOf returns the stored name of n.
func NameOf(n Node) string { return n.meta().Name }

// DateOf returns the stored date of n, or "" when it has none.
func DateOf(n Node) string { return n.meta().Date }

// Text is a plain record, always readable.
type Text struct {
	Meta
	Body string
}

// NewText creates a text record.
func NewText(name, date, body string) *Text {
	return &Text{Meta: Meta{Name: name, Date: date}, Body: body}
}

// Directory is an internal node. Children keep their insertion order, which is
// the listing order.
type Directory struct {
	Meta
	children *orderedmap.OrderedMap[string, Node]
}

// NewDirectory creates an empty directory.
func NewDirectory(name string) *Directory {
	return &Directory{
		Meta:     Meta{Name: name},
		children: orderedmap.New[string, Node](),
	}
}

// Add appends child. Names must be unique among siblings, ignoring case.
func (d *Directory) Add(child Node) error {
	name := NameOf(child)
	if name == "" {
		return fmt.Errorf("empty node name in %q", d.Name)
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("node name %q contains '/'", name)
	}
	// Commands split on whitespace and treat ".." as the parent.
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("node name %q contains whitespace", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("node name %q is reserved", name)
	}
	for pair := d.children.Oldest(); pair != nil; pair = pair.Next() {
		if strings.EqualFold(pair.Key, name) {
			return fmt.Errorf("%w: %q already holds %q", ErrDuplicateName, d.Name, pair.Key)
		}
	}
	d.children.Set(name, child)
	return nil
}

// Child returns the child stored under exactly name.
func (d *Directory) Child(name string) (Node, bool) {
	return d.children.Get(name)
}

// Lookup finds the child whose stored name equals name ignoring case and
// returns it with its stored name.
func (d *Directory) Lookup(name string) (string, Node, bool) {
	for pair := d.children.Oldest(); pair != nil; pair = pair.Next() {
		if strings.EqualFold(pair.Key, name) {
			return pair.Key, pair.Value, true
		}
	}
	return "", nil, false
}

// Len returns the number of children.
func (d *Directory) Len() int { return d.children.Len() }

// Children returns the children in listing order.
func (d *Directory) Children() []Node {
	out := make([]Node, 0, d.children.Len())
	for pair := d.children.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Names returns the stored child names in listing order.
func (d *Directory) Names() []string {
	out := make([]string, 0, d.children.Len())
	for pair := d.children.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Encrypted is a record with a public preview and a secret body that can only
// be read after a successful Unlock.
type Encrypted struct {
	Meta
	Preview string

	password string
	secret   string
	locked   bool
	solves   bool
}

// NewEncrypted creates a locked record. solves marks it as the record whose
// reading closes the case.
func NewEncrypted(name, date, preview, password, secret string, solves bool) *Encrypted {
	return &Encrypted{
		Meta:     Meta{Name: name, Date: date},
		Preview:  preview,
		password: password,
		secret:   secret,
		locked:   true,
		solves:   solves,
	}
}

// Locked reports whether the secret is still sealed.
func (e *Encrypted) Locked() bool { return e.locked }

// SolvesCase reports whether this is the win-condition record.
func (e *Encrypted) SolvesCase() bool { return e.solves }

// Secret returns the secret body. ok is false while the record is locked.
func (e *Encrypted) Secret() (body string, ok bool) {
	if e.locked {
		return "", false
	}
	return e.secret, true
}

// Matches compares password against the record's password without touching
// the lock.
func (e *Encrypted) Matches(password string) bool {
	return password == e.password
}

// Unlock opens the record when password matches. Unlocking an open record is a
// no-op. There is no way back to locked.
func (e *Encrypted) Unlock(password string) error {
	if !e.locked {
		return nil
	}
	if !e.Matches(password) {
		return ErrWrongPassword
	}
	e.locked = false
	return nil
}

// TypeTag is the short tag shown in listings.
func TypeTag(n Node) string {
	switch n.(type) {
	case *Directory:
		return "<DIR>"
	case *Encrypted:
		return "<ENC>"
	default:
		return "<TXT>"
	}
}

// Resolve walks path from root one segment at a time. Every segment must name
// an existing child of a directory; the empty path is root itself.
func Resolve(root *Directory, path []string) (Node, error) {
	var cur Node = root
	for i, seg := range path {
		dir, ok := cur.(*Directory)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, strings.Join(path[:i], "/"))
		}
		next, ok := dir.Child(seg)
		if !ok {
			return nil, fmt.Errorf("%w: /%s", ErrNotFound, strings.Join(path[:i+1], "/"))
		}
		cur = next
	}
	return cur, nil
}

// ResolveDir is Resolve restricted to directories.
func ResolveDir(root *Directory, path []string) (*Directory, error) {
	n, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	dir, ok := n.(*Directory)
	if !ok {
		return nil, fmt.Errorf("%w: /%s is not a directory", ErrNotFound, strings.Join(path, "/"))
	}
	return dir, nil
}

// Walk visits every node below root in pre-order, passing the slash-joined
// path (no leading slash). Returning false from fn stops the walk.
func Walk(root *Directory, fn func(path string, n Node) bool) {
	walk(root, "", fn)
}

func walk(dir *Directory, prefix string, fn func(string, Node) bool) bool {
	for _, child := range dir.Children() {
		p := JoinPath(prefix, NameOf(child))
		if !fn(p, child) {
			return false
		}
		if sub, ok := child.(*Directory); ok {
			if !walk(sub, p, fn) {
				return false
			}
		}
	}
	return true
}

// JoinPath joins a prefix and a name with '/', skipping an empty prefix.
func JoinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
