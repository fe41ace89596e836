package archive

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cases/*.yaml
var builtinCases embed.FS

// DefaultCase is the case file shipped with the binary.
const DefaultCase = "rainy_night"

// BannerLine is one line printed when a session opens.
type BannerLine struct {
	Kind string `yaml:"kind"` // info, system, success, error
	Text string `yaml:"text"`
}

// CaseFile is the narrative metadata of a case.
type CaseFile struct {
	ID        string       `yaml:"id"`
	Title     string       `yaml:"title"`
	Agency    string       `yaml:"agency"`
	Host      string       `yaml:"host"`
	Year      string       `yaml:"year"`
	Detective string       `yaml:"detective"`
	Guest     string       `yaml:"guest"`
	Opening   []BannerLine `yaml:"opening"`
	Solved    []string     `yaml:"solved"`
}

// Archive is a loaded case: metadata plus a fresh tree.
type Archive struct {
	Case CaseFile
	Root *Directory
}

// WinNode returns the record that solves the case.
func (a *Archive) WinNode() *Encrypted {
	var win *Encrypted
	Walk(a.Root, func(_ string, n Node) bool {
		if e, ok := n.(*Encrypted); ok && e.SolvesCase() {
			win = e
			return false
		}
		return true
	})
	return win
}

type document struct {
	Case    CaseFile  `yaml:"case"`
	Archive []nodeDoc `yaml:"archive"`
}

type nodeDoc struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"` // text, dir, encrypted
	Date     string    `yaml:"date"`
	Body     string    `yaml:"body"`
	Preview  string    `yaml:"preview"`
	Password string    `yaml:"password"`
	Secret   string    `yaml:"secret"`
	Solves   bool      `yaml:"solves"`
	Children []nodeDoc `yaml:"children"`
}

// Load parses a YAML case file and builds a new tree from it.
func Load(r io.Reader) (*Archive, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("case file is empty")
		}
		return nil, fmt.Errorf("failed to parse case file: %w", err)
	}

	if strings.TrimSpace(doc.Case.ID) == "" {
		return nil, fmt.Errorf("case.id is required")
	}
	if doc.Case.Host == "" {
		doc.Case.Host = "ARCHIVE"
	}

	root := NewDirectory("")
	wins := 0
	if err := build(root, "", doc.Archive, &wins); err != nil {
		return nil, err
	}
	switch {
	case wins == 0:
		return nil, fmt.Errorf("case has no record marked solves: true")
	case wins > 1:
		return nil, fmt.Errorf("case has %d records marked solves: true, want exactly one", wins)
	}

	return &Archive{Case: doc.Case, Root: root}, nil
}

func build(dir *Directory, prefix string, docs []nodeDoc, wins *int) error {
	for _, d := range docs {
		where := JoinPath(prefix, d.Name)
		if d.Solves && d.Type != "encrypted" {
			return fmt.Errorf("%s: only encrypted records can solve the case", where)
		}

		var n Node
		switch d.Type {
		case "text":
			n = NewText(d.Name, d.Date, d.Body)
		case "dir":
			sub := NewDirectory(d.Name)
			if err := build(sub, where, d.Children, wins); err != nil {
				return err
			}
			n = sub
		case "encrypted":
			if d.Password == "" {
				return fmt.Errorf("%s: encrypted record needs a password", where)
			}
			if d.Secret == "" {
				return fmt.Errorf("%s: encrypted record needs a secret", where)
			}
			if d.Solves {
				*wins++
			}
			n = NewEncrypted(d.Name, d.Date, d.Preview, d.Password, d.Secret, d.Solves)
		default:
			return fmt.Errorf("%s: unknown node type %q", where, d.Type)
		}

		if d.Type != "dir" && len(d.Children) > 0 {
			return fmt.Errorf("%s: only directories can have children", where)
		}
		if err := dir.Add(n); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}
	return nil
}

// LoadFile loads a case from disk.
func LoadFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}
	a, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// LoadBuiltin loads one of the embedded cases by name.
func LoadBuiltin(name string) (*Archive, error) {
	data, err := builtinCases.ReadFile("cases/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in case %q", name)
	}
	return Load(bytes.NewReader(data))
}

// Open loads ref as a file path when it names an existing file and as a
// built-in case otherwise. An empty ref selects DefaultCase.
func Open(ref string) (*Archive, error) {
	if ref == "" {
		return LoadBuiltin(DefaultCase)
	}
	if _, err := os.Stat(ref); err == nil {
		return LoadFile(ref)
	}
	return LoadBuiltin(ref)
}
