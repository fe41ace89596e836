package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin_DefaultCase(t *testing.T) {
	a, err := LoadBuiltin(DefaultCase)
	require.NoError(t, err)

	assert.Equal(t, "99-042", a.Case.ID)
	assert.Equal(t, "LAPD", a.Case.Host)
	assert.NotEmpty(t, a.Case.Opening)
	assert.NotEmpty(t, a.Case.Solved)
	assert.Equal(t, []string{"README.txt", "evidence", "interviews", "encrypted", "notes"}, a.Root.Names())

	win := a.WinNode()
	require.NotNil(t, win)
	assert.Equal(t, "coordinates.enc", win.Name)
	assert.True(t, win.Locked())
	assert.True(t, win.Matches("071495"))
}

func TestLoadBuiltin_FreshTreeEachTime(t *testing.T) {
	a, err := LoadBuiltin(DefaultCase)
	require.NoError(t, err)
	require.NoError(t, a.WinNode().Unlock("071495"))

	b, err := LoadBuiltin(DefaultCase)
	require.NoError(t, err)
	assert.True(t, b.WinNode().Locked())
}

func TestLoadBuiltin_Unknown(t *testing.T) {
	_, err := LoadBuiltin("no_such_case")
	assert.Error(t, err)
}

const minimalCase = `
case:
  id: "T-1"
archive:
  - name: a.txt
    type: text
    body: hello
  - name: box
    type: dir
    children:
      - name: lock.enc
        type: encrypted
        password: pw
        secret: inside
        preview: sealed
        solves: true
`

func TestLoad_Minimal(t *testing.T) {
	a, err := Load(strings.NewReader(minimalCase))
	require.NoError(t, err)
	assert.Equal(t, "ARCHIVE", a.Case.Host)

	n, err := Resolve(a.Root, []string{"box", "lock.enc"})
	require.NoError(t, err)
	enc, ok := n.(*Encrypted)
	require.True(t, ok)
	assert.Equal(t, "sealed", enc.Preview)
	assert.True(t, enc.SolvesCase())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty",
			doc:  "",
			want: "empty",
		},
		{
			name: "missing id",
			doc:  "case: {}\narchive: []\n",
			want: "case.id",
		},
		{
			name: "no win node",
			doc: `case: {id: x}
archive:
  - {name: a.enc, type: encrypted, password: p, secret: s}
`,
			want: "no record",
		},
		{
			name: "two win nodes",
			doc: `case: {id: x}
archive:
  - {name: a.enc, type: encrypted, password: p, secret: s, solves: true}
  - {name: b.enc, type: encrypted, password: p, secret: s, solves: true}
`,
			want: "exactly one",
		},
		{
			name: "solves on text",
			doc: `case: {id: x}
archive:
  - {name: a.txt, type: text, solves: true}
`,
			want: "only encrypted",
		},
		{
			name: "duplicate sibling",
			doc: `case: {id: x}
archive:
  - {name: a.txt, type: text}
  - {name: A.TXT, type: text}
  - {name: w.enc, type: encrypted, password: p, secret: s, solves: true}
`,
			want: "duplicate",
		},
		{
			name: "unknown type",
			doc: `case: {id: x}
archive:
  - {name: a, type: link}
`,
			want: "unknown node type",
		},
		{
			name: "encrypted without password",
			doc: `case: {id: x}
archive:
  - {name: a.enc, type: encrypted, secret: s, solves: true}
`,
			want: "password",
		},
		{
			name: "children on a file",
			doc: `case: {id: x}
archive:
  - name: a.txt
    type: text
    children: [{name: b, type: text}]
  - {name: w.enc, type: encrypted, password: p, secret: s, solves: true}
`,
			want: "only directories",
		},
		{
			name: "name with a space",
			doc: `case: {id: x}
archive:
  - {name: "my notes.txt", type: text}
  - {name: w.enc, type: encrypted, password: p, secret: s, solves: true}
`,
			want: "whitespace",
		},
		{
			name: "parent directory name",
			doc: `case: {id: x}
archive:
  - {name: "..", type: dir}
  - {name: w.enc, type: encrypted, password: p, secret: s, solves: true}
`,
			want: "reserved",
		},
		{
			name: "unknown field",
			doc: `case: {id: x}
archive:
  - {name: a.txt, type: text, colour: red}
`,
			want: "colour",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpen(t *testing.T) {
	a, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, "99-042", a.Case.ID)

	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCase), 0644))

	b, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "T-1", b.Case.ID)

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
