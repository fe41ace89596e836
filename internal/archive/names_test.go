package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripExt(t *testing.T) {
	tests := map[string]string{
		"report.txt":      "report",
		"archive.tar.gz":  "archive.tar",
		"noext":           "noext",
		".hidden":         ".hidden",
		"coordinates.enc": "coordinates",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripExt(in), in)
	}
}

func TestResolveFileName(t *testing.T) {
	dir := NewDirectory("d")
	for _, name := range []string{"README.txt", "notes.md", "notes.txt", "data", "notes"} {
		require.NoError(t, dir.Add(NewText(name, "", "")))
	}

	tests := []struct {
		typed  string
		want   string
		wantOK bool
	}{
		{typed: "README.txt", want: "README.txt", wantOK: true},
		{typed: "readme.TXT", want: "README.txt", wantOK: true},
		{typed: "readme", want: "README.txt", wantOK: true},
		{typed: "DATA", want: "data", wantOK: true},
		// Full-name match beats an earlier extension-stripped match.
		{typed: "notes", want: "notes", wantOK: true},
		{typed: "notes.txt", want: "notes.txt", wantOK: true},
		{typed: "readme.md", wantOK: false},
		{typed: "read", wantOK: false},
		{typed: "txt", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ResolveFileName(dir, tt.typed)
		assert.Equal(t, tt.wantOK, ok, tt.typed)
		assert.Equal(t, tt.want, got, tt.typed)
	}
}

func TestResolveFileName_TieBreakIsInsertionOrder(t *testing.T) {
	dir := NewDirectory("d")
	require.NoError(t, dir.Add(NewText("notes.md", "", "")))
	require.NoError(t, dir.Add(NewText("notes.txt", "", "")))

	got, ok := ResolveFileName(dir, "NOTES")
	require.True(t, ok)
	assert.Equal(t, "notes.md", got)
}

// Whatever ResolveFileName returns must be a real key matching the typed name;
// when it returns nothing, no key may match.
func TestResolveFileName_Soundness(t *testing.T) {
	dir := NewDirectory("d")
	for _, name := range []string{"A.txt", "b", "c.tar.gz", "Delta.enc", ".rc"} {
		require.NoError(t, dir.Add(NewText(name, "", "")))
	}
	inputs := []string{"a", "A.TXT", "b", "B.txt", "c", "c.tar", "c.tar.gz", "delta", "DELTA.ENC", ".rc", "rc", "zzz", ""}
	for _, typed := range inputs {
		got, ok := ResolveFileName(dir, typed)
		if ok {
			_, exists := dir.Child(got)
			require.True(t, exists, typed)
			assert.True(t, strings.EqualFold(got, typed) || strings.EqualFold(StripExt(got), typed), typed)
			continue
		}
		for _, name := range dir.Names() {
			assert.False(t, strings.EqualFold(name, typed) || strings.EqualFold(StripExt(name), typed),
				"%q should have matched %q", typed, name)
		}
	}
}

func TestFindFilePath(t *testing.T) {
	root, _ := newFixture(t)

	tests := []struct {
		typed  string
		want   string
		wantOK bool
	}{
		{typed: "kitchen", want: "evidence/photos/kitchen.txt", wantOK: true},
		{typed: "KEY.ENC", want: "vault/key.enc", wantOK: true},
		{typed: "photos", want: "evidence/photos", wantOK: true},
		{typed: "readme", want: "README.txt", wantOK: true},
		{typed: "missing", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := FindFilePath(root, tt.typed)
		assert.Equal(t, tt.wantOK, ok, tt.typed)
		assert.Equal(t, tt.want, got, tt.typed)
	}
}

func TestFindFilePath_FirstInPreOrder(t *testing.T) {
	root := NewDirectory("")
	a := NewDirectory("a")
	require.NoError(t, a.Add(NewText("dup.txt", "", "")))
	require.NoError(t, root.Add(a))
	require.NoError(t, root.Add(NewText("dup.md", "", "")))

	got, ok := FindFilePath(root, "dup")
	require.True(t, ok)
	assert.Equal(t, "a/dup.txt", got)
}
