package session

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The rainy night walkthrough, played through the Session boundary the way the
// terminal and the script command drive it.
func TestScenario_RainyNight(t *testing.T) {
	sleeps := &sleepRecorder{}
	s := New(newTestEngine(t, withSleep(sleeps)))
	ctx := context.Background()
	win := s.Engine().Archive().WinNode()

	run := func(line string) Delta {
		t.Helper()
		d, err := s.Run(ctx, line)
		require.NoError(t, err)
		return d
	}

	// Locked: preview plus an error, not solved.
	run("cd encrypted")
	assert.Equal(t, "/encrypted", s.State().Location())
	d := run("open coordinates")
	assert.Equal(t, 1, countKind(d.Entries, KindError))
	assert.Contains(t, lines(d.Entries), "error: Access denied: file is encrypted.")
	assert.Contains(t, d.Entries[2].Content, "[STATUS: LOCKED]")
	assert.False(t, s.State().Solved)

	// Wrong password: one error, still locked, no delay.
	d = run("decrypt coordinates 000000")
	assert.Equal(t, []string{"command: > decrypt coordinates 000000", "error: Access denied: wrong password."}, lines(d.Entries))
	assert.True(t, win.Locked())
	assert.Empty(t, sleeps.Calls())

	// Right password: unlocked after the delay.
	d = run("decrypt coordinates 071495")
	want := []string{
		"command: > decrypt coordinates 071495",
		"system: Decrypting...",
		"success: Access granted.",
		"success: File coordinates.enc unlocked. Use 'open' to view it.",
	}
	if diff := cmp.Diff(want, lines(d.Entries)); diff != "" {
		t.Errorf("decrypt mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, win.Locked())
	assert.Len(t, sleeps.Calls(), 1)

	// Reading the secret solves the case.
	d = run("open coordinates")
	assert.Equal(t, "success: Opening encrypted file: coordinates.enc...", lines(d.Entries)[1])
	assert.Contains(t, d.Entries[2].Content, "Sector 7G, Tunnel 4.")
	assert.True(t, s.State().Solved)

	// Solved survives clear and everything after it.
	d = run("clear")
	assert.True(t, d.Cleared)
	assert.Empty(t, s.State().Transcript)
	for _, line := range []string{"cd /", "decrypt coordinates 000000", "cd ..", "open ghost", "bogus"} {
		run(line)
		assert.True(t, s.State().Solved, "after %q", line)
	}
	assert.False(t, win.Locked())
}

func TestScenario_SearchMayaFromRoot(t *testing.T) {
	s := New(newTestEngine(t))
	d, err := s.Run(context.Background(), "search Maya")
	require.NoError(t, err)

	want := []string{
		"command: > search Maya",
		`system: Searching database: "Maya"...`,
		"success: [CONTENT MATCH] evidence/witness_stmt.txt",
		"success: [CONTENT MATCH] evidence/photo_log.txt",
		"success: [CONTENT MATCH] notes/miller_diary.txt",
	}
	if diff := cmp.Diff(want, lines(d.Entries)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

// Whatever is typed, a record never locks again once opened, and a solved
// session never becomes unsolved.
func TestProperty_Monotonicity(t *testing.T) {
	ai := &mockAssistant{reply: "ok"}
	s := New(newTestEngine(t, withAssistant(ai)))
	ctx := context.Background()
	win := s.Engine().Archive().WinNode()

	script := `
cd encrypted
decrypt coordinates 071495
open coordinates
clear
decrypt coordinates 123456
unlock coordinates.enc 071495
cd /
search Tunnel
ask is it over
help decrypt
ls
cd encrypted
open coordinates.enc
clear
`
	for _, line := range strings.Split(script, "\n") {
		_, err := s.Run(ctx, line)
		require.NoError(t, err)
		if s.State().Solved {
			assert.False(t, win.Locked(), "solved implies unlocked, after %q", line)
		}
	}
	assert.True(t, s.State().Solved)
	assert.False(t, win.Locked())
}

// Secrets reach neither search nor the assistant while their record is locked.
func TestProperty_LockedSecretsStayHidden(t *testing.T) {
	ai := &mockAssistant{reply: "ok"}
	e := newTestEngine(t, withAssistant(ai))
	st := e.NewState()

	secretWords := []string{"Sector 7G", "Tunnel", "8821", "DECRYPTION SUCCESSFUL", "sleeping"}
	for _, w := range secretWords {
		var d Delta
		st, d = step(t, e, st, "search "+w)
		for _, entry := range d.Entries {
			assert.NotContains(t, entry.Content, "coordinates.enc", "locked secret matched %q", w)
		}
	}

	st = steps(t, e, st, "ask what is in the coordinates file")
	for _, w := range []string{"Sector 7G", "Door code: 8821"} {
		assert.NotContains(t, ai.Last().SystemInstruction, w)
	}

	st = steps(t, e, st, "cd encrypted", "decrypt coordinates 071495", "ask now")
	assert.Contains(t, ai.Last().SystemInstruction, "Door code: 8821")
	_, d := step(t, e, st, "search 8821")
	assert.Contains(t, lines(d.Entries), "success: [CONTENT MATCH] encrypted/coordinates.enc")
}
