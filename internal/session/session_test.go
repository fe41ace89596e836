package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_BlankLinesAreIgnored(t *testing.T) {
	s := New(newFixtureEngine(t))
	before := s.State().Transcript

	for _, line := range []string{"", "   ", "\t"} {
		d, err := s.Submit(line)
		require.NoError(t, err)
		assert.Empty(t, d.Entries)
	}
	assert.Equal(t, before, s.State().Transcript)
}

func TestSession_RejectsSubmissionsWhileBusy(t *testing.T) {
	s := New(newFixtureEngine(t))
	_, err := s.Run(context.Background(), "cd vault")
	require.NoError(t, err)

	d, err := s.Submit("decrypt key 1234")
	require.NoError(t, err)
	require.NotNil(t, d.Pending)
	assert.True(t, s.State().Busy)
	transcript := s.State().Transcript

	_, err = s.Submit("ls")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.Run(context.Background(), "open key")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, transcript, s.State().Transcript, "rejected lines leave no trace")

	settled, err := s.Complete(d.Pending.Run(context.Background()))
	require.NoError(t, err)
	assert.Len(t, settled.Entries, 2)
	assert.False(t, s.State().Busy)

	d, err = s.Submit("open key")
	require.NoError(t, err)
	assert.Equal(t, "success: Opening encrypted file: key.enc...", lines(d.Entries)[1])
	assert.True(t, s.State().Solved)
}

func TestSession_ConcurrentSubmitsWhileBusy(t *testing.T) {
	ai := &mockAssistant{reply: "ok"}
	s := New(newFixtureEngine(t, withAssistant(ai)))

	d, err := s.Submit("ask anything")
	require.NoError(t, err)
	require.NotNil(t, d.Pending)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Submit("ls")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrBusy)
	}

	done := make(chan Outcome)
	go func() { done <- d.Pending.Run(context.Background()) }()
	_, err = s.Complete(<-done)
	require.NoError(t, err)
	assert.Equal(t, 1, len(ai.requests))
}

func TestSession_CompleteRejectsForeignOutcome(t *testing.T) {
	s := New(newFixtureEngine(t))

	_, err := s.Complete(Outcome{})
	assert.ErrorIs(t, err, ErrNoPending)

	_, err = s.Run(context.Background(), "cd vault")
	require.NoError(t, err)
	d, err := s.Submit("decrypt key 1234")
	require.NoError(t, err)

	other := &Task{Kind: TaskDecrypt}
	_, err = s.Complete(Outcome{Task: other})
	assert.ErrorIs(t, err, ErrNoPending)
	assert.True(t, s.State().Busy)

	_, err = s.Complete(d.Pending.Run(context.Background()))
	require.NoError(t, err)
	_, err = s.Complete(d.Pending.Run(context.Background()))
	assert.ErrorIs(t, err, ErrNoPending, "an outcome is applied once")
}

func TestSession_AssistantFailureReleases(t *testing.T) {
	ai := &mockAssistant{err: errors.New("503")}
	s := New(newFixtureEngine(t, withAssistant(ai)))

	d, err := s.Run(context.Background(), "ask where is she")
	require.NoError(t, err)
	assert.Equal(t, 1, countKind(d.Entries, KindError))
	assert.False(t, s.State().Busy)

	_, err = s.Submit("ls")
	assert.NoError(t, err)
}

func TestSession_RunMergesBothSteps(t *testing.T) {
	s := New(newFixtureEngine(t))
	_, err := s.Run(context.Background(), "cd vault")
	require.NoError(t, err)

	d, err := s.Run(context.Background(), "decrypt key 1234")
	require.NoError(t, err)
	assert.Nil(t, d.Pending)
	assert.Equal(t, []string{
		"command: > decrypt key 1234",
		"system: Decrypting...",
		"success: Access granted.",
		"success: File key.enc unlocked. Use 'open' to view it.",
	}, lines(d.Entries))
}

func TestSession_CopyWhileBusy(t *testing.T) {
	ai := &mockAssistant{reply: "ok"}
	var copied string
	s := New(newFixtureEngine(t, withAssistant(ai), withClipboard(ClipboardFunc(func(v string) error {
		copied = v
		return nil
	}))))

	d, err := s.Submit("ask anything")
	require.NoError(t, err)

	c := s.Copy("notes.md")
	assert.Equal(t, []string{`success: System: copied "notes.md" to clipboard.`}, lines(c.Entries))
	assert.Equal(t, "notes.md", copied)
	assert.True(t, s.State().Busy, "copying does not settle the pending task")

	_, err = s.Complete(d.Pending.Run(context.Background()))
	require.NoError(t, err)
}

func TestSession_StateIsASnapshot(t *testing.T) {
	s := New(newFixtureEngine(t))
	snap := s.State()
	snap.Transcript[0].Content = "tampered"
	snap.Path = append(snap.Path, "vault")

	assert.NotEqual(t, "tampered", s.State().Transcript[0].Content)
	assert.Empty(t, s.State().Path)
}
