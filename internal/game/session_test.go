package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"go-match/internal/clock"
	"go-match/internal/deck"
	"go-match/internal/scoring"
	"go-match/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStorage implements scoring.ScoreStorage for testing
type MockStorage struct {
	Entries    []scoring.GameStats
	SaveCalled bool
}

func (m *MockStorage) LoadAll() ([]scoring.GameStats, error) {
	return m.Entries, nil
}

func (m *MockStorage) SaveAll(entries []scoring.GameStats) error {
	m.Entries = entries
	m.SaveCalled = true
	return nil
}

func newTestSession(t *testing.T, d deck.Difficulty) (*Session, *clock.Fake, *MockStorage) {
	t.Helper()
	clk := clock.NewFake(epoch)
	store := &MockStorage{}
	s, err := NewSession(SessionOptions{
		Difficulty: d,
		Clock:      clk,
		Rand:       rand.New(rand.NewPCG(3, 4)),
		Logger:     testLogger(),
		Storage:    store,
	})
	require.NoError(t, err)
	return s, clk, store
}

func playPair(t *testing.T, s *Session, clk *clock.Fake) {
	t.Helper()
	a, b := matchingPair(t, s.Game.Snapshot())
	require.True(t, s.Flip(a.ID))
	require.True(t, s.Flip(b.ID))
	clk.Advance(DefaultDelays.Match)
}

func TestSession_Init(t *testing.T) {
	s, _, _ := newTestSession(t, deck.Medium)

	assert.NotEmpty(t, s.ID)
	snap := s.Snapshot()
	assert.Len(t, snap.Game.Cards, 16)
	assert.False(t, snap.Timer.Running)
	assert.Zero(t, snap.Timer.Seconds)
	assert.Nil(t, snap.Best)
	assert.Nil(t, snap.Last)
	assert.Zero(t, snap.Attempts)
	assert.Empty(t, snap.TopScores)
}

func TestSession_TimerStartsOnFirstFlip(t *testing.T) {
	s, clk, _ := newTestSession(t, deck.Medium)

	clk.Advance(10 * time.Second)
	assert.False(t, s.Timer.Running(), "timer waits for the first flip")

	a, _ := mismatchedPair(t, s.Game.Snapshot())
	require.True(t, s.Flip(a.ID))
	assert.True(t, s.Timer.Running())

	snap := s.Timer.Snapshot()
	require.NotNil(t, snap.StartedAt)
	assert.Equal(t, epoch.Add(10*time.Second), *snap.StartedAt)

	clk.Advance(3 * time.Second)
	assert.Equal(t, 3, s.Timer.Seconds())
}

func TestSession_CompletionStopsTimerAndRecords(t *testing.T) {
	s, clk, store := newTestSession(t, deck.Easy)

	playPair(t, s, clk)
	playPair(t, s, clk)

	snap := s.Snapshot()
	require.True(t, snap.Game.Complete)
	assert.False(t, snap.Timer.Running)
	assert.Equal(t, 1, snap.Timer.Seconds)

	require.NotNil(t, snap.Last)
	assert.Equal(t, 2, snap.Last.Moves)
	assert.Equal(t, 1, snap.Last.Seconds)
	assert.Equal(t, 201, snap.Last.Score)
	assert.Equal(t, deck.Easy, snap.Last.Difficulty)
	assert.True(t, snap.NewBest)

	require.NotNil(t, snap.Best)
	assert.Equal(t, 201, snap.Best.Score)
	assert.True(t, store.SaveCalled)

	assert.Equal(t, 1, snap.Attempts)
	require.Len(t, snap.TopScores, 1)
	assert.Equal(t, 201, snap.TopScores[0].Score)

	clk.Advance(5 * time.Second)
	assert.Equal(t, 1, s.Timer.Seconds(), "timer stays frozen after completion")
}

func TestSession_RestartResetsBoardAndTimer(t *testing.T) {
	s, clk, _ := newTestSession(t, deck.Medium)

	a, b := matchingPair(t, s.Game.Snapshot())
	require.True(t, s.Flip(a.ID))
	clk.Advance(2 * time.Second)
	require.True(t, s.Flip(b.ID))

	require.NoError(t, s.Restart())
	snap := s.Snapshot()
	assert.Equal(t, deck.Medium, snap.Game.Difficulty)
	assert.Zero(t, snap.Game.Moves)
	assert.Equal(t, state.Ready, snap.Game.Phase)
	assert.False(t, snap.Timer.Running)
	assert.Zero(t, snap.Timer.Seconds)
	assert.Nil(t, snap.Timer.StartedAt)

	clk.Advance(5 * time.Second)
	snap = s.Snapshot()
	assert.Zero(t, snap.Game.MatchedPairs, "pending match from the old board must not apply")
	assert.Zero(t, snap.Timer.Seconds)
}

func TestSession_ChangeDifficulty(t *testing.T) {
	s, _, _ := newTestSession(t, deck.Medium)

	require.NoError(t, s.ChangeDifficulty(deck.Hard))
	snap := s.Snapshot()
	assert.Equal(t, deck.Hard, snap.Game.Difficulty)
	assert.Len(t, snap.Game.Cards, 36)

	assert.ErrorIs(t, s.ChangeDifficulty("legendary"), deck.ErrUnknownDifficulty)
	assert.Equal(t, deck.Hard, s.Snapshot().Game.Difficulty)
}

func TestSession_BestScoreAcrossGames(t *testing.T) {
	s, clk, _ := newTestSession(t, deck.Easy)

	playPair(t, s, clk)
	playPair(t, s, clk)
	first := s.Snapshot().Last
	require.NotNil(t, first)

	require.NoError(t, s.Restart())

	// A wasted move makes the second game worse.
	a, b := mismatchedPair(t, s.Game.Snapshot())
	require.True(t, s.Flip(a.ID))
	require.True(t, s.Flip(b.ID))
	clk.Advance(DefaultDelays.Mismatch)
	playPair(t, s, clk)
	playPair(t, s, clk)

	snap := s.Snapshot()
	require.NotNil(t, snap.Last)
	assert.Equal(t, 3, snap.Last.Moves)
	assert.False(t, snap.NewBest)
	assert.Equal(t, first.Score, snap.Best.Score)
	assert.Equal(t, 2, s.Scoring.GetAttempts(deck.Easy))

	assert.Equal(t, 2, snap.Attempts)
	require.Len(t, snap.TopScores, 2)
	assert.Equal(t, first.Score, snap.TopScores[0].Score, "lowest score first")
	assert.Equal(t, 3, snap.TopScores[1].Moves)

	require.NoError(t, s.ChangeDifficulty(deck.Medium))
	snap = s.Snapshot()
	assert.Zero(t, snap.Attempts, "history is per difficulty")
	assert.Empty(t, snap.TopScores)
}

func TestSession_OnChange(t *testing.T) {
	s, clk, _ := newTestSession(t, deck.Easy)

	var snaps []Snapshot
	s.OnChange(func(snap Snapshot) { snaps = append(snaps, snap) })

	a, _ := mismatchedPair(t, s.Game.Snapshot())
	require.True(t, s.Flip(a.ID))
	clk.Advance(time.Second)

	require.NotEmpty(t, snaps)
	last := snaps[len(snaps)-1]
	assert.Equal(t, 1, last.Timer.Seconds)
	assert.Equal(t, state.OneFlipped, last.Game.Phase)
}
