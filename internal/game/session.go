package game

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"go-match/internal/clock"
	"go-match/internal/deck"
	"go-match/internal/scoring"
	"go-match/internal/state"
	"go-match/internal/timer"

	"github.com/google/uuid"
)

// topScoreCount is how many games Snapshot.TopScores lists.
const topScoreCount = 5

type SessionOptions struct {
	Difficulty deck.Difficulty
	Clock      clock.Clock
	Rand       *rand.Rand
	Delays     Delays
	Logger     *slog.Logger
	Storage    scoring.ScoreStorage
}

// Session ties a Game to its Timer and score tracking: the timer starts on
// the first accepted flip, stops when the board is cleared (at which point
// the result is recorded) and resets whenever a new board is dealt.
type Session struct {
	ID      string
	Game    *Game
	Timer   *timer.Timer
	Scoring *scoring.Scoring

	clock  clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	current   state.State // last state published by Game
	last      *scoring.GameStats
	newBest   bool
	observers []func(Snapshot)
}

// Snapshot combines everything a presentation layer needs to draw a frame.
type Snapshot struct {
	Game  state.State
	Timer timer.Snapshot
	Best  *scoring.BestScore
	// Attempts and TopScores cover the current difficulty.
	Attempts  int
	TopScores []scoring.GameStats
	// Last is the most recently completed game, nil until one finishes.
	Last    *scoring.GameStats
	NewBest bool
}

func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Storage == nil {
		opts.Storage = scoring.NewMemoryStorage()
	}

	sc, err := scoring.InitScoring(opts.Storage)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger.With("session", id)

	g, err := NewGame(opts.Difficulty, Options{
		Clock:  opts.Clock,
		Rand:   opts.Rand,
		Delays: opts.Delays,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:      id,
		Game:    g,
		Timer:   timer.New(opts.Clock),
		Scoring: sc,
		clock:   opts.Clock,
		logger:  logger,
		current: g.Snapshot(),
	}
	g.OnChange(s.handleGameChange)
	s.Timer.OnChange(s.handleTimerChange)

	logger.Info("session started", "difficulty", opts.Difficulty)
	return s, nil
}

// OnChange registers fn to receive a snapshot whenever the game or timer
// changes. fn must not call back into the Session.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Flip attempts to turn a card face up.
func (s *Session) Flip(id deck.CardID) bool {
	return s.Game.AttemptFlip(id)
}

// Restart deals a new board at the current difficulty.
func (s *Session) Restart() error {
	return s.ChangeDifficulty(s.Game.Snapshot().Difficulty)
}

// ChangeDifficulty deals a new board for d. The timer is reset as part of
// the same transition.
func (s *Session) ChangeDifficulty(d deck.Difficulty) error {
	if err := s.Game.Restart(d); err != nil {
		s.logger.Warn("restart rejected", "difficulty", d, "error", err)
		return err
	}
	s.logger.Info("game restarted", "difficulty", d)
	return nil
}

func (s *Session) Snapshot() Snapshot {
	g := s.Game.Snapshot()
	return s.snapshot(g, s.Timer.Snapshot())
}

// handleGameChange runs for every game transition, with the Game locked.
func (s *Session) handleGameChange(st state.State) {
	s.mu.Lock()
	s.current = st
	s.mu.Unlock()

	switch {
	case !st.Started:
		s.Timer.Reset()
	case st.Complete:
		s.Timer.Stop()
		s.record(st)
	case !s.Timer.Running():
		s.Timer.Start()
	}
	s.publish(s.snapshot(st, s.Timer.Snapshot()))
}

// handleTimerChange runs with the Timer locked, so it must not read the
// Timer or the Game directly.
func (s *Session) handleTimerChange(ts timer.Snapshot) {
	s.mu.Lock()
	st := s.current
	s.mu.Unlock()

	s.publish(s.snapshot(st, ts))
}

func (s *Session) record(st state.State) {
	stats := scoring.GameStats{
		Moves:       st.Moves,
		Seconds:     s.Timer.Seconds(),
		Difficulty:  st.Difficulty,
		CompletedAt: s.clock.Now(),
	}
	best, err := s.Scoring.Record(stats)
	if err != nil {
		s.logger.Error("failed to record score", "error", err)
		return
	}
	stats.Score = scoring.CalculateScore(stats.Moves, stats.Seconds)

	s.mu.Lock()
	s.last = &stats
	s.newBest = best
	s.mu.Unlock()

	s.logger.Info("game complete",
		"difficulty", stats.Difficulty,
		"moves", stats.Moves,
		"seconds", stats.Seconds,
		"score", stats.Score,
		"best", best)
}

func (s *Session) snapshot(st state.State, ts timer.Snapshot) Snapshot {
	best := s.Scoring.GetHighScore(st.Difficulty)
	attempts := s.Scoring.GetAttempts(st.Difficulty)
	top := s.Scoring.GetNScoreEntries(st.Difficulty, topScoreCount)

	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Game:      st,
		Timer:     ts,
		Best:      best,
		Attempts:  attempts,
		TopScores: top,
		Last:      s.last,
		NewBest:   s.newBest,
	}
}

func (s *Session) publish(snap Snapshot) {
	s.mu.Lock()
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
