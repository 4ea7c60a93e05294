package scoring

import (
	"fmt"
	"sync"

	"go-match/internal/deck"
)

// Scoring tracks completed games and the best score per difficulty.
// Lower scores are better.
type Scoring struct {
	mu      sync.Mutex
	storage ScoreStorage // The interface for loading/saving scores.
	history map[deck.Difficulty]ScoreHistory
}

// InitScoring creates a Scoring object seeded from storage.
func InitScoring(storage ScoreStorage) (*Scoring, error) {
	s := &Scoring{
		storage: storage,
		history: map[deck.Difficulty]ScoreHistory{},
	}

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load score history: %w", err)
	}
	s.rebuild(allEntries)
	return s, nil
}

// CalculateScore weighs moves far more heavily than time.
func CalculateScore(moves, seconds int) int {
	return moves*100 + seconds
}

// Record stores a completed game and reports whether it is the best for
// its difficulty. Ties with the previous best count as a best.
func (s *Scoring) Record(stats GameStats) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats.Score = CalculateScore(stats.Moves, stats.Seconds)
	previous := s.history[stats.Difficulty].Best

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return false, fmt.Errorf("could not load scores for saving: %w", err)
	}
	allEntries = append(allEntries, stats)
	if err := s.storage.SaveAll(allEntries); err != nil {
		return false, fmt.Errorf("could not save scores: %w", err)
	}
	s.rebuild(allEntries)

	return previous == nil || stats.Score <= previous.Score, nil
}

// GetHighScore returns the best game for d, or nil before any completion.
func (s *Scoring) GetHighScore(d deck.Difficulty) *BestScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := s.history[d].Best
	if best == nil {
		return nil
	}
	b := *best
	return &b
}

// GetAttempts returns the number of completed games for d.
func (s *Scoring) GetAttempts(d deck.Difficulty) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[d].Attempts
}

// GetNScoreEntries returns the top n games for d.
func (s *Scoring) GetNScoreEntries(d deck.Difficulty, n int) []GameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[d].GetNScoreEntries(n)
}

func (s *Scoring) rebuild(allEntries []GameStats) {
	byDifficulty := map[deck.Difficulty][]GameStats{}
	for _, e := range allEntries {
		byDifficulty[e.Difficulty] = append(byDifficulty[e.Difficulty], e)
	}

	s.history = make(map[deck.Difficulty]ScoreHistory, len(byDifficulty))
	for d, entries := range byDifficulty {
		s.history[d] = newScoreHistory(entries)
	}
}
