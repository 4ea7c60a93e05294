package scoring

import (
	"sort"
	"time"

	"go-match/internal/deck"
)

// GameStats records one completed game.
type GameStats struct {
	Moves       int             `json:"moves"`
	Seconds     int             `json:"timeInSeconds"`
	Difficulty  deck.Difficulty `json:"difficulty"`
	CompletedAt time.Time       `json:"completedAt"`
	Score       int             `json:"score"`
}

// BestScore is the lowest-scoring game for a difficulty.
type BestScore struct {
	Moves      int             `json:"moves"`
	Seconds    int             `json:"timeInSeconds"`
	Difficulty deck.Difficulty `json:"difficulty"`
	AchievedAt time.Time       `json:"achievedAt"`
	Score      int             `json:"score"`
}

// ScoreHistory holds the completed games for one difficulty.
type ScoreHistory struct {
	Entries  []GameStats
	Best     *BestScore
	Attempts int
}

func newScoreHistory(entries []GameStats) ScoreHistory {
	sh := ScoreHistory{Entries: entries, Attempts: len(entries)}
	for _, e := range entries {
		if sh.Best == nil || e.Score < sh.Best.Score {
			sh.Best = bestFrom(e)
		}
	}
	return sh
}

// GetNScoreEntries returns the best n entries, lowest score first.
func (sh ScoreHistory) GetNScoreEntries(n int) []GameStats {
	// Make a copy to avoid modifying the original slice.
	entriesCopy := make([]GameStats, len(sh.Entries))
	copy(entriesCopy, sh.Entries)

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Score < entriesCopy[j].Score
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

func bestFrom(e GameStats) *BestScore {
	return &BestScore{
		Moves:      e.Moves,
		Seconds:    e.Seconds,
		Difficulty: e.Difficulty,
		AchievedAt: e.CompletedAt,
		Score:      e.Score,
	}
}
