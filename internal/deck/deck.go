package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// ErrUnknownDifficulty is returned when a difficulty name is not in the table.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty names a grid configuration.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Config describes the grid for a difficulty. GridSize is always even.
type Config struct {
	Level    Difficulty
	Label    string
	GridSize int
	Rows     int
	Cols     int
}

var configs = map[Difficulty]Config{
	Easy:   {Level: Easy, Label: "Easy (2×2)", GridSize: 4, Rows: 2, Cols: 2},
	Medium: {Level: Medium, Label: "Medium (4×4)", GridSize: 16, Rows: 4, Cols: 4},
	Hard:   {Level: Hard, Label: "Hard (6×6)", GridSize: 36, Rows: 6, Cols: 6},
}

// Difficulties lists the levels from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Config returns the grid configuration for d.
func (d Difficulty) Config() (Config, bool) {
	c, ok := configs[d]
	return c, ok
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	_, ok := configs[d]
	return ok
}

// ParseDifficulty converts a name such as "medium" into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// CardID identifies a card within a deck. Compare IDs, never pointers.
type CardID string

// Card is a single card on the board.
type Card struct {
	ID       CardID
	Value    int
	Flipped  bool
	Matched  bool
	Position int
}

// Generate builds a shuffled deck for d: every value from 1 to GridSize/2
// appears on exactly two face-down cards, and Position equals the card's
// index in the returned slice. An unknown difficulty yields an empty deck.
func Generate(d Difficulty, r *rand.Rand) []Card {
	cfg, ok := d.Config()
	if !ok {
		return []Card{}
	}

	pairs := cfg.GridSize / 2
	cards := make([]Card, 0, cfg.GridSize)
	for value := 1; value <= pairs; value++ {
		cards = append(cards,
			Card{ID: newID(), Value: value},
			Card{ID: newID(), Value: value},
		)
	}

	shuffled := Shuffle(cards, r)
	for i := range shuffled {
		shuffled[i].Position = i
	}
	return shuffled
}

// Shuffle returns a Fisher-Yates shuffled copy of items. The input slice is
// left untouched.
func Shuffle[T any](items []T, r *rand.Rand) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

func newID() CardID {
	return CardID(uuid.NewString())
}
