package state

import (
	"slices"

	"go-match/internal/deck"
)

// IsMatchingPair reports whether a and b are two distinct cards sharing a
// value. A card never matches itself.
func IsMatchingPair(a, b deck.Card) bool {
	return a.Value == b.Value && a.ID != b.ID
}

// CanFlipCard reports whether card may be turned face up given the current
// unresolved selection.
func CanFlipCard(card deck.Card, flipped []deck.Card) bool {
	return !card.Flipped && !card.Matched && len(flipped) < 2
}

// IsGameComplete reports whether every card is matched.
func IsGameComplete(cards []deck.Card) bool {
	for _, c := range cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

// MatchedPairsCount returns the number of matched pairs.
func MatchedPairsCount(cards []deck.Card) int {
	n := 0
	for _, c := range cards {
		if c.Matched {
			n++
		}
	}
	return n / 2
}

// WithFlipped turns card face up and appends it to the selection. The move
// counter advances only on the first card of a pair attempt.
func (s State) WithFlipped(card deck.Card) State {
	next := s
	next.Cards = updateCards(s.Cards, func(c deck.Card) deck.Card {
		if c.ID == card.ID {
			c.Flipped = true
		}
		return c
	})

	card.Flipped = true
	next.Flipped = append(slices.Clone(s.Flipped), card)
	if len(s.Flipped) == 0 {
		next.Moves++
	}
	next.Started = true
	return next
}

// WithMatched marks a and b matched, clears the selection and recomputes
// the pair count and completion flag.
func (s State) WithMatched(a, b deck.Card) State {
	next := s
	next.Cards = updateCards(s.Cards, func(c deck.Card) deck.Card {
		if c.ID == a.ID || c.ID == b.ID {
			c.Matched = true
			c.Flipped = true
		}
		return c
	})
	next.Flipped = []deck.Card{}
	next.MatchedPairs = MatchedPairsCount(next.Cards)
	next.Complete = IsGameComplete(next.Cards)
	return next
}

// WithUnflipped turns a and b face down again and clears the selection.
func (s State) WithUnflipped(a, b deck.Card) State {
	next := s
	next.Cards = updateCards(s.Cards, func(c deck.Card) deck.Card {
		if c.ID == a.ID || c.ID == b.ID {
			c.Flipped = false
		}
		return c
	})
	next.Flipped = []deck.Card{}
	return next
}

func updateCards(cards []deck.Card, fn func(deck.Card) deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	for i, c := range cards {
		out[i] = fn(c)
	}
	return out
}
