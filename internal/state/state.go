package state

import (
	"go-match/internal/deck"

	"github.com/looplab/fsm"
)

// Phase is the position of a game in the flip/match state machine.
type Phase string

const (
	Ready      Phase = "ready"      // no card awaiting a partner
	OneFlipped Phase = "oneFlipped" // first card of a pair is face up
	Resolving  Phase = "resolving"  // two cards face up, outcome scheduled
	Complete   Phase = "complete"   // every card matched
)

// Event names driving the state machine.
const (
	EventFlip   = "flip"
	EventPair   = "pair"
	EventSettle = "settle"
	EventFinish = "finish"
)

// State is an immutable snapshot of a game. Transitions return a new State
// and never modify the slices of an existing one, so holders of an older
// snapshot can compare it against a newer one safely.
type State struct {
	Cards        []deck.Card
	Flipped      []deck.Card // unresolved selection, in flip order
	MatchedPairs int
	Moves        int
	Complete     bool
	Started      bool
	Difficulty   deck.Difficulty
	Phase        Phase
}

// New returns the initial state for a freshly generated deck.
func New(d deck.Difficulty, cards []deck.Card) State {
	return State{
		Cards:      cards,
		Flipped:    []deck.Card{},
		Difficulty: d,
		Phase:      Ready,
	}
}

// Card looks up a card by identity.
func (s State) Card(id deck.CardID) (deck.Card, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return deck.Card{}, false
}

// TotalPairs is the number of pairs in the deck.
func (s State) TotalPairs() int {
	return len(s.Cards) / 2
}

// Transitions returns the legal events of the flip/match state machine.
func Transitions() fsm.Events {
	return fsm.Events{
		{Name: EventFlip, Src: []string{string(Ready)}, Dst: string(OneFlipped)},
		{Name: EventPair, Src: []string{string(OneFlipped)}, Dst: string(Resolving)},

		// Resolution
		{Name: EventSettle, Src: []string{string(Resolving)}, Dst: string(Ready)},
		{Name: EventFinish, Src: []string{string(Resolving)}, Dst: string(Complete)},
	}
}
