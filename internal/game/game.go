package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go-match/internal/clock"
	"go-match/internal/deck"
	"go-match/internal/state"

	"github.com/looplab/fsm"
)

// Delays are the pauses between the second flip of a pair and its outcome.
type Delays struct {
	Match    time.Duration
	Mismatch time.Duration
}

// DefaultDelays gives a short celebration and a longer look at a mismatch.
var DefaultDelays = Delays{
	Match:    500 * time.Millisecond,
	Mismatch: 1000 * time.Millisecond,
}

type Options struct {
	Clock  clock.Clock
	Rand   *rand.Rand
	Delays Delays
	Logger *slog.Logger
}

// Game owns the state of one board and the flip/match state machine.
// Every transition installs a new state.State; existing snapshots are never
// modified.
type Game struct {
	mu         sync.Mutex
	clock      clock.Clock
	rand       *rand.Rand
	delays     Delays
	logger     *slog.Logger
	state      state.State
	fsm        *fsm.FSM
	pending    clock.Timer // scheduled resolution, nil when none
	generation uint64
	observers  []func(state.State)
}

// NewGame deals a board for d.
func NewGame(d deck.Difficulty, opts Options) (*Game, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Delays == (Delays{}) {
		opts.Delays = DefaultDelays
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Game{
		clock:  opts.Clock,
		rand:   opts.Rand,
		delays: opts.Delays,
		logger: opts.Logger,
	}
	if err := g.Restart(d); err != nil {
		return nil, err
	}
	return g, nil
}

// OnChange registers fn to receive every new snapshot, in transition order.
// fn runs while the Game is locked and must not call back into it.
func (g *Game) OnChange(fn func(state.State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, fn)
}

// Snapshot returns the current state. Callers must treat its slices as
// read-only.
func (g *Game) Snapshot() state.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Restart replaces the board with a fresh deck for d. A resolution still
// pending from the previous board is cancelled and can no longer apply.
func (g *Game) Restart(d deck.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", deck.ErrUnknownDifficulty, d)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
	g.generation++

	g.state = state.New(d, deck.Generate(d, g.rand))
	g.fsm = fsm.NewFSM(
		string(state.Ready),
		state.Transitions(),
		g.callbacks(),
	)

	g.logger.Debug("new board dealt",
		"difficulty", d,
		"cards", len(g.state.Cards),
		"generation", g.generation)
	g.notify()
	return nil
}

// AttemptFlip turns the card with the given id face up. It reports only
// whether the flip was accepted; the match outcome arrives later through a
// new snapshot. Flips are ignored while a pair is resolving, after the game
// is complete, for unknown ids, and for cards already face up or matched.
func (g *Game) AttemptFlip(id deck.CardID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fsm.Is(string(state.Resolving)) || g.fsm.Is(string(state.Complete)) {
		g.logger.Debug("flip rejected", "card", id, "phase", g.fsm.Current())
		return false
	}

	card, ok := g.state.Card(id)
	if !ok || !state.CanFlipCard(card, g.state.Flipped) {
		g.logger.Debug("flip rejected", "card", id, "known", ok)
		return false
	}

	next := g.state.WithFlipped(card)

	event := state.EventFlip
	var args []interface{}
	if len(next.Flipped) == 2 {
		event = state.EventPair
		args = []interface{}{next.Flipped[0], next.Flipped[1]}
	}
	if err := g.fsm.Event(context.Background(), event, args...); err != nil {
		g.logger.Error("flip transition failed", "event", event, "error", err)
		return false
	}

	next.Phase = state.Phase(g.fsm.Current())
	g.state = next
	g.notify()
	return true
}

// callbacks wires the state machine to the Game. Callbacks run inside
// fsm.Event, with g.mu already held.
func (g *Game) callbacks() fsm.Callbacks {
	return fsm.Callbacks{
		"enter_" + string(state.Resolving): func(_ context.Context, e *fsm.Event) {
			first := e.Args[0].(deck.Card)
			second := e.Args[1].(deck.Card)
			g.schedule(first, second)
		},
	}
}

// schedule defers the outcome of a pair. Caller holds mu.
func (g *Game) schedule(first, second deck.Card) {
	match := state.IsMatchingPair(first, second)
	delay := g.delays.Mismatch
	if match {
		delay = g.delays.Match
	}

	gen := g.generation
	g.pending = g.clock.AfterFunc(delay, func() {
		g.resolve(gen, first, second, match)
	})
}

func (g *Game) resolve(gen uint64, first, second deck.Card, match bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// The board was replaced after this resolution was scheduled.
	if gen != g.generation || !g.fsm.Is(string(state.Resolving)) {
		return
	}
	g.pending = nil

	var next state.State
	if match {
		next = g.state.WithMatched(first, second)
	} else {
		next = g.state.WithUnflipped(first, second)
	}

	event := state.EventSettle
	if next.Complete {
		event = state.EventFinish
	}
	if err := g.fsm.Event(context.Background(), event); err != nil {
		g.logger.Error("resolve transition failed", "event", event, "error", err)
		return
	}

	next.Phase = state.Phase(g.fsm.Current())
	g.state = next

	g.logger.Debug("pair resolved",
		"match", match,
		"moves", next.Moves,
		"matched_pairs", next.MatchedPairs,
		"complete", next.Complete)
	g.notify()
}

// notify hands the current snapshot to observers. Caller holds mu.
func (g *Game) notify() {
	for _, fn := range g.observers {
		fn(g.state)
	}
}
