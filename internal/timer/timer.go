package timer

import (
	"fmt"
	"sync"
	"time"

	"go-match/internal/clock"
)

// Snapshot is a copy of the timer state.
type Snapshot struct {
	Seconds   int
	Running   bool
	StartedAt *time.Time
	StoppedAt *time.Time
}

// Timer tracks elapsed whole seconds from Start. Seconds are recomputed
// from the start instant once per second, never incremented.
type Timer struct {
	mu         sync.Mutex
	clock      clock.Clock
	seconds    int
	running    bool
	startedAt  *time.Time
	stoppedAt  *time.Time
	tick       clock.Timer
	generation uint64
	observers  []func(Snapshot)
}

// New returns a stopped timer at zero.
func New(c clock.Clock) *Timer {
	return &Timer{clock: c}
}

// OnChange registers fn to receive a snapshot after every change. fn must
// not call back into the Timer.
func (t *Timer) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Start begins counting. It is a no-op while running, and keeps the
// original start instant if the timer was stopped without a Reset.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	if t.startedAt == nil {
		now := t.clock.Now()
		t.startedAt = &now
	}
	t.running = true
	t.stoppedAt = nil
	t.schedule()
	t.notify()
}

// Stop freezes the elapsed seconds at their last computed value.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancel()
	now := t.clock.Now()
	t.running = false
	t.stoppedAt = &now
	t.notify()
}

// Reset clears the timer back to zero.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancel()
	t.seconds = 0
	t.running = false
	t.startedAt = nil
	t.stoppedAt = nil
	t.notify()
}

// Seconds returns the last computed elapsed seconds.
func (t *Timer) Seconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seconds
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Timer) snapshot() Snapshot {
	return Snapshot{
		Seconds:   t.seconds,
		Running:   t.running,
		StartedAt: copyTime(t.startedAt),
		StoppedAt: copyTime(t.stoppedAt),
	}
}

// schedule arms the next one-second tick. Caller holds mu.
func (t *Timer) schedule() {
	gen := t.generation
	t.tick = t.clock.AfterFunc(time.Second, func() { t.onTick(gen) })
}

// cancel stops the pending tick and invalidates any tick already in
// flight. Caller holds mu.
func (t *Timer) cancel() {
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
	t.generation++
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation || !t.running || t.startedAt == nil {
		return
	}
	elapsed := int(t.clock.Now().Sub(*t.startedAt) / time.Second)
	if elapsed > t.seconds {
		t.seconds = elapsed
	}
	t.schedule()
	t.notify()
}

func (t *Timer) notify() {
	if len(t.observers) == 0 {
		return
	}
	snap := t.snapshot()
	for _, fn := range t.observers {
		fn(snap)
	}
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// FormatTime renders seconds as MM:SS. Minutes are not capped, so an hour
// and one second renders as "61:01".
func FormatTime(seconds int) string {
	minutes := seconds / 60
	remaining := seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, remaining)
}
