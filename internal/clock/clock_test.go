package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceFiresInOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	var fired []string
	f.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	f.AfterFunc(time.Second, func() { fired = append(fired, "a") })

	f.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)
	assert.Equal(t, start.Add(1500*time.Millisecond), f.Now())

	f.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Zero(t, f.Pending())
}

func TestFake_RescheduleWithinWindow(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		f.AfterFunc(time.Second, tick)
	}
	f.AfterFunc(time.Second, tick)

	f.Advance(3 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, f.Pending())
}

func TestFake_Stop(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	called := false
	timer := f.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	f.Advance(2 * time.Second)
	assert.False(t, called)
}
