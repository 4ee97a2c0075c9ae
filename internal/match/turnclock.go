package match

import (
	"sync"
	"time"
)

// TurnClock owns the single pending deadline of a match phase.
// Scheduling a new deadline cancels the previous one, so at most one
// timer is ever live. Every schedule returns a generation number; the
// callback receives it back and the caller drops fires whose
// generation is no longer current, which closes the race between a
// timer firing and the state legitimately advancing.
type TurnClock struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewTurnClock() *TurnClock { return &TurnClock{} }

func (c *TurnClock) Schedule(d time.Duration, fn func(gen uint64)) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(d, func() { fn(gen) })
	return gen
}

// Cancel stops any pending deadline and invalidates outstanding
// generations.
func (c *TurnClock) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// Generation returns the current generation, for stale-fire checks.
func (c *TurnClock) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
