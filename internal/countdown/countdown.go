// Package countdown drives a once-per-second countdown to a single target.
package countdown

import (
	"sync"
	"time"

	"github.com/smokyabdulrahman/ramadan-compass/internal/clock"
	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
	"github.com/smokyabdulrahman/ramadan-compass/internal/ticker"
)

// Countdown recomputes the remaining time to its target every second and
// reports completion exactly once.
type Countdown struct {
	target     fasting.Target
	clock      clock.Clock
	onTick     func(fasting.Remaining)
	onComplete func(fasting.Target)
	interval   time.Duration

	mu        sync.Mutex
	handle    *ticker.Handle
	remaining fasting.Remaining
	started   bool
	stopped   bool
	completed bool
}

// New creates a Countdown. Either callback may be nil.
func New(target fasting.Target, clk clock.Clock, onTick func(fasting.Remaining), onComplete func(fasting.Target)) *Countdown {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Countdown{
		target:     target,
		clock:      clk,
		onTick:     onTick,
		onComplete: onComplete,
		interval:   time.Second,
	}
}

// Target returns the event being counted down to.
func (c *Countdown) Target() fasting.Target {
	return c.target
}

// Start computes the remaining time immediately and then once per interval.
// Calling Start again, or after Stop, does nothing.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.tick()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.completed {
		return
	}
	c.handle = ticker.Start(c.interval, func(time.Time) { c.tick() })
}

// Stop cancels the countdown. No new tick begins after it returns, but a tick
// already running may still deliver its callbacks. Stop does not wait for
// them, so callbacks may call it.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopped = true
	h := c.handle
	c.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// Remaining returns the most recently computed value.
func (c *Countdown) Remaining() fasting.Remaining {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.stopped || c.completed {
		c.mu.Unlock()
		return
	}
	r := fasting.ComputeRemaining(c.target, c.clock.Now())
	c.remaining = r
	var h *ticker.Handle
	if r.Complete {
		c.completed = true
		h = c.handle
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(r)
	}
	if !r.Complete {
		return
	}
	if h != nil {
		h.Stop()
	}
	if c.onComplete != nil {
		c.onComplete(c.target)
	}
}
