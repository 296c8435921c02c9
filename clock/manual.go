package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance or Set is called. Due timers
// fire synchronously inside Advance, in time order, with the clock reading
// each timer's deadline while its callback runs. Callbacks may schedule
// further timers; those fire too if they fall inside the advanced window.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	seq    int64
}

type manualTimer struct {
	clk     *Manual
	at      time.Time
	seq     int64
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual clock starting at the current wall-clock time.
func NewManual() *Manual {
	return &Manual{now: time.Now()}
}

// NewManualAt creates a manual clock starting at the specified time.
func NewManualAt(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the current time according to the manual clock.
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run once the clock has advanced past d.
func (c *Manual) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{
		clk: c,
		at:  c.now.Add(d),
		seq: c.seq,
		fn:  f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls within the window. Timers fire in deadline order; ties fire in
// registration order.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		t := c.nextDueLocked(target)
		if t == nil {
			break
		}
		c.now = t.at
		t.fired = true
		c.removeLocked(t)

		fn := t.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// Set jumps the clock to t without firing any timers. Tests use it to
// establish a baseline; Advance is the only way to fire timers.
func (c *Manual) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Since returns the duration since t according to the manual clock.
func (c *Manual) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Pending returns the number of timers that have been scheduled but have
// neither fired nor been stopped.
func (c *Manual) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *Manual) nextDueLocked(target time.Time) *manualTimer {
	var due *manualTimer
	for _, t := range c.timers {
		if t.at.After(target) {
			continue
		}
		if due == nil || t.at.Before(due.at) || (t.at.Equal(due.at) && t.seq < due.seq) {
			due = t
		}
	}
	return due
}

func (c *Manual) removeLocked(t *manualTimer) {
	for i, cand := range c.timers {
		if cand == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

// Stop cancels the timer if it has not fired yet.
func (t *manualTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	t.clk.removeLocked(t)
	return true
}
