// Package fakeclock provides a controllable Clock implementation for testing.
package fakeclock

import (
	"sync"
	"time"

	"github.com/acolita/ringclock/internal/ports"
)

// Clock is a fake clock that can be controlled in tests.
// Tickers created from it fire only when Advance moves time past their next deadline.
type Clock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*Ticker
}

// New creates a new fake clock initialized to the given time.
func New(initial time.Time) *Clock {
	return &Clock{current: initial}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NewTicker returns a fake ticker driven by Advance.
func (c *Clock) NewTicker(d time.Duration) ports.Ticker {
	if d <= 0 {
		panic("fakeclock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := &Ticker{
		clock:    c,
		interval: d,
		next:     c.current.Add(d),
		ch:       make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Tickers returns the number of tickers created and not yet stopped.
func (c *Clock) Tickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Intervals returns the interval of each active ticker, in creation order.
func (c *Clock) Intervals() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []time.Duration
	for _, t := range c.tickers {
		if !t.stopped {
			out = append(out, t.interval)
		}
	}
	return out
}

// Advance moves the clock forward by duration d, firing any tickers whose
// deadline has passed. Like time.Ticker, a ticker whose channel is full drops
// the tick.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	now := c.current

	for _, t := range c.tickers {
		if t.stopped {
			continue
		}
		for !now.Before(t.next) {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}
}

// Set sets the clock to a specific time without firing tickers.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Ticker is a fake ticker for testing. Its fields are guarded by the owning clock's mutex.
type Ticker struct {
	clock    *Clock
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

// C returns the channel on which ticks are delivered.
func (t *Ticker) C() <-chan time.Time {
	return t.ch
}

// Reset changes the interval and restarts the period from the current fake time.
func (t *Ticker) Reset(d time.Duration) {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	t.interval = d
	t.next = t.clock.current.Add(d)
	t.stopped = false
}

// Stop turns off the ticker.
func (t *Ticker) Stop() {
	t.clock.mu.Lock()
	t.stopped = true
	t.clock.mu.Unlock()
}

// Interval returns the ticker's current interval.
func (t *Ticker) Interval() time.Duration {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.interval
}

// Ensure Clock implements ports.Clock.
var _ ports.Clock = (*Clock)(nil)
