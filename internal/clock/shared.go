package clock

import (
	"sync"
	"time"

	"github.com/acolita/ringclock/internal/ports"
)

// DefaultInterval is the simulated length of one tick in wall-clock time.
const DefaultInterval = time.Second

// Observer is notified of every state change made through a Shared engine.
// Observers run with the engine lock held and must not call back into Shared.
type Observer interface {
	Ticked(t Time, c Carry)
	Synced(t Time)
	Adjusted(t Time)
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (obs Observers) Ticked(t Time, c Carry) {
	for _, o := range obs {
		o.Ticked(t, c)
	}
}

func (obs Observers) Synced(t Time) {
	for _, o := range obs {
		o.Synced(t)
	}
}

func (obs Observers) Adjusted(t Time) {
	for _, o := range obs {
		o.Adjusted(t)
	}
}

// Shared serializes access to an Engine so concurrent drivers cannot
// interleave ticks and double-apply a carry.
type Shared struct {
	mu       sync.Mutex
	engine   *Engine
	clock    ports.Clock
	interval time.Duration
	lastTick time.Time
	observer Observer
}

// SharedOption configures a Shared engine.
type SharedOption func(*Shared)

// WithObserver registers o for state change notifications.
func WithObserver(o Observer) SharedOption {
	return func(s *Shared) {
		s.observer = o
	}
}

// NewShared wraps e. The tick interval gates TickIfDue; a non-positive
// interval falls back to DefaultInterval.
func NewShared(e *Engine, clk ports.Clock, interval time.Duration, opts ...SharedOption) *Shared {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Shared{
		engine:   e,
		clock:    clk,
		interval: interval,
		lastTick: clk.Now(),
		observer: Observers(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick advances one second and returns the new reading.
func (s *Shared) Tick() Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickLocked(s.clock.Now())
	return s.engine.Snapshot()
}

// TickIfDue ticks once if at least one interval has passed since the last
// tick, and reports whether it did. At most one tick happens per call no
// matter how long the gap was.
func (s *Shared) TickIfDue() (Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if now.Sub(s.lastTick) < s.interval {
		return s.engine.Snapshot(), false
	}
	s.tickLocked(now)
	return s.engine.Snapshot(), true
}

func (s *Shared) tickLocked(now time.Time) {
	c := s.engine.Tick()
	s.lastTick = now
	s.observer.Ticked(s.engine.Snapshot(), c)
}

// Advance applies n ticks under a single lock acquisition.
func (s *Shared) Advance(n int) Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for i := 0; i < n; i++ {
		s.tickLocked(now)
	}
	return s.engine.Snapshot()
}

// Snapshot returns the current reading.
func (s *Shared) Snapshot() Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Sync repositions the rings to the host clock and returns the new reading.
func (s *Shared) Sync() Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.SyncToSystemClock()
	t := s.engine.Snapshot()
	s.observer.Synced(t)
	return t
}

// SetTime applies a best-effort partial update and returns the new reading.
func (s *Shared) SetTime(hour, minute, second int) Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.SetTime(hour, minute, second)
	t := s.engine.Snapshot()
	s.observer.Adjusted(t)
	return t
}

// Interval returns the current tick interval.
func (s *Shared) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick interval. Non-positive values are ignored.
func (s *Shared) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}
