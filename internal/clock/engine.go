// Package clock implements a 12-hour wall clock built from three rings
// (hours, minutes, seconds) that advance with carry propagation, the way
// mechanical gearing does, instead of through time arithmetic.
//
// Engine is a plain state machine with no locking and no timers. Shared wraps
// an Engine for drivers that reach it from several goroutines.
package clock

import (
	"fmt"
	"time"

	"github.com/acolita/ringclock/internal/ports"
	"github.com/acolita/ringclock/internal/ring"
)

// Engine owns the hour, minute and second rings.
type Engine struct {
	hours   *ring.Ring[int]
	minutes *ring.Ring[int]
	seconds *ring.Ring[int]

	clock    ports.Clock
	location *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the time zone used when reading the host clock.
// The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// New builds the three rings and synchronizes them to clk.
func New(clk ports.Clock, opts ...Option) (*Engine, error) {
	hours, err := ring.New(ring.Range(MinHour, MaxHour))
	if err != nil {
		return nil, fmt.Errorf("build hour ring: %w", err)
	}
	minutes, err := ring.New(ring.Range(MinMinute, MaxMinute))
	if err != nil {
		return nil, fmt.Errorf("build minute ring: %w", err)
	}
	seconds, err := ring.New(ring.Range(MinSecond, MaxSecond))
	if err != nil {
		return nil, fmt.Errorf("build second ring: %w", err)
	}

	e := &Engine{
		hours:    hours,
		minutes:  minutes,
		seconds:  seconds,
		clock:    clk,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.SyncToSystemClock()
	return e, nil
}

// SyncToSystemClock repositions all three rings to the host's current
// wall-clock reading, converted to 12-hour form.
func (e *Engine) SyncToSystemClock() {
	now := e.clock.Now().In(e.location)

	e.hours.Seek(To12Hour(now.Hour()))
	e.minutes.Seek(now.Minute())
	e.seconds.Seek(now.Second())
}

// Tick advances the clock by one second. Minutes advance only when seconds
// wrap to 0, and hours only when minutes also wrap to 0 on that same tick.
func (e *Engine) Tick() Carry {
	var c Carry
	if e.seconds.Next() != MinSecond {
		return c
	}
	c.Minute = true
	if e.minutes.Next() != MinMinute {
		return c
	}
	c.Hour = true
	e.hours.Next()
	return c
}

// TickBack steps the clock back by one second, borrowing from minutes when
// seconds wrap to 59 and from hours when minutes also wrap to 59.
func (e *Engine) TickBack() {
	if e.seconds.Previous() != MaxSecond {
		return
	}
	if e.minutes.Previous() != MaxMinute {
		return
	}
	e.hours.Previous()
}

// Advance applies n ticks in sequence. Non-positive n does nothing.
func (e *Engine) Advance(n int) {
	for i := 0; i < n; i++ {
		e.Tick()
	}
}

// Snapshot returns the current reading without changing it.
func (e *Engine) Snapshot() Time {
	return Time{
		Hour:   e.hours.Current(),
		Minute: e.minutes.Current(),
		Second: e.seconds.Current(),
	}
}

// SetTime moves each ring to the given value. Components outside their
// domain are ignored and leave that ring where it was; the others still apply.
func (e *Engine) SetTime(hour, minute, second int) {
	if ValidHour(hour) {
		e.hours.Seek(hour)
	}
	if ValidMinute(minute) {
		e.minutes.Seek(minute)
	}
	if ValidSecond(second) {
		e.seconds.Seek(second)
	}
}
