package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/ports"
)

// Runner ticks a shared engine once per interval.
type Runner struct {
	shared *clock.Shared
	clock  ports.Clock
	reset  chan struct{}
}

// NewRunner creates a runner that paces ticks with clk, using the shared
// engine's tick interval.
func NewRunner(shared *clock.Shared, clk ports.Clock) *Runner {
	return &Runner{
		shared: shared,
		clock:  clk,
		reset:  make(chan struct{}, 1),
	}
}

// Run ticks until ctx is cancelled. Call in a goroutine.
func (r *Runner) Run(ctx context.Context) {
	interval := r.shared.Interval()
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("timer driver started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("timer driver stopped")
			return
		case <-r.reset:
			interval = r.shared.Interval()
			ticker.Reset(interval)
			slog.Debug("timer driver interval changed", slog.Duration("interval", interval))
		case <-ticker.C():
			t := r.shared.Tick()
			slog.Debug("tick", slog.String("reading", t.String()))
		}
	}
}

// SetInterval changes the tick interval of the shared engine and of a
// running loop. Non-positive values are ignored.
func (r *Runner) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.shared.SetInterval(d)
	select {
	case r.reset <- struct{}{}:
	default:
	}
}
