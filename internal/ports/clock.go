// Package ports defines interfaces for external dependencies (Ports and Adapters pattern).
package ports

import "time"

// Clock abstracts the host wall clock so the engine and its drivers can be
// tested without real time passing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker returns a new Ticker that sends the current time on its channel
	// after each interval.
	NewTicker(d time.Duration) Ticker
}

// Ticker wraps time.Ticker for testing.
type Ticker interface {
	// C returns the channel on which ticks are delivered.
	C() <-chan time.Time

	// Reset changes the ticker interval.
	Reset(d time.Duration)

	// Stop turns off the ticker.
	Stop()
}
