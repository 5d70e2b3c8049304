// Package driver runs the clock engine in real time and fans each new
// reading out to live subscribers.
package driver

import (
	"sync"

	"github.com/acolita/ringclock/internal/clock"
)

// Hub broadcasts clock readings to subscribers. Each subscriber holds at most
// one pending reading; a slow subscriber sees the newest value, never a backlog.
type Hub struct {
	mu   sync.Mutex
	subs map[chan clock.Time]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan clock.Time]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel func unregisters
// it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan clock.Time, func()) {
	ch := make(chan clock.Time, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish delivers t to every subscriber without blocking, replacing any
// reading the subscriber has not consumed yet.
func (h *Hub) Publish(t clock.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- t:
			continue
		default:
		}
		// Drop the stale reading, then retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- t:
		default:
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Ticked implements clock.Observer.
func (h *Hub) Ticked(t clock.Time, _ clock.Carry) { h.Publish(t) }

// Synced implements clock.Observer.
func (h *Hub) Synced(t clock.Time) { h.Publish(t) }

// Adjusted implements clock.Observer.
func (h *Hub) Adjusted(t clock.Time) { h.Publish(t) }

var _ clock.Observer = (*Hub)(nil)
