// Package ring implements a fixed-domain circular sequence with a single cursor.
//
// A Ring holds its values in a slice and tracks the current element by index,
// so stepping forward or backward is modular arithmetic on that index.
package ring

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidDomain is returned when a ring is built from an empty sequence
// or from a sequence containing duplicate values.
var ErrInvalidDomain = errors.New("invalid ring domain")

// Ring is a circular sequence of distinct values with one current position.
// The zero value is an empty ring; use New to build a usable one.
type Ring[V comparable] struct {
	values []V
	pos    int
}

// New builds a ring over values, in order. The cursor starts on the first element.
func New[V comparable](values []V) (*Ring[V], error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrInvalidDomain)
	}

	seen := make(map[V]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%w: duplicate value %v", ErrInvalidDomain, v)
		}
		seen[v] = struct{}{}
	}

	return &Ring[V]{values: slices.Clone(values)}, nil
}

// Range returns the integers lo..hi inclusive, for building numeric rings.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// Len returns the number of values in the ring.
func (r *Ring[V]) Len() int {
	return len(r.values)
}

// Current returns the value under the cursor.
// An empty ring returns the zero value of V.
func (r *Ring[V]) Current() V {
	var zero V
	if len(r.values) == 0 {
		return zero
	}
	return r.values[r.pos]
}

// Next moves the cursor to its successor, wrapping from the last element to
// the first, and returns the new current value.
func (r *Ring[V]) Next() V {
	n := len(r.values)
	if n == 0 {
		var zero V
		return zero
	}
	r.pos = (r.pos + 1) % n
	return r.values[r.pos]
}

// Previous moves the cursor to its predecessor, wrapping from the first
// element to the last, and returns the new current value.
func (r *Ring[V]) Previous() V {
	n := len(r.values)
	if n == 0 {
		var zero V
		return zero
	}
	r.pos = (r.pos - 1 + n) % n
	return r.values[r.pos]
}

// Seek moves the cursor to the element equal to v, scanning forward from the
// current position for at most one revolution. It reports whether v was found;
// when it was not, the cursor is left where it was.
func (r *Ring[V]) Seek(v V) bool {
	n := len(r.values)
	for step := 0; step < n; step++ {
		i := (r.pos + step) % n
		if r.values[i] == v {
			r.pos = i
			return true
		}
	}
	return false
}
