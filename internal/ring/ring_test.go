package ring

import (
	"errors"
	"testing"
)

func mustRing(t *testing.T, values []int) *Ring[int] {
	t.Helper()
	r, err := New(values)
	if err != nil {
		t.Fatalf("New(%v) error: %v", values, err)
	}
	return r
}

func TestNew_InvalidDomain(t *testing.T) {
	tests := []struct {
		name   string
		values []int
	}{
		{name: "nil", values: nil},
		{name: "empty", values: []int{}},
		{name: "duplicate", values: []int{1, 2, 3, 2}},
		{name: "adjacent duplicate", values: []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.values)
			if !errors.Is(err, ErrInvalidDomain) {
				t.Fatalf("New(%v) error = %v, want ErrInvalidDomain", tt.values, err)
			}
			if r != nil {
				t.Errorf("New(%v) returned a ring on error", tt.values)
			}
		})
	}
}

func TestNew_CursorStartsAtFirst(t *testing.T) {
	r := mustRing(t, Range(1, 12))
	if got := r.Current(); got != 1 {
		t.Errorf("Current() = %d, want 1", got)
	}
	if r.Len() != 12 {
		t.Errorf("Len() = %d, want 12", r.Len())
	}
}

func TestNew_CopiesInput(t *testing.T) {
	values := []int{5, 6, 7}
	r := mustRing(t, values)
	values[0] = 99

	if got := r.Current(); got != 5 {
		t.Errorf("Current() = %d after mutating input, want 5", got)
	}
	values[1] = 42
	if got := r.Next(); got != 6 {
		t.Errorf("Next() = %d after mutating input, want 6", got)
	}
}

func TestRange(t *testing.T) {
	if got := Range(0, 59); len(got) != 60 || got[0] != 0 || got[59] != 59 {
		t.Errorf("Range(0, 59) = len %d, want 60 values 0..59", len(got))
	}
	if got := Range(3, 2); got != nil {
		t.Errorf("Range(3, 2) = %v, want nil", got)
	}
}

func TestNext_Wraps(t *testing.T) {
	r := mustRing(t, []int{1, 2, 3})

	want := []int{2, 3, 1, 2}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Fatalf("Next() #%d = %d, want %d", i+1, got, w)
		}
	}
}

func TestPrevious_Wraps(t *testing.T) {
	r := mustRing(t, []int{1, 2, 3})

	want := []int{3, 2, 1, 3}
	for i, w := range want {
		if got := r.Previous(); got != w {
			t.Fatalf("Previous() #%d = %d, want %d", i+1, got, w)
		}
	}
}

func TestTraversalClosure(t *testing.T) {
	for _, domain := range [][]int{Range(1, 12), Range(0, 59), {7}} {
		r := mustRing(t, domain)
		for _, start := range domain {
			if !r.Seek(start) {
				t.Fatalf("Seek(%d) failed", start)
			}
			for i := 0; i < r.Len(); i++ {
				r.Next()
			}
			if got := r.Current(); got != start {
				t.Errorf("after %d Next() from %d, Current() = %d", r.Len(), start, got)
			}
			for i := 0; i < r.Len(); i++ {
				r.Previous()
			}
			if got := r.Current(); got != start {
				t.Errorf("after %d Previous() from %d, Current() = %d", r.Len(), start, got)
			}
		}
	}
}

func TestSeek_EveryValueInDomain(t *testing.T) {
	r := mustRing(t, Range(0, 59))

	// Seek in an order that forces both short and full-lap scans.
	for _, v := range []int{59, 0, 30, 29, 58, 1, 1} {
		if !r.Seek(v) {
			t.Fatalf("Seek(%d) = false, want true", v)
		}
		if got := r.Current(); got != v {
			t.Errorf("Current() after Seek(%d) = %d", v, got)
		}
	}
}

func TestSeek_OutsideDomain(t *testing.T) {
	r := mustRing(t, Range(1, 12))
	r.Seek(7)

	for _, v := range []int{0, 13, -1, 99} {
		if r.Seek(v) {
			t.Errorf("Seek(%d) = true, want false", v)
		}
		if got := r.Current(); got != 7 {
			t.Errorf("Current() after failed Seek(%d) = %d, want 7", v, got)
		}
	}
}

func TestSeek_Strings(t *testing.T) {
	r, err := New([]string{"north", "east", "south", "west"})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Seek("west") {
		t.Fatal("Seek(west) = false")
	}
	if got := r.Next(); got != "north" {
		t.Errorf("Next() after west = %q, want north", got)
	}
	if r.Seek("up") {
		t.Error("Seek(up) = true, want false")
	}
}

func TestZeroValueRing(t *testing.T) {
	var r Ring[int]

	if got := r.Next(); got != 0 {
		t.Errorf("Next() on empty ring = %d, want 0", got)
	}
	if got := r.Previous(); got != 0 {
		t.Errorf("Previous() on empty ring = %d, want 0", got)
	}
	if got := r.Current(); got != 0 {
		t.Errorf("Current() on empty ring = %d, want 0", got)
	}
	if r.Seek(0) {
		t.Error("Seek(0) on empty ring = true, want false")
	}
}
