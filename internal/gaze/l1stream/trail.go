package l1stream

import "github.com/banshee-data/gaze.report/internal/gaze"

// Trail is a fixed-capacity ring buffer of display positions. Once full,
// each Push evicts the oldest entry.
type Trail struct {
	buf   []gaze.Point
	start int
	size  int
}

// NewTrail creates a Trail holding at most capacity positions. A
// non-positive capacity yields a trail that stores nothing.
func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{buf: make([]gaze.Point, capacity)}
}

// Push appends p, evicting the oldest position when full.
func (t *Trail) Push(p gaze.Point) {
	if len(t.buf) == 0 {
		return
	}
	if t.size < len(t.buf) {
		t.buf[(t.start+t.size)%len(t.buf)] = p
		t.size++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % len(t.buf)
}

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []gaze.Point {
	out := make([]gaze.Point, t.size)
	for i := 0; i < t.size; i++ {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Len returns the number of stored positions.
func (t *Trail) Len() int { return t.size }

// Cap returns the fixed capacity.
func (t *Trail) Cap() int { return len(t.buf) }

// Clear empties the trail without reallocating.
func (t *Trail) Clear() {
	t.start = 0
	t.size = 0
}
