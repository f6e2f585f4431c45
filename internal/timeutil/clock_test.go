package timeutil

import (
	"math"
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	got := c.Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", got, before, after)
	}
	if c.Since(before) < 0 {
		t.Error("RealClock.Since returned a negative duration")
	}
}

func TestMockClockSetAndAdvance(t *testing.T) {
	start := time.Unix(1700000000, 0)
	c := NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(50 * time.Millisecond)
	if got := c.Since(start); got != 50*time.Millisecond {
		t.Errorf("Since(start) = %v, want 50ms", got)
	}

	earlier := start.Add(-time.Second)
	c.Set(earlier)
	if !c.Now().Equal(earlier) {
		t.Errorf("Set backwards: Now() = %v, want %v", c.Now(), earlier)
	}
}

func TestSecondsRoundTrip(t *testing.T) {
	tests := []float64{0, 0.05, 1.5, 1700000000.125}
	for _, s := range tests {
		got := Seconds(FromSeconds(s))
		if math.Abs(got-s) > 1e-6 {
			t.Errorf("Seconds(FromSeconds(%v)) = %v", s, got)
		}
	}
}
