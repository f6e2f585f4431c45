package l1stream

import (
	"testing"

	"github.com/banshee-data/gaze.report/internal/gaze"
)

func TestTrailEvictsOldestFirst(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 5; i++ {
		tr.Push(gaze.Point{X: i})
	}

	got := tr.Points()
	want := []gaze.Point{{X: 3}, {X: 4}, {X: 5}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Points()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if tr.Len() != 3 || tr.Cap() != 3 {
		t.Errorf("Len/Cap = %d/%d, want 3/3", tr.Len(), tr.Cap())
	}
}

func TestTrailNeverExceedsCapacity(t *testing.T) {
	tr := NewTrail(25)
	for i := 0; i < 1000; i++ {
		tr.Push(gaze.Point{X: i, Y: i})
		if tr.Len() > 25 {
			t.Fatalf("trail grew to %d after %d pushes", tr.Len(), i+1)
		}
	}
	pts := tr.Points()
	if pts[0].X != 975 || pts[24].X != 999 {
		t.Errorf("trail window = [%d..%d], want [975..999]", pts[0].X, pts[24].X)
	}
}

func TestTrailZeroCapacityAndClear(t *testing.T) {
	empty := NewTrail(0)
	empty.Push(gaze.Point{X: 1})
	if empty.Len() != 0 {
		t.Errorf("zero-capacity trail stored %d points", empty.Len())
	}
	if NewTrail(-3).Cap() != 0 {
		t.Error("negative capacity should clamp to 0")
	}

	tr := NewTrail(2)
	tr.Push(gaze.Point{X: 1})
	tr.Push(gaze.Point{X: 2})
	tr.Push(gaze.Point{X: 3})
	tr.Clear()
	if tr.Len() != 0 || len(tr.Points()) != 0 {
		t.Error("Clear left points behind")
	}
	tr.Push(gaze.Point{X: 9})
	if got := tr.Points(); len(got) != 1 || got[0].X != 9 {
		t.Errorf("after Clear+Push got %v", got)
	}
}
