package l2events

import (
	"github.com/banshee-data/gaze.report/internal/gaze"
)

// Fixation is a period of stable gaze.
type Fixation struct {
	StartTime float64          `json:"start_time"`
	EndTime   float64          `json:"end_time"`
	Center    gaze.Point       `json:"center_position"`
	Duration  float64          `json:"duration"`
	Points    []gaze.GazePoint `json:"-"`
}

// Contains reports whether p lies within radius pixels of the fixation
// centre. Used for hit-testing in presentation code.
func (f *Fixation) Contains(p gaze.Point, radius float64) bool {
	return gaze.Distance(f.Center, p) <= radius
}

// VelocityTier names the equal-width velocity bin a saccade segment was
// built from.
type VelocityTier int

const (
	TierLow VelocityTier = iota
	TierMedium
	TierHigh
)

func (t VelocityTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	}
	return "unknown"
}

// SaccadeSegment is a maximal run of a saccade whose pairwise midpoint
// velocities fall in the same tier.
type SaccadeSegment struct {
	StartPosition gaze.Point   `json:"start_position"`
	EndPosition   gaze.Point   `json:"end_position"`
	MeanVelocity  float64      `json:"mean_velocity"`
	PeakVelocity  float64      `json:"peak_velocity"`
	PointCount    int          `json:"gaze_point_count"`
	Tier          VelocityTier `json:"tier"`
}

// Saccade is a rapid movement between fixations.
type Saccade struct {
	StartTime        float64          `json:"start_time"`
	EndTime          float64          `json:"end_time"`
	StartPosition    gaze.Point       `json:"start_position"`
	EndPosition      gaze.Point       `json:"end_position"`
	Duration         float64          `json:"duration"`
	PeakVelocity     float64          `json:"peak_velocity"`
	MeanVelocity     float64          `json:"mean_velocity"`
	Amplitude        float64          `json:"amplitude"`         // chord start→end (px)
	DistanceTraveled float64          `json:"distance_traveled"` // path length (px)
	Points           []gaze.GazePoint `json:"-"`
	Segments         []SaccadeSegment `json:"segments"`
}

// Heatmap is the coarse counting heatmap keyed by bucket origin.
type Heatmap map[gaze.Point]int

// Total returns the sum of all bucket counts.
func (h Heatmap) Total() int {
	n := 0
	for _, v := range h {
		n += v
	}
	return n
}

// Max returns the largest bucket count, or 0 for an empty heatmap.
func (h Heatmap) Max() int {
	m := 0
	for _, v := range h {
		if v > m {
			m = v
		}
	}
	return m
}
