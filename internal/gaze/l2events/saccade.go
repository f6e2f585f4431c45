package l2events

import (
	"github.com/banshee-data/gaze.report/internal/gaze"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// buildSaccade computes the saccade record and its velocity segments.
// It reports false for runs shorter than MinSaccadePoints.
func buildSaccade(points []gaze.GazePoint) (Saccade, bool) {
	if len(points) < MinSaccadePoints {
		return Saccade{}, false
	}

	first, last := points[0], points[len(points)-1]
	positions := gaze.Positions(points)
	velocities := gaze.Velocities(points)

	return Saccade{
		StartTime:        first.Timestamp,
		EndTime:          last.Timestamp,
		StartPosition:    first.Position,
		EndPosition:      last.Position,
		Duration:         last.Timestamp - first.Timestamp,
		PeakVelocity:     floats.Max(velocities),
		MeanVelocity:     stat.Mean(velocities, nil),
		Amplitude:        gaze.Distance(first.Position, last.Position),
		DistanceTraveled: gaze.PathLength(positions),
		Points:           append([]gaze.GazePoint(nil), points...),
		Segments:         segmentByVelocity(points, velocities),
	}, true
}

// tierBounds splits [min, max] into three equal-width bins.
type tierBounds struct {
	low, high float64 // upper edges of the low and medium bins
}

func newTierBounds(minV, maxV float64) tierBounds {
	span := maxV - minV
	return tierBounds{low: minV + span/3.0, high: minV + 2.0*span/3.0}
}

func (b tierBounds) tier(v float64) VelocityTier {
	switch {
	case v < b.low:
		return TierLow
	case v < b.high:
		return TierMedium
	default:
		return TierHigh
	}
}

// segmentByVelocity groups consecutive point pairs by the tier of their
// midpoint velocity. A segment closed at pair i spans points [start, i]
// and the next one starts at i, so neighbouring segments share their
// boundary point. The final open segment is always flushed.
func segmentByVelocity(points []gaze.GazePoint, velocities []float64) []SaccadeSegment {
	minV, maxV := floats.Min(velocities), floats.Max(velocities)
	if minV == maxV {
		return []SaccadeSegment{{
			StartPosition: points[0].Position,
			EndPosition:   points[len(points)-1].Position,
			MeanVelocity:  minV,
			PeakVelocity:  maxV,
			PointCount:    len(points),
			Tier:          TierLow,
		}}
	}

	bounds := newTierBounds(minV, maxV)
	var segments []SaccadeSegment
	start := 0
	current := bounds.tier(0.5 * (velocities[0] + velocities[1]))

	for i := 1; i < len(points)-1; i++ {
		t := bounds.tier(0.5 * (velocities[i] + velocities[i+1]))
		if t == current {
			continue
		}
		segments = append(segments, newSegment(points[start:i+1], velocities[start:i+1], current))
		current = t
		start = i
	}
	return append(segments, newSegment(points[start:], velocities[start:], current))
}

func newSegment(points []gaze.GazePoint, velocities []float64, tier VelocityTier) SaccadeSegment {
	return SaccadeSegment{
		StartPosition: points[0].Position,
		EndPosition:   points[len(points)-1].Position,
		MeanVelocity:  stat.Mean(velocities, nil),
		PeakVelocity:  floats.Max(velocities),
		PointCount:    len(points),
		Tier:          tier,
	}
}
