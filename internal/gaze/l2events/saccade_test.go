package l2events

import (
	"testing"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointsWithVelocities(vs ...float64) []gaze.GazePoint {
	out := make([]gaze.GazePoint, len(vs))
	for i, v := range vs {
		out[i] = gp(float64(i)*step, i*10, 0, v)
	}
	return out
}

func TestSegmentByVelocityTiers(t *testing.T) {
	points := pointsWithVelocities(0, 100, 200, 300, 300)

	segs := segmentByVelocity(points, gaze.Velocities(points))

	require.Len(t, segs, 3)
	assert.Equal(t, TierLow, segs[0].Tier)
	assert.Equal(t, 2, segs[0].PointCount)
	assert.InDelta(t, 50.0, segs[0].MeanVelocity, 1e-12)
	assert.Equal(t, 100.0, segs[0].PeakVelocity)

	assert.Equal(t, TierMedium, segs[1].Tier)
	assert.Equal(t, 2, segs[1].PointCount)
	assert.InDelta(t, 150.0, segs[1].MeanVelocity, 1e-12)

	assert.Equal(t, TierHigh, segs[2].Tier)
	assert.Equal(t, 3, segs[2].PointCount)
	assert.InDelta(t, 800.0/3.0, segs[2].MeanVelocity, 1e-9)
	assert.Equal(t, 300.0, segs[2].PeakVelocity)

	// Neighbouring segments share their boundary point.
	assert.Equal(t, gaze.Point{X: 0, Y: 0}, segs[0].StartPosition)
	assert.Equal(t, segs[0].EndPosition, segs[1].StartPosition)
	assert.Equal(t, segs[1].EndPosition, segs[2].StartPosition)
	assert.Equal(t, gaze.Point{X: 40, Y: 0}, segs[2].EndPosition)
}

func TestSegmentByVelocityUniform(t *testing.T) {
	points := pointsWithVelocities(500, 500, 500, 500)

	segs := segmentByVelocity(points, gaze.Velocities(points))

	require.Len(t, segs, 1)
	assert.Equal(t, 4, segs[0].PointCount)
	assert.Equal(t, 500.0, segs[0].MeanVelocity)
	assert.Equal(t, 500.0, segs[0].PeakVelocity)
	assert.Equal(t, TierLow, segs[0].Tier)
}

func TestSegmentByVelocityTwoPoints(t *testing.T) {
	points := pointsWithVelocities(400, 1600)
	segs := segmentByVelocity(points, gaze.Velocities(points))
	require.Len(t, segs, 1)
	assert.Equal(t, 2, segs[0].PointCount)
	assert.Equal(t, TierMedium, segs[0].Tier, "midpoint 1000 sits in the middle bin")
}

func TestBuildSaccade(t *testing.T) {
	points := []gaze.GazePoint{
		gp(0, 0, 0, 400),
		gp(step, 30, 40, 800),
		gp(2*step, 30, 0, 600),
	}

	s, ok := buildSaccade(points)
	require.True(t, ok)
	assert.Equal(t, 2*step, s.Duration)
	assert.Equal(t, 30.0, s.Amplitude)
	assert.Equal(t, 90.0, s.DistanceTraveled)
	assert.Equal(t, 800.0, s.PeakVelocity)
	assert.InDelta(t, 600.0, s.MeanVelocity, 1e-12)
	assert.Len(t, s.Points, 3)

	_, ok = buildSaccade(points[:1])
	assert.False(t, ok)
}
