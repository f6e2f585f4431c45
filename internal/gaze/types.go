package gaze

import "fmt"

// Point is an integer screen position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// EyePosition is one eye's gaze location in normalized display
// coordinates. Valid is false when the tracker reported no position
// (blink, lost eye).
type EyePosition struct {
	X     float64
	Y     float64
	Valid bool
}

// Eye builds a valid EyePosition.
func Eye(x, y float64) EyePosition {
	return EyePosition{X: x, Y: y, Valid: true}
}

// InUnitRange reports whether both coordinates lie in [0,1].
func (e EyePosition) InUnitRange() bool {
	return e.X >= 0 && e.X <= 1 && e.Y >= 0 && e.Y <= 1
}

// Sample is one raw binocular measurement pushed by the device feed.
// It is not retained after processing.
type Sample struct {
	Left  EyePosition
	Right EyePosition
}

// GazePoint is a fused, time-stamped, velocity-annotated gaze position.
// Timestamp is seconds since the Unix epoch; Velocity is in px/s.
type GazePoint struct {
	Timestamp float64 `json:"timestamp"`
	Position  Point   `json:"position"`
	Velocity  float64 `json:"velocity"`
}

// Positions extracts the positions of points, preserving order.
func Positions(points []GazePoint) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Position
	}
	return out
}

// Velocities extracts the velocities of points, preserving order.
func Velocities(points []GazePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Velocity
	}
	return out
}
