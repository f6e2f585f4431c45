package gaze

import "math"

// Distance returns the Euclidean distance between a and b in pixels.
func Distance(a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Centroid returns the integer centroid of positions, truncating the mean
// toward zero. It returns the zero Point for an empty slice.
func Centroid(positions []Point) Point {
	if len(positions) == 0 {
		return Point{}
	}
	var sx, sy int
	for _, p := range positions {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(positions))
	return Point{X: int(float64(sx) / n), Y: int(float64(sy) / n)}
}

// PathLength sums the distances between consecutive positions.
func PathLength(positions []Point) float64 {
	total := 0.0
	for i := 1; i < len(positions); i++ {
		total += Distance(positions[i-1], positions[i])
	}
	return total
}

// Quantize snaps p to the origin of its size×size bucket using floor
// division, so negative coordinates land in the bucket below zero.
func Quantize(p Point, size int) Point {
	if size <= 0 {
		return p
	}
	return Point{X: floorDiv(p.X, size) * size, Y: floorDiv(p.Y, size) * size}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
