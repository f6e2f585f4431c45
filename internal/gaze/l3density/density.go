package l3density

import (
	"context"
	"fmt"
	"math"

	"github.com/banshee-data/gaze.report/internal/config"
	"github.com/banshee-data/gaze.report/internal/gaze"
	"gonum.org/v1/gonum/mat"
)

// Params controls density generation and rendering.
type Params struct {
	GridSize        int     // Pixels per grid cell edge
	Sigma           float64 // Kernel standard deviation (px)
	BlurSigma       float64 // Post-normalisation blur standard deviation (cells)
	VisibilityFloor float64 // Cells at or below this intensity are not rendered
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return ParamsFromTuning(config.EmptyTuningConfig())
}

// ParamsFromTuning builds Params from a loaded TuningConfig.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	return Params{
		GridSize:        cfg.GetDensityGridSize(),
		Sigma:           cfg.GetDensitySigma(),
		BlurSigma:       cfg.GetDensityBlurSigma(),
		VisibilityFloor: cfg.GetDensityVisibilityFloor(),
	}
}

// DensityMap is a normalised, smoothed density grid. Values is nil when
// the screen is smaller than one cell. A published map is read-only.
type DensityMap struct {
	Rows     int
	Cols     int
	GridSize int
	Values   *mat.Dense
}

// At returns the intensity of cell (row, col).
func (m *DensityMap) At(row, col int) float64 {
	if m.Values == nil {
		return 0
	}
	return m.Values.At(row, col)
}

// Max returns the largest cell intensity, or 0 for an empty grid.
func (m *DensityMap) Max() float64 {
	if m.Values == nil {
		return 0
	}
	return mat.Max(m.Values)
}

// Generate estimates the gaze density over a width×height screen.
//
// Every point adds an unbounded isotropic Gaussian centred on its grid
// coordinate. The accumulated grid is scaled so its maximum is 1 and then
// blurred. ctx is checked before each point is accumulated; on
// cancellation no map is returned. progress, if non-nil, is called after
// each point with the number of points done so far.
func Generate(ctx context.Context, points []gaze.Point, width, height int, p Params, progress func(done, total int)) (*DensityMap, error) {
	if !(p.Sigma > 0) {
		return nil, fmt.Errorf("density sigma must be positive, got %v", p.Sigma)
	}
	g := p.GridSize
	if g <= 0 {
		g = 1
	}
	m := &DensityMap{Rows: height / g, Cols: width / g, GridSize: g}
	if m.Rows <= 0 || m.Cols <= 0 {
		m.Rows, m.Cols = 0, 0
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return m, nil
	}

	grid := make([]float64, m.Rows*m.Cols)
	sigma := p.Sigma / float64(g)
	denom := 2.0 * sigma * sigma

	for i, pt := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gx := float64(pt.X) / float64(g)
		gy := float64(pt.Y) / float64(g)
		for r := 0; r < m.Rows; r++ {
			dy := float64(r) - gy
			row := grid[r*m.Cols : (r+1)*m.Cols]
			for c := range row {
				dx := float64(c) - gx
				row[c] += math.Exp(-(dx*dx + dy*dy) / denom)
			}
		}
		if progress != nil {
			progress(i+1, len(points))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := mat.NewDense(m.Rows, m.Cols, grid)
	if peak := mat.Max(values); peak > 0 {
		values.Scale(1/peak, values)
	}
	m.Values = gaussianBlur(values, p.BlurSigma)
	return m, nil
}
