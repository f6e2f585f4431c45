package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/banshee-data/gaze.report/internal/gaze/l3density"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyMap is returned when a density map has no cells to draw.
var ErrEmptyMap = errors.New("density map has no cells")

// paletteSize is the number of discrete colours sampled from the gradient.
const paletteSize = 256

// densityGrid adapts a DensityMap to plotter.GridXYZ. Plot rows run
// bottom-up while screen rows run top-down, so row r reads screen row
// Rows-1-r and Y is the negated screen y. Cells at or below the
// visibility floor read as NaN so they stay transparent, matching
// l3density.Render.
type densityGrid struct {
	m     *l3density.DensityMap
	floor float64
}

func (g densityGrid) Dims() (c, r int) { return g.m.Cols, g.m.Rows }

func (g densityGrid) Z(c, r int) float64 {
	v := g.m.At(g.m.Rows-1-r, c)
	if v <= g.floor {
		return math.NaN()
	}
	return v
}

func (g densityGrid) X(c int) float64 {
	return (float64(c) + 0.5) * float64(g.m.GridSize)
}

func (g densityGrid) Y(r int) float64 {
	return -(float64(g.m.Rows-1-r) + 0.5) * float64(g.m.GridSize)
}

func (g densityGrid) Min() float64 { return 0 }
func (g densityGrid) Max() float64 { return 1 }

// screenTicks labels a negated y axis with positive screen coordinates.
type screenTicks struct{}

func (screenTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = strconv.FormatFloat(math.Abs(ticks[i].Value), 'f', -1, 64)
		}
	}
	return ticks
}

// gradientPalette samples l3density.IntensityToColor at n evenly spaced
// intensities.
type gradientPalette int

func (n gradientPalette) Colors() []color.Color {
	out := make([]color.Color, int(n))
	for i := range out {
		out[i] = l3density.IntensityToColor(float64(i) / float64(int(n)-1))
	}
	return out
}

// SaveDensityPNG draws m as a heat map labelled in screen coordinates and
// writes it to path. The file format follows the extension.
func SaveDensityPNG(path string, m *l3density.DensityMap, p l3density.Params) error {
	if m == nil || m.Values == nil {
		return ErrEmptyMap
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Gaze density (%dx%d px, sigma %.0f px)", m.Cols*m.GridSize, m.Rows*m.GridSize, p.Sigma)
	pl.X.Label.Text = "x (px)"
	pl.Y.Label.Text = "y (px)"
	pl.Y.Tick.Marker = screenTicks{}

	hm := plotter.NewHeatMap(densityGrid{m: m, floor: p.VisibilityFloor}, gradientPalette(paletteSize))
	hm.NaN = color.Transparent
	hm.Overflow = l3density.IntensityToColor(1)
	hm.Rasterized = true
	pl.Add(hm)

	width := 12 * vg.Inch
	height := width * vg.Length(m.Rows) / vg.Length(m.Cols)
	if err := pl.Save(width, height+vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save density plot: %w", err)
	}
	return nil
}
