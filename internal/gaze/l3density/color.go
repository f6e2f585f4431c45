package l3density

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

type colorStop struct {
	at      float64
	r, g, b float64
}

// gradient runs blue, cyan, green, yellow, red at equal spacing.
var gradient = [...]colorStop{
	{0, 0, 0, 255},
	{0.25, 0, 255, 255},
	{0.5, 0, 255, 0},
	{0.75, 255, 255, 0},
	{1, 255, 0, 0},
}

// IntensityToColor maps an intensity to the heatmap gradient as a
// non-premultiplied colour. The input is clamped to [0,1]; channels are
// interpolated linearly between stops and truncated. Alpha ramps to opaque
// at two thirds intensity.
func IntensityToColor(v float64) color.NRGBA {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	for i := 0; i < len(gradient)-1; i++ {
		lo, hi := gradient[i], gradient[i+1]
		if v > hi.at {
			continue
		}
		t := (v - lo.at) / (hi.at - lo.at)
		return color.NRGBA{
			R: uint8(lo.r + t*(hi.r-lo.r)),
			G: uint8(lo.g + t*(hi.g-lo.g)),
			B: uint8(lo.b + t*(hi.b-lo.b)),
			A: uint8(255 * math.Min(1, v*1.5)),
		}
	}
	return color.NRGBA{R: 255, A: 255}
}

// Cell is one visible grid cell of a rendered density map.
type Cell struct {
	Row   int
	Col   int
	Color color.NRGBA
}

// Rendering is the colourised form of a DensityMap: only cells above the
// visibility floor are present, in row-major order.
type Rendering struct {
	Width    int
	Height   int
	GridSize int
	Cells    []Cell
}

// Render colourises m, skipping cells at or below p.VisibilityFloor.
func Render(m *DensityMap, p Params) *Rendering {
	out := &Rendering{
		Width:    m.Cols * m.GridSize,
		Height:   m.Rows * m.GridSize,
		GridSize: m.GridSize,
	}
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v := m.At(r, c)
			if v <= p.VisibilityFloor {
				continue
			}
			out.Cells = append(out.Cells, Cell{Row: r, Col: c, Color: IntensityToColor(v)})
		}
	}
	return out
}

// Image rasterises the rendering onto a transparent NRGBA image, one
// GridSize square per cell.
func (r *Rendering) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for _, cell := range r.Cells {
		x0, y0 := cell.Col*r.GridSize, cell.Row*r.GridSize
		rect := image.Rect(x0, y0, x0+r.GridSize, y0+r.GridSize)
		draw.Draw(img, rect, &image.Uniform{C: cell.Color}, image.Point{}, draw.Src)
	}
	return img
}
