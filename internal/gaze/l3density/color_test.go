package l3density

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestIntensityToColorStops(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want color.NRGBA
	}{
		{"zero is transparent blue", 0, color.NRGBA{0, 0, 255, 0}},
		{"quarter is cyan", 0.25, color.NRGBA{0, 255, 255, 95}},
		{"half is green", 0.5, color.NRGBA{0, 255, 0, 191}},
		{"three quarters is yellow", 0.75, color.NRGBA{255, 255, 0, 255}},
		{"one is red", 1, color.NRGBA{255, 0, 0, 255}},
		{"between blue and cyan", 0.125, color.NRGBA{0, 127, 255, 47}},
		{"clamped below", -3, color.NRGBA{0, 0, 255, 0}},
		{"clamped above", 7, color.NRGBA{255, 0, 0, 255}},
		{"NaN treated as zero", math.NaN(), color.NRGBA{0, 0, 255, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IntensityToColor(tc.v))
		})
	}
}

func TestIntensityToColorMonotoneAlpha(t *testing.T) {
	prev := uint8(0)
	for i := 0; i <= 100; i++ {
		c := IntensityToColor(float64(i) / 100)
		assert.GreaterOrEqual(t, c.A, prev)
		prev = c.A
	}
}

func TestRenderSkipsFaintCells(t *testing.T) {
	m := &DensityMap{
		Rows:     2,
		Cols:     3,
		GridSize: 4,
		Values: mat.NewDense(2, 3, []float64{
			0, 0.01, 0.02,
			0.5, 1, 0.005,
		}),
	}

	r := Render(m, DefaultParams())

	assert.Equal(t, 12, r.Width)
	assert.Equal(t, 8, r.Height)
	require.Len(t, r.Cells, 3)
	assert.Equal(t, Cell{Row: 0, Col: 2, Color: IntensityToColor(0.02)}, r.Cells[0])
	assert.Equal(t, Cell{Row: 1, Col: 0, Color: IntensityToColor(0.5)}, r.Cells[1])
	assert.Equal(t, Cell{Row: 1, Col: 1, Color: IntensityToColor(1)}, r.Cells[2])
}

func TestRenderingImage(t *testing.T) {
	m := &DensityMap{Rows: 1, Cols: 2, GridSize: 3, Values: mat.NewDense(1, 2, []float64{0, 1})}
	img := Render(m, DefaultParams()).Image()

	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, img.NRGBAAt(4, 2))
}
