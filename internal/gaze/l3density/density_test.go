package l3density

import (
	"context"
	"math"
	"testing"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDefaultParams(t *testing.T) {
	assert.Equal(t, Params{GridSize: 2, Sigma: 50, BlurSigma: 2, VisibilityFloor: 0.01}, DefaultParams())
}

func TestGenerateGridDimensions(t *testing.T) {
	m, err := Generate(context.Background(), nil, 801, 600, DefaultParams(), nil)
	require.NoError(t, err)
	assert.Equal(t, 300, m.Rows)
	assert.Equal(t, 400, m.Cols)
	assert.Equal(t, 2, m.GridSize)
	assert.Zero(t, m.Max(), "no points yields an all-zero map")
}

func TestGenerateTinyScreen(t *testing.T) {
	m, err := Generate(context.Background(), []gaze.Point{{X: 0, Y: 0}}, 1, 1, DefaultParams(), nil)
	require.NoError(t, err)
	assert.Zero(t, m.Rows)
	assert.Nil(t, m.Values)
	assert.Zero(t, m.At(0, 0))
}

func TestGenerateRejectsNonPositiveSigma(t *testing.T) {
	p := DefaultParams()
	p.Sigma = 0
	_, err := Generate(context.Background(), nil, 100, 100, p, nil)
	assert.Error(t, err)
}

func TestGenerateSinglePoint(t *testing.T) {
	p := DefaultParams()
	p.Sigma = 10
	m, err := Generate(context.Background(), []gaze.Point{{X: 100, Y: 60}}, 200, 120, p, nil)
	require.NoError(t, err)

	rows, cols := m.Values.Dims()
	require.Equal(t, 60, rows)
	require.Equal(t, 100, cols)

	// Peak stays on the point's cell and the field is symmetric about it.
	peakR, peakC := 0, 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := m.At(r, c)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0+1e-12)
			if v > m.At(peakR, peakC) {
				peakR, peakC = r, c
			}
		}
	}
	assert.Equal(t, 30, peakR)
	assert.Equal(t, 50, peakC)
	assert.InDelta(t, m.At(30, 45), m.At(30, 55), 1e-12)
	assert.InDelta(t, m.At(25, 50), m.At(35, 50), 1e-12)
	assert.Greater(t, m.At(30, 50), m.At(30, 60))
}

func TestGenerateProgressCallback(t *testing.T) {
	points := []gaze.Point{{X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}}
	var calls [][2]int
	_, err := Generate(context.Background(), points, 64, 64, DefaultParams(), func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := Generate(ctx, []gaze.Point{{X: 1, Y: 1}}, 64, 64, DefaultParams(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, m)
}

func TestGenerateCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	points := make([]gaze.Point, 10)

	seen := 0
	m, err := Generate(ctx, points, 64, 64, DefaultParams(), func(done, total int) {
		seen = done
		if done == 4 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, m)
	assert.Equal(t, 4, seen)
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{-1, 4, 0},
		{-2, 4, 1},
		{4, 4, 3},
		{5, 4, 2},
		{7, 4, 0},
		{8, 4, 0},
		{-5, 4, 3},
		{-3, 1, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, reflectIndex(tc.i, tc.n), "reflectIndex(%d, %d)", tc.i, tc.n)
	}
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(2)
	assert.Len(t, k, 17)
	sum := 0.0
	for i, w := range k {
		sum += w
		assert.InDelta(t, w, k[len(k)-1-i], 1e-15)
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Equal(t, k[8], maxOf(k))
}

func maxOf(v []float64) float64 {
	m := math.Inf(-1)
	for _, x := range v {
		m = math.Max(m, x)
	}
	return m
}

func TestGaussianBlurConstantField(t *testing.T) {
	src := mat.NewDense(5, 7, nil)
	for r := 0; r < 5; r++ {
		for c := 0; c < 7; c++ {
			src.Set(r, c, 0.5)
		}
	}
	dst := gaussianBlur(src, 2)
	for r := 0; r < 5; r++ {
		for c := 0; c < 7; c++ {
			assert.InDelta(t, 0.5, dst.At(r, c), 1e-12)
		}
	}
}

func TestGaussianBlurPreservesInteriorMass(t *testing.T) {
	src := mat.NewDense(41, 41, nil)
	src.Set(20, 20, 1)
	dst := gaussianBlur(src, 2)
	assert.InDelta(t, 1.0, mat.Sum(dst), 1e-12)
	assert.Less(t, dst.At(20, 20), 1.0)
	assert.InDelta(t, dst.At(18, 20), dst.At(20, 22), 1e-15)
}

func TestGaussianBlurDisabled(t *testing.T) {
	src := mat.NewDense(2, 2, []float64{1, 0, 0, 0})
	assert.Same(t, src, gaussianBlur(src, 0))
}
