package l3density

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// truncate is the kernel half-width in standard deviations.
const truncate = 4.0

// gaussianKernel returns a normalised 1-D kernel of radius
// int(truncate*sigma + 0.5).
func gaussianKernel(sigma float64) []float64 {
	radius := int(truncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		k[i+radius] = w
		sum += w
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflectIndex maps i into [0, n) by mirroring about the edges with the
// edge sample repeated: (d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// gaussianBlur applies a separable isotropic Gaussian blur with reflected
// boundaries. sigma is in cells; a non-positive sigma returns src.
func gaussianBlur(src *mat.Dense, sigma float64) *mat.Dense {
	if sigma <= 0 {
		return src
	}
	rows, cols := src.Dims()
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	tmp := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		in := src.RawRowView(r)
		out := tmp.RawRowView(r)
		for c := 0; c < cols; c++ {
			acc := 0.0
			for k, w := range kernel {
				acc += w * in[reflectIndex(c+k-radius, cols)]
			}
			out[c] = acc
		}
	}

	dst := mat.NewDense(rows, cols, nil)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			acc := 0.0
			for k, w := range kernel {
				acc += w * tmp.At(reflectIndex(r+k-radius, rows), c)
			}
			dst.Set(r, c, acc)
		}
	}
	return dst
}
