package filter

import (
	"github.com/chewxy/math32"
)

// Blur is a blur kernel size class.
type Blur uint8

// Blur kernels.
const (
	BlurNone Blur = iota
	BlurFast
	BlurMedium
	BlurDetail
)

// Taps per side of the center sample for each blur kernel.
var blurHalfTaps = [...]int{0, 2, 4, 6}

// blurKernels holds the precomputed kernels, indexed by Blur.
var blurKernels = func() [4][]float32 {
	var k [4][]float32
	for i, half := range blurHalfTaps {
		k[i] = GaussianKernel(half, float32(half)/3)
	}
	return k
}()

// Kernel returns the normalized 1D kernel of a blur class. Fast has 5
// taps, Medium 9 and Detail 13; None is the identity kernel. The returned
// slice is shared and must not be modified.
func Kernel(b Blur) []float32 {
	if int(b) >= len(blurKernels) {
		return blurKernels[BlurNone]
	}
	return blurKernels[b]
}

// GaussianKernel generates a 1D Gaussian kernel with half taps on each side
// of the center and standard deviation sigma. The kernel is normalized so
// all values sum to 1.0.
//
// For half <= 0 or sigma <= 0, returns a single-element kernel [1.0]
// (identity).
func GaussianKernel(half int, sigma float32) []float32 {
	if half <= 0 || sigma <= 0 {
		return []float32{1.0}
	}

	size := half*2 + 1
	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels in normalization.
	twoSigmaSq := 2 * sigma * sigma
	var sum float32
	for i := range kernel {
		x := float32(i - half)
		v := math32.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = v
		sum += v
	}

	inv := 1 / sum
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}
