package snapshot

import (
	"math"
	"math/bits"

	"github.com/chewxy/math32"
)

// MinReferenceSize is the smallest reference dimension accepted by
// SamplingSize. Preview sources may report stale or zero sizes.
const MinReferenceSize = 64

// SamplingSize computes the buffer size for a sampling rate relative to a
// reference resolution.
//
// Both reference dimensions are first clamped to MinReferenceSize. With
// SamplingNone the clamped reference is returned unchanged. Otherwise the
// shorter side is divided by the rate and snapped to the closest power of
// two, and the longer side is recomputed from the reference aspect ratio,
// rounded up. A square reference is treated as landscape.
//
//	SamplingSize(SamplingX2, 1920, 1080) // 911, 512
//	SamplingSize(SamplingX2, 1080, 1920) // 512, 911
func SamplingSize(rate SamplingRate, w, h int) (width, height int) {
	w = max(w, MinReferenceSize)
	h = max(h, MinReferenceSize)
	if rate == SamplingNone || !rate.Valid() {
		return w, h
	}

	div := int(rate)
	if w < h {
		// Portrait: snap width, derive height.
		aspect := float32(h) / float32(w)
		width = ClosestPowerOfTwo(w / div)
		height = int(math32.Ceil(float32(width) * aspect))
		return width, height
	}
	aspect := float32(w) / float32(h)
	height = ClosestPowerOfTwo(h / div)
	width = int(math32.Ceil(float32(height) * aspect))
	return width, height
}

// ClosestPowerOfTwo returns the power of two nearest to v. Ties round up.
// Values below 1 return 1; values past the largest representable power of
// two return that power.
func ClosestPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	lo := 1 << (bits.Len(uint(v)) - 1)
	if lo == v || lo > math.MaxInt/2 {
		return lo
	}
	hi := lo << 1
	if v-lo < hi-v {
		return lo
	}
	return hi
}
