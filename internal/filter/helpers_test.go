package filter

import (
	"image"
	"image/color"
)

// Test helper functions shared across filter tests.

// newUniform creates a w x h image filled with c (premultiplied).
func newUniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// near reports whether a and b differ by at most tol per channel.
func near(a, b color.RGBA, tol int) bool {
	return absInt(int(a.R)-int(b.R)) <= tol &&
		absInt(int(a.G)-int(b.G)) <= tol &&
		absInt(int(a.B)-int(b.B)) <= tol &&
		absInt(int(a.A)-int(b.A)) <= tol
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
