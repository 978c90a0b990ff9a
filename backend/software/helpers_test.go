package software

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/snapshot"
)

// uniformImage creates a w x h image filled with c.
func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// checkUniform fails the test unless every pixel of img is within tol of want.
func checkUniform(t *testing.T, img *image.RGBA, want color.RGBA, tol int) {
	t.Helper()
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			got := img.RGBAAt(x, y)
			if diff(got.R, want.R) > tol || diff(got.G, want.G) > tol ||
				diff(got.B, want.B) > tol || diff(got.A, want.A) > tol {
				t.Fatalf("pixel (%d,%d) = %v, want %v (±%d)", x, y, got, want, tol)
			}
		}
	}
}

func diff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// foreignTexture is a texture from some other backend.
type foreignTexture struct{}

func (foreignTexture) Width() int  { return 4 }
func (foreignTexture) Height() int { return 4 }
func (foreignTexture) Format() gputypes.TextureFormat {
	return snapshot.OutputFormat
}
func (foreignTexture) Destroy() {}
