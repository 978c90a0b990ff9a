package filter

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
)

// minCells is the smallest mosaic grid along either axis.
const minCells = 2

// PixelCells returns the mosaic grid of a w x h image. factor 0 keeps one
// cell per pixel; factor 1 leaves 5% of the pixels along each axis.
func PixelCells(w, h int, factor float32) (cols, rows int) {
	scale := 1 - math32.Min(math32.Max(factor, 0), 1)*0.95
	cols = max(minCells, int(math32.Round(scale*float32(w))))
	rows = max(minCells, int(math32.Round(scale*float32(h))))
	return min(cols, w), min(rows, h)
}

// Pixelate replaces img in place with a mosaic: each cell takes the box
// average of the pixels it covers.
func Pixelate(img *image.RGBA, factor float32) {
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	cols, rows := PixelCells(w, h, factor)
	if cols >= w && rows >= h {
		return
	}

	small := transform.Resize(img, cols, rows, transform.Box)
	big := transform.Resize(small, w, h, transform.NearestNeighbor)
	draw.Draw(img, img.Rect, big, image.Point{}, draw.Src)
}
