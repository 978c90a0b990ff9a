package filter

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/gogpu/snapshot/internal/parallel"
)

// Directional applies one step of a separable blur: each destination pixel
// is the kernel-weighted sum of source samples taken at multiples of
// (dx, dy) pixels from it. Samples between pixels are bilinearly
// interpolated and coordinates clamp to the edge.
//
// src and dst must have the same size and must not alias. A zero
// direction copies src.
func Directional(src, dst *image.RGBA, dx, dy float32, kernel []float32) {
	DirectionalOn(nil, src, dst, dx, dy, kernel)
}

// DirectionalOn is Directional with the rows split into bands run on p.
// A nil pool runs on the caller.
func DirectionalOn(p *parallel.Pool, src, dst *image.RGBA, dx, dy float32, kernel []float32) {
	if src == nil || dst == nil {
		return
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if dst.Rect.Dx() != w || dst.Rect.Dy() != h || w == 0 || h == 0 {
		return
	}
	if (dx == 0 && dy == 0) || len(kernel) <= 1 {
		copyRGBA(src, dst)
		return
	}

	p.Bands(h, func(y0, y1 int) {
		directionalRows(src, dst, dx, dy, kernel, y0, y1)
	})
}

// directionalRows blurs destination rows [y0, y1).
func directionalRows(src, dst *image.RGBA, dx, dy float32, kernel []float32, y0, y1 int) {
	w := src.Rect.Dx()
	half := len(kernel) / 2
	for y := y0; y < y1; y++ {
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				t := float32(k - half)
				sr, sg, sb, sa := sampleBilinear(src, float32(x)+t*dx, float32(y)+t*dy)
				r += sr * weight
				g += sg * weight
				b += sb * weight
				a += sa * weight
			}
			i := x * 4
			out[i+0] = toUint8(clamp255(r))
			out[i+1] = toUint8(clamp255(g))
			out[i+2] = toUint8(clamp255(b))
			out[i+3] = toUint8(clamp255(a))
		}
	}
}

// sampleBilinear reads src at a fractional pixel position with edge clamp.
func sampleBilinear(src *image.RGBA, fx, fy float32) (r, g, b, a float32) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	fx = math32.Min(math32.Max(fx, 0), float32(w-1))
	fy = math32.Min(math32.Max(fy, 0), float32(h-1))

	x0, y0 := int(fx), int(fy)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	tx, ty := fx-float32(x0), fy-float32(y0)

	p00 := src.Pix[y0*src.Stride+x0*4:]
	p10 := src.Pix[y0*src.Stride+x1*4:]
	p01 := src.Pix[y1*src.Stride+x0*4:]
	p11 := src.Pix[y1*src.Stride+x1*4:]

	lerp := func(c int) float32 {
		top := float32(p00[c]) + (float32(p10[c])-float32(p00[c]))*tx
		bot := float32(p01[c]) + (float32(p11[c])-float32(p01[c]))*tx
		return top + (bot-top)*ty
	}
	return lerp(0), lerp(1), lerp(2), lerp(3)
}

// copyRGBA copies src into dst row by row. Both must have the same size.
func copyRGBA(src, dst *image.RGBA) {
	n := src.Rect.Dx() * 4
	for y := 0; y < src.Rect.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+n], src.Pix[y*src.Stride:y*src.Stride+n])
	}
}
