package filter

import "image"

// Effect is a tone effect.
type Effect uint8

// Tone effects.
const (
	EffectNone Effect = iota
	EffectGrayscale
	EffectSepia
	EffectNega
	EffectPixel
)

// ColorOp combines the effect color with the image.
type ColorOp uint8

// Color operations.
const (
	ColorMultiply ColorOp = iota
	ColorFill
	ColorAdd
	ColorSubtract
)

// Params are the inputs of the effect pass.
type Params struct {
	Effect Effect
	// Factor blends the tone effect in [0, 1]. For EffectPixel it sets
	// the mosaic cell size.
	Factor float32

	ColorOp ColorOp
	// Color is the effect color in [0, 1]; Color[3] is the color factor
	// that blends the color operation, not an alpha.
	Color [4]float32
}

// ApplyEffect runs the effect pass on img in place: mosaic or tone
// effect, then the color operation.
func ApplyEffect(img *image.RGBA, p Params) {
	if img == nil {
		return
	}

	if p.Effect == EffectPixel {
		Pixelate(img, p.Factor)
	}

	m := toneMatrix(p.Effect).Blend(p.Factor)
	cr, cg, cb, cf := p.Color[0]*255, p.Color[1]*255, p.Color[2]*255, p.Color[3]
	op := p.ColorOp

	forEachStraight(img, func(r, g, b, a float32) (float32, float32, float32, float32) {
		r, g, b, a = m.Transform(r, g, b, a)
		r = combine(op, r, cr, cf)
		g = combine(op, g, cg, cf)
		b = combine(op, b, cb, cf)
		return r, g, b, a
	})
}

// toneMatrix returns the full-strength matrix of a tone effect. Pixel has
// no color transform.
func toneMatrix(e Effect) ColorMatrix {
	switch e {
	case EffectGrayscale:
		return GrayscaleMatrix()
	case EffectSepia:
		return SepiaMatrix()
	case EffectNega:
		return NegativeMatrix()
	default:
		return IdentityMatrix()
	}
}

// combine applies a color operation to one channel in [0, 255].
func combine(op ColorOp, v, c, factor float32) float32 {
	switch op {
	case ColorFill:
		return v + (c-v)*factor
	case ColorAdd:
		return v + c*factor
	case ColorSubtract:
		return v - c*factor
	default:
		return v + (v*c/255-v)*factor
	}
}
