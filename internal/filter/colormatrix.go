package filter

import "image"

// ColorMatrix is a 4x5 color transformation applied to straight-alpha
// values in the [0, 255] range:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Row-major: [0-4] = R, [5-9] = G, [10-14] = B, [15-19] = A.
type ColorMatrix [20]float32

// Rec. 709 luminance weights.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// IdentityMatrix passes colors through unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// GrayscaleMatrix replaces color with its luminance.
func GrayscaleMatrix() ColorMatrix {
	return ColorMatrix{
		lumR, lumG, lumB, 0, 0,
		lumR, lumG, lumB, 0, 0,
		lumR, lumG, lumB, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SepiaMatrix applies a sepia tone.
func SepiaMatrix() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// NegativeMatrix inverts color channels, leaving alpha.
func NegativeMatrix() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}
}

// Blend returns the matrix interpolated from identity (t = 0) to m (t = 1).
func (m ColorMatrix) Blend(t float32) ColorMatrix {
	id := IdentityMatrix()
	var out ColorMatrix
	for i := range out {
		out[i] = id[i] + (m[i]-id[i])*t
	}
	return out
}

// Multiply returns the matrix that applies m first, then other.
func (m ColorMatrix) Multiply(other ColorMatrix) ColorMatrix {
	var r ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += other[row*5+k] * m[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = other[row*5+0]*m[4] + other[row*5+1]*m[9] +
			other[row*5+2]*m[14] + other[row*5+3]*m[19] + other[row*5+4]
	}
	return r
}

// Transform applies m to one straight-alpha color.
func (m *ColorMatrix) Transform(r, g, b, a float32) (float32, float32, float32, float32) {
	return m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4],
		m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9],
		m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14],
		m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]
}

// Apply transforms every pixel of img in place.
func (m ColorMatrix) Apply(img *image.RGBA) {
	if img == nil {
		return
	}
	forEachStraight(img, func(r, g, b, a float32) (float32, float32, float32, float32) {
		return m.Transform(r, g, b, a)
	})
}

// forEachStraight un-premultiplies each pixel, passes it to fn and stores
// the premultiplied, clamped result.
func forEachStraight(img *image.RGBA, fn func(r, g, b, a float32) (float32, float32, float32, float32)) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			a := float32(row[i+3])
			var r, g, b float32
			if a > 0 {
				r = float32(row[i+0]) * 255 / a
				g = float32(row[i+1]) * 255 / a
				b = float32(row[i+2]) * 255 / a
			}

			r, g, b, a = fn(r, g, b, a)

			a = clamp255(a)
			if a > 0 {
				k := a / 255
				r, g, b = clamp255(r)*k, clamp255(g)*k, clamp255(b)*k
			} else {
				r, g, b = 0, 0, 0
			}
			row[i+0] = toUint8(r)
			row[i+1] = toUint8(g)
			row[i+2] = toUint8(b)
			row[i+3] = toUint8(a)
		}
	}
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// toUint8 rounds a value already in [0, 255].
func toUint8(v float32) uint8 {
	return uint8(v + 0.5)
}
