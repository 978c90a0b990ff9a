package filter

import (
	"image/color"
	"testing"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func neutral() [4]float32 { return [4]float32{1, 1, 1, 1} }

func TestApplyEffect(t *testing.T) {
	tests := []struct {
		name string
		in   color.RGBA
		p    Params
		want color.RGBA
	}{
		{"none", red, Params{Factor: 1, Color: neutral()}, red},
		{"grayscale", red, Params{Effect: EffectGrayscale, Factor: 1, Color: neutral()}, color.RGBA{54, 54, 54, 255}},
		{"grayscale factor 0", red, Params{Effect: EffectGrayscale, Factor: 0, Color: neutral()}, red},
		{"sepia white", white, Params{Effect: EffectSepia, Factor: 1, Color: neutral()}, color.RGBA{255, 255, 239, 255}},
		{"nega", red, Params{Effect: EffectNega, Factor: 1, Color: neutral()}, color.RGBA{0, 255, 255, 255}},
		{"nega half", red, Params{Effect: EffectNega, Factor: 0.5, Color: neutral()}, color.RGBA{128, 128, 128, 255}},
		{"multiply", white, Params{ColorOp: ColorMultiply, Color: [4]float32{1, 0.5, 0, 1}}, color.RGBA{255, 128, 0, 255}},
		{"multiply factor 0", white, Params{ColorOp: ColorMultiply, Color: [4]float32{0, 0, 0, 0}}, white},
		{"fill", red, Params{ColorOp: ColorFill, Color: [4]float32{0, 0, 1, 1}}, color.RGBA{0, 0, 255, 255}},
		{"fill half", red, Params{ColorOp: ColorFill, Color: [4]float32{0, 0, 1, 0.5}}, color.RGBA{128, 0, 128, 255}},
		{"add", black, Params{ColorOp: ColorAdd, Color: [4]float32{0, 0.5, 0, 1}}, color.RGBA{0, 128, 0, 255}},
		{"subtract", white, Params{ColorOp: ColorSubtract, Color: [4]float32{1, 0, 0, 1}}, color.RGBA{0, 255, 255, 255}},
		{"transparent stays", color.RGBA{}, Params{Effect: EffectNega, Factor: 1, ColorOp: ColorFill, Color: [4]float32{1, 1, 1, 1}}, color.RGBA{}},
		{"premultiplied", color.RGBA{64, 0, 0, 128}, Params{Effect: EffectNega, Factor: 1, Color: neutral()}, color.RGBA{64, 128, 128, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newUniform(3, 3, tt.in)
			ApplyEffect(img, tt.p)
			if got := img.RGBAAt(1, 1); !near(got, tt.want, 1) {
				t.Errorf("ApplyEffect(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyEffectNil(t *testing.T) {
	ApplyEffect(nil, Params{Effect: EffectPixel, Factor: 1})
}

func BenchmarkApplyEffect(b *testing.B) {
	img := newUniform(256, 256, red)
	p := Params{Effect: EffectSepia, Factor: 0.8, ColorOp: ColorFill, Color: [4]float32{0.2, 0.4, 0.6, 0.3}}
	b.ReportAllocs()
	for b.Loop() {
		ApplyEffect(img, p)
	}
}
