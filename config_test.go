package snapshot

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	want := RequestConfig{
		EffectMode:       EffectNone,
		EffectFactor:     1,
		ColorMode:        ColorMultiply,
		ColorFactor:      1,
		EffectColor:      Color{1, 1, 1, 1},
		BlurMode:         BlurFast,
		BlurFactor:       1,
		BlurIterations:   2,
		DownSamplingRate: SamplingX2,
		ReductionRate:    SamplingX2,
		FilterMode:       FilterBilinear,
	}
	if cfg != want {
		t.Errorf("DefaultConfig() = %+v, want %+v", cfg, want)
	}
}

func TestConfigSettersClamp(t *testing.T) {
	var cfg RequestConfig

	tests := []struct {
		name string
		set  func()
		got  func() float32
		want float32
	}{
		{"effect factor high", func() { cfg.SetEffectFactor(2) }, func() float32 { return cfg.EffectFactor }, 1},
		{"effect factor low", func() { cfg.SetEffectFactor(-1) }, func() float32 { return cfg.EffectFactor }, 0},
		{"effect factor NaN", func() { cfg.SetEffectFactor(float32(math.NaN())) }, func() float32 { return cfg.EffectFactor }, 0},
		{"color factor", func() { cfg.SetColorFactor(0.25) }, func() float32 { return cfg.ColorFactor }, 0.25},
		{"blur factor high", func() { cfg.SetBlurFactor(10) }, func() float32 { return cfg.BlurFactor }, 4},
		{"blur factor in range", func() { cfg.SetBlurFactor(2.5) }, func() float32 { return cfg.BlurFactor }, 2.5},
		{"blur iterations high", func() { cfg.SetBlurIterations(20) }, func() float32 { return float32(cfg.BlurIterations) }, 8},
		{"blur iterations low", func() { cfg.SetBlurIterations(0) }, func() float32 { return float32(cfg.BlurIterations) }, 1},
		{"color component", func() { cfg.SetEffectColor(Color{R: 2, G: -1, B: 0.5, A: 1}) }, func() float32 { return cfg.EffectColor.R + cfg.EffectColor.G }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.set()
			if got := tt.got(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigNormalized(t *testing.T) {
	cfg := RequestConfig{
		EffectMode:       EffectMode(9),
		EffectFactor:     3,
		ColorMode:        ColorMode(7),
		BlurMode:         BlurMode(4),
		BlurFactor:       -2,
		BlurIterations:   100,
		DownSamplingRate: SamplingRate(3),
		ReductionRate:    SamplingX4,
		FilterMode:       FilterMode(5),
	}
	n := cfg.Normalized()

	if n.EffectMode != EffectNone || n.ColorMode != ColorMultiply || n.BlurMode != BlurNone {
		t.Errorf("Normalized() modes = %v/%v/%v, want None/Multiply/None", n.EffectMode, n.ColorMode, n.BlurMode)
	}
	if n.DownSamplingRate != SamplingNone || n.ReductionRate != SamplingX4 {
		t.Errorf("Normalized() rates = %v/%v, want None/x4", n.DownSamplingRate, n.ReductionRate)
	}
	if n.FilterMode != FilterPoint {
		t.Errorf("Normalized().FilterMode = %v, want Point", n.FilterMode)
	}
	if n.EffectFactor != 1 || n.BlurFactor != 0 || n.BlurIterations != 8 {
		t.Errorf("Normalized() factors = %v/%v/%d, want 1/0/8", n.EffectFactor, n.BlurFactor, n.BlurIterations)
	}
	if n.Normalized() != n {
		t.Error("Normalized() is not idempotent")
	}
}

func TestMaterialHash(t *testing.T) {
	tests := []struct {
		effect EffectMode
		color  ColorMode
		blur   BlurMode
		want   uint16
	}{
		{EffectNone, ColorMultiply, BlurNone, 0},
		{EffectNone, ColorMultiply, BlurFast, 0x001},
		{EffectSepia, ColorAdd, BlurMedium, 0x222},
		{EffectPixel, ColorSubtract, BlurDetail, 0x433},
	}
	for _, tt := range tests {
		cfg := RequestConfig{EffectMode: tt.effect, ColorMode: tt.color, BlurMode: tt.blur}
		if got := cfg.MaterialHash(); got != tt.want {
			t.Errorf("MaterialHash(%v,%v,%v) = %#x, want %#x", tt.effect, tt.color, tt.blur, got, tt.want)
		}
	}
}

func TestMaterialHashIgnoresFactors(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.SetEffectFactor(0.1)
	b.SetBlurFactor(3)
	b.SetBlurIterations(7)
	b.SetEffectColor(Color{R: 0.2, A: 1})
	if a.MaterialHash() != b.MaterialHash() {
		t.Errorf("MaterialHash differs by factors: %#x vs %#x", a.MaterialHash(), b.MaterialHash())
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		cfg  RequestConfig
		want []string
	}{
		{RequestConfig{}, []string{}},
		{DefaultConfig(), []string{"FAST"}},
		{RequestConfig{EffectMode: EffectSepia, ColorMode: ColorFill, BlurMode: BlurDetail}, []string{"SEPIA", "FILL", "DETAIL"}},
		{RequestConfig{EffectMode: EffectNega, ColorMode: ColorSubtract}, []string{"NEGA", "SUBTRACT"}},
	}
	for _, tt := range tests {
		if got := tt.cfg.Keywords(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Keywords(%v/%v/%v) = %v, want %v",
				tt.cfg.EffectMode, tt.cfg.ColorMode, tt.cfg.BlurMode, got, tt.want)
		}
	}
}

func TestParseKeywordsInvertsKeywords(t *testing.T) {
	for e := EffectNone; e <= EffectPixel; e++ {
		for c := ColorMultiply; c <= ColorSubtract; c++ {
			for b := BlurNone; b <= BlurDetail; b++ {
				cfg := RequestConfig{EffectMode: e, ColorMode: c, BlurMode: b}
				ge, gc, gb, err := ParseKeywords(cfg.Keywords())
				if err != nil || ge != e || gc != c || gb != b {
					t.Errorf("ParseKeywords(%v) = %v/%v/%v, %v; want %v/%v/%v",
						cfg.Keywords(), ge, gc, gb, err, e, c, b)
				}
			}
		}
	}

	for _, kw := range []string{"NONE", "GLOW", ""} {
		if _, _, _, err := ParseKeywords([]string{kw}); !errors.Is(err, ErrUnknownName) {
			t.Errorf("ParseKeywords(%q) error = %v, want %v", kw, err, ErrUnknownName)
		}
	}
}

func TestModeText(t *testing.T) {
	var e EffectMode
	if err := e.UnmarshalText([]byte("sepia")); err != nil || e != EffectSepia {
		t.Errorf("EffectMode.UnmarshalText(sepia) = %v, %v; want Sepia, nil", e, err)
	}
	var b BlurMode
	if err := b.UnmarshalText([]byte("Detail")); err != nil || b != BlurDetail {
		t.Errorf("BlurMode.UnmarshalText(Detail) = %v, %v; want Detail, nil", b, err)
	}
	var r SamplingRate
	if err := r.UnmarshalText([]byte("X4")); err != nil || r != SamplingX4 {
		t.Errorf("SamplingRate.UnmarshalText(X4) = %v, %v; want x4, nil", r, err)
	}
	var f FilterMode
	if err := f.UnmarshalText([]byte("Trilinear")); err != nil || f != FilterTrilinear {
		t.Errorf("FilterMode.UnmarshalText(Trilinear) = %v, %v; want Trilinear, nil", f, err)
	}

	var c ColorMode
	if err := c.UnmarshalText([]byte("Screen")); !errors.Is(err, ErrUnknownName) {
		t.Errorf("ColorMode.UnmarshalText(Screen) error = %v, want ErrUnknownName", err)
	}
	if err := r.UnmarshalText([]byte("x3")); !errors.Is(err, ErrUnknownName) {
		t.Errorf("SamplingRate.UnmarshalText(x3) error = %v, want ErrUnknownName", err)
	}

	if got, _ := EffectNega.MarshalText(); string(got) != "Nega" {
		t.Errorf("EffectNega.MarshalText() = %s, want Nega", got)
	}
	if got := EffectMode(42).String(); got != "EffectMode(42)" {
		t.Errorf("EffectMode(42).String() = %s", got)
	}
	if got := SamplingNone.String(); got != "None" {
		t.Errorf("SamplingNone.String() = %s, want None", got)
	}
}
