package snapshot

import "github.com/chewxy/math32"

// Parameter ranges. Setters and Normalize clamp silently into these.
const (
	MinFactor         = 0
	MaxFactor         = 1
	MaxBlurFactor     = 4
	MinBlurIterations = 1
	MaxBlurIterations = 8
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R float32 `toml:"r" json:"r"`
	G float32 `toml:"g" json:"g"`
	B float32 `toml:"b" json:"b"`
	A float32 `toml:"a" json:"a"`
}

// White is the default effect color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// RequestConfig is the serializable parameter set of one capture.
//
// The zero value is not the default configuration; use DefaultConfig.
// Fields may be assigned directly, in which case the scheduler normalizes
// them when the request is built. The Set methods clamp immediately.
type RequestConfig struct {
	EffectMode       EffectMode   `toml:"effect_mode" json:"effect_mode"`
	EffectFactor     float32      `toml:"effect_factor" json:"effect_factor"`
	ColorMode        ColorMode    `toml:"color_mode" json:"color_mode"`
	ColorFactor      float32      `toml:"color_factor" json:"color_factor"`
	EffectColor      Color        `toml:"effect_color" json:"effect_color"`
	BlurMode         BlurMode     `toml:"blur_mode" json:"blur_mode"`
	BlurFactor       float32      `toml:"blur_factor" json:"blur_factor"`
	BlurIterations   int          `toml:"blur_iterations" json:"blur_iterations"`
	DownSamplingRate SamplingRate `toml:"down_sampling_rate" json:"down_sampling_rate"`
	ReductionRate    SamplingRate `toml:"reduction_rate" json:"reduction_rate"`
	FilterMode       FilterMode   `toml:"filter_mode" json:"filter_mode"`
}

// DefaultConfig returns the default capture parameters: fast blur, two
// iterations, half-resolution output and working buffers, bilinear filtering.
func DefaultConfig() RequestConfig {
	return RequestConfig{
		EffectMode:       EffectNone,
		EffectFactor:     1,
		ColorMode:        ColorMultiply,
		ColorFactor:      1,
		EffectColor:      White,
		BlurMode:         BlurFast,
		BlurFactor:       1,
		BlurIterations:   2,
		DownSamplingRate: SamplingX2,
		ReductionRate:    SamplingX2,
		FilterMode:       FilterBilinear,
	}
}

// SetEffectFactor sets the effect factor clamped to [0, 1].
func (c *RequestConfig) SetEffectFactor(v float32) { c.EffectFactor = clampf(v, MinFactor, MaxFactor) }

// SetColorFactor sets the color factor clamped to [0, 1].
func (c *RequestConfig) SetColorFactor(v float32) { c.ColorFactor = clampf(v, MinFactor, MaxFactor) }

// SetBlurFactor sets the blur distance clamped to [0, 4].
func (c *RequestConfig) SetBlurFactor(v float32) { c.BlurFactor = clampf(v, MinFactor, MaxBlurFactor) }

// SetBlurIterations sets the blur iteration count clamped to [1, 8].
func (c *RequestConfig) SetBlurIterations(n int) {
	c.BlurIterations = min(max(n, MinBlurIterations), MaxBlurIterations)
}

// SetEffectColor sets the effect color with each component clamped to [0, 1].
func (c *RequestConfig) SetEffectColor(col Color) {
	c.EffectColor = Color{
		R: clampf(col.R, 0, 1),
		G: clampf(col.G, 0, 1),
		B: clampf(col.B, 0, 1),
		A: clampf(col.A, 0, 1),
	}
}

// Normalized returns a copy of c with every field clamped into range and
// unknown enum values replaced by the zero value of their type.
func (c RequestConfig) Normalized() RequestConfig {
	n := c
	if !n.EffectMode.Valid() {
		n.EffectMode = EffectNone
	}
	if !n.ColorMode.Valid() {
		n.ColorMode = ColorMultiply
	}
	if !n.BlurMode.Valid() {
		n.BlurMode = BlurNone
	}
	if !n.DownSamplingRate.Valid() {
		n.DownSamplingRate = SamplingNone
	}
	if !n.ReductionRate.Valid() {
		n.ReductionRate = SamplingNone
	}
	if !n.FilterMode.Valid() {
		n.FilterMode = FilterPoint
	}
	n.SetEffectFactor(c.EffectFactor)
	n.SetColorFactor(c.ColorFactor)
	n.SetBlurFactor(c.BlurFactor)
	n.SetBlurIterations(c.BlurIterations)
	n.SetEffectColor(c.EffectColor)
	return n
}

// MaterialHash identifies the cached effect pass a configuration needs.
// Factors are draw-time parameters and do not contribute.
func (c RequestConfig) MaterialHash() uint16 {
	return uint16(c.EffectMode)<<8 | uint16(c.ColorMode)<<4 | uint16(c.BlurMode)
}

// Keywords returns the capability flags of the effect pass: the upper-cased
// names of the nonzero effect, color and blur modes, in that order.
func (c RequestConfig) Keywords() []string {
	kw := make([]string, 0, 3)
	for _, k := range []string{c.EffectMode.Keyword(), c.ColorMode.Keyword(), c.BlurMode.Keyword()} {
		if k != "" {
			kw = append(kw, k)
		}
	}
	return kw
}

// clampf clamps v to [lo, hi]. NaN clamps to lo.
func clampf(v, lo, hi float32) float32 {
	if math32.IsNaN(v) {
		return lo
	}
	return math32.Min(math32.Max(v, lo), hi)
}
