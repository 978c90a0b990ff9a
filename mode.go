package snapshot

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// EffectMode selects the tone effect applied by the base pass.
// Numeric values are stable and used in presets and material hashes.
type EffectMode uint8

// Effect modes.
const (
	EffectNone      EffectMode = 0
	EffectGrayscale EffectMode = 1
	EffectSepia     EffectMode = 2
	EffectNega      EffectMode = 3
	EffectPixel     EffectMode = 4
)

var effectModeNames = [...]string{"None", "Grayscale", "Sepia", "Nega", "Pixel"}

// Valid reports whether m is a known effect mode.
func (m EffectMode) Valid() bool { return int(m) < len(effectModeNames) }

// String returns the symbolic name of the mode.
func (m EffectMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("EffectMode(%d)", m)
	}
	return effectModeNames[m]
}

// Keyword returns the pass capability flag for the mode, or "" for None.
func (m EffectMode) Keyword() string { return keyword(uint8(m), m.String()) }

// MarshalText implements encoding.TextMarshaler.
func (m EffectMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *EffectMode) UnmarshalText(b []byte) error {
	i, err := parseName("effect mode", string(b), effectModeNames[:])
	if err != nil {
		return err
	}
	*m = EffectMode(i)
	return nil
}

// ColorMode selects how the effect color is combined with the image.
type ColorMode uint8

// Color modes.
const (
	ColorMultiply ColorMode = 0
	ColorFill     ColorMode = 1
	ColorAdd      ColorMode = 2
	ColorSubtract ColorMode = 3
)

var colorModeNames = [...]string{"Multiply", "Fill", "Add", "Subtract"}

// Valid reports whether m is a known color mode.
func (m ColorMode) Valid() bool { return int(m) < len(colorModeNames) }

// String returns the symbolic name of the mode.
func (m ColorMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("ColorMode(%d)", m)
	}
	return colorModeNames[m]
}

// Keyword returns the pass capability flag for the mode, or "" for Multiply.
func (m ColorMode) Keyword() string { return keyword(uint8(m), m.String()) }

// MarshalText implements encoding.TextMarshaler.
func (m ColorMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ColorMode) UnmarshalText(b []byte) error {
	i, err := parseName("color mode", string(b), colorModeNames[:])
	if err != nil {
		return err
	}
	*m = ColorMode(i)
	return nil
}

// BlurMode selects the blur kernel used by the blur pass.
type BlurMode uint8

// Blur modes.
const (
	BlurNone   BlurMode = 0
	BlurFast   BlurMode = 1
	BlurMedium BlurMode = 2
	BlurDetail BlurMode = 3
)

var blurModeNames = [...]string{"None", "Fast", "Medium", "Detail"}

// Valid reports whether m is a known blur mode.
func (m BlurMode) Valid() bool { return int(m) < len(blurModeNames) }

// String returns the symbolic name of the mode.
func (m BlurMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("BlurMode(%d)", m)
	}
	return blurModeNames[m]
}

// Keyword returns the pass capability flag for the mode, or "" for None.
func (m BlurMode) Keyword() string { return keyword(uint8(m), m.String()) }

// MarshalText implements encoding.TextMarshaler.
func (m BlurMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlurMode) UnmarshalText(b []byte) error {
	i, err := parseName("blur mode", string(b), blurModeNames[:])
	if err != nil {
		return err
	}
	*m = BlurMode(i)
	return nil
}

// SamplingRate is an integer divisor applied to the reference resolution.
// The numeric value is the divisor; None keeps the reference resolution.
type SamplingRate uint8

// Sampling rates.
const (
	SamplingNone SamplingRate = 0
	SamplingX1   SamplingRate = 1
	SamplingX2   SamplingRate = 2
	SamplingX4   SamplingRate = 4
	SamplingX8   SamplingRate = 8
)

// Valid reports whether r is a known sampling rate.
func (r SamplingRate) Valid() bool {
	switch r {
	case SamplingNone, SamplingX1, SamplingX2, SamplingX4, SamplingX8:
		return true
	}
	return false
}

// String returns "None" or "x<divisor>".
func (r SamplingRate) String() string {
	if r == SamplingNone {
		return "None"
	}
	if !r.Valid() {
		return fmt.Sprintf("SamplingRate(%d)", r)
	}
	return fmt.Sprintf("x%d", r)
}

// MarshalText implements encoding.TextMarshaler.
func (r SamplingRate) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *SamplingRate) UnmarshalText(b []byte) error {
	for _, v := range []SamplingRate{SamplingNone, SamplingX1, SamplingX2, SamplingX4, SamplingX8} {
		if strings.EqualFold(string(b), v.String()) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("%w: sampling rate %q", ErrUnknownName, b)
}

// FilterMode is the texture filtering applied when sampling captured buffers.
type FilterMode uint8

// Filter modes.
const (
	FilterPoint     FilterMode = 0
	FilterBilinear  FilterMode = 1
	FilterTrilinear FilterMode = 2
)

var filterModeNames = [...]string{"Point", "Bilinear", "Trilinear"}

// Valid reports whether m is a known filter mode.
func (m FilterMode) Valid() bool { return int(m) < len(filterModeNames) }

// String returns the symbolic name of the mode.
func (m FilterMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("FilterMode(%d)", m)
	}
	return filterModeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m FilterMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FilterMode) UnmarshalText(b []byte) error {
	i, err := parseName("filter mode", string(b), filterModeNames[:])
	if err != nil {
		return err
	}
	*m = FilterMode(i)
	return nil
}

// Sampler returns the min/mag and mipmap filters for the mode.
// Output textures have a single mip level, so Trilinear differs from
// Bilinear only in the mipmap filter it requests.
func (m FilterMode) Sampler() (minMag, mipmap gputypes.FilterMode) {
	switch m {
	case FilterBilinear:
		return gputypes.FilterModeLinear, gputypes.FilterModeNearest
	case FilterTrilinear:
		return gputypes.FilterModeLinear, gputypes.FilterModeLinear
	default:
		return gputypes.FilterModeNearest, gputypes.FilterModeNearest
	}
}

func keyword(v uint8, name string) string {
	if v == 0 {
		return ""
	}
	return strings.ToUpper(name)
}

func parseName(kind, s string, names []string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownName, kind, s)
}

// ParseKeywords maps pass capability flags, as produced by
// RequestConfig.Keywords, back onto modes. Groups without a flag keep their
// zero mode.
func ParseKeywords(keywords []string) (EffectMode, ColorMode, BlurMode, error) {
	var (
		effect EffectMode
		color  ColorMode
		blur   BlurMode
	)
	for _, kw := range keywords {
		if i, err := parseName("", kw, effectModeNames[1:]); err == nil {
			effect = EffectMode(i + 1)
			continue
		}
		if i, err := parseName("", kw, colorModeNames[1:]); err == nil {
			color = ColorMode(i + 1)
			continue
		}
		if i, err := parseName("", kw, blurModeNames[1:]); err == nil {
			blur = BlurMode(i + 1)
			continue
		}
		return 0, 0, 0, fmt.Errorf("%w: keyword %q", ErrUnknownName, kw)
	}
	return effect, color, blur, nil
}
