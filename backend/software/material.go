package software

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/internal/filter"
	"github.com/gogpu/snapshot/internal/parallel"
)

// Globals are the shader vectors set so far in a command sequence.
type Globals map[snapshot.PropertyID]snapshot.Vec4

// Vector returns the vector for id, or zero when it was never set.
func (g Globals) Vector(id snapshot.PropertyID) snapshot.Vec4 { return g[id] }

// ShaderFunc renders one pass of a material. src is already resampled to
// the size of dst and never aliases it.
type ShaderFunc func(pass int, src, dst *image.RGBA, globals Globals) error

// Material is a CPU pass resource.
type Material struct {
	name      string
	keywords  []string
	fn        ShaderFunc
	destroyed atomic.Bool
}

// NewMaterial returns a custom material running fn for every pass.
func NewMaterial(name string, fn ShaderFunc) *Material {
	return &Material{name: name, fn: fn}
}

// Name identifies the material in logs and command dumps.
func (m *Material) Name() string { return m.name }

// Keywords returns the capability flags an effect material was built with.
func (m *Material) Keywords() []string { return m.keywords }

// Valid reports whether the material has not been destroyed.
func (m *Material) Valid() bool { return !m.destroyed.Load() }

// Destroy invalidates the material.
func (m *Material) Destroy() { m.destroyed.Store(true) }

func (m *Material) run(pass int, src, dst *image.RGBA, globals Globals) error {
	if m.fn == nil {
		copyImage(dst, src)
		return nil
	}
	return m.fn(pass, src, dst, globals)
}

// effectVariant is the set of modes selected by a material's keywords.
type effectVariant struct {
	effect filter.Effect
	color  filter.ColorOp
	blur   filter.Blur
}

// parseKeywords maps capability flags onto filter modes.
func parseKeywords(keywords []string) (effectVariant, error) {
	effect, color, blur, err := snapshot.ParseKeywords(keywords)
	if err != nil {
		return effectVariant{}, fmt.Errorf("%w: %w", ErrUnknownKeyword, err)
	}
	return effectVariant{
		effect: filter.Effect(effect),
		color:  filter.ColorOp(color),
		blur:   filter.Blur(blur),
	}, nil
}

// shader returns the two-pass effect program of the variant: pass 0 runs
// the tone effect and color operation, pass 1 one direction of the blur
// split across workers when set.
func (v effectVariant) shader(workers *parallel.Pool) ShaderFunc {
	kernel := filter.Kernel(v.blur)
	return func(pass int, src, dst *image.RGBA, globals Globals) error {
		ef := globals.Vector(snapshot.PropEffectFactor)
		switch pass {
		case snapshot.PassEffect:
			copyImage(dst, src)
			filter.ApplyEffect(dst, filter.Params{
				Effect:  v.effect,
				Factor:  ef[0],
				ColorOp: v.color,
				Color:   globals.Vector(snapshot.PropColorFactor),
			})
		case snapshot.PassBlur:
			filter.DirectionalOn(workers, src, dst, ef[0], ef[1], kernel)
		default:
			return fmt.Errorf("%w: %d", ErrUnknownPass, pass)
		}
		return nil
	}
}

func copyImage(dst, src *image.RGBA) {
	n := min(src.Rect.Dx(), dst.Rect.Dx()) * 4
	rows := min(src.Rect.Dy(), dst.Rect.Dy())
	for y := 0; y < rows; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+n], src.Pix[y*src.Stride:y*src.Stride+n])
	}
}
