package wgpu

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/snapshot"
)

// Material is a GPU pass resource. Effect materials share the device's
// effect program and select their branch through the Params uniform;
// custom materials own a program built from caller WGSL.
type Material struct {
	dev   *Device
	name  string
	modes modes
	prog  *program
	owned bool

	destroy   sync.Once
	destroyed atomic.Bool
}

// Name identifies the material in logs and command dumps.
func (m *Material) Name() string { return m.name }

// Valid reports whether the material and its device are alive.
func (m *Material) Valid() bool { return !m.destroyed.Load() && !m.dev.closed.Load() }

// Destroy releases a custom material's program. Effect materials only
// become invalid; their program lives until the device is closed.
func (m *Material) Destroy() {
	m.destroy.Do(func() {
		m.destroyed.Store(true)
		if !m.owned {
			return
		}
		m.dev.mu.Lock()
		defer m.dev.mu.Unlock()
		m.dev.destroyProgram(m.prog)
	})
}

// CreateEffectMaterial returns the effect material for the keywords. The
// effect program is compiled on first use.
func (d *Device) CreateEffectMaterial(keywords []string) (snapshot.Material, error) {
	effect, color, blur, err := snapshot.ParseKeywords(keywords)
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return nil, ErrClosed
	}
	if d.effect == nil {
		prog, err := d.createProgram("snapshot_effect", effectShaderSource, effectEntryPoints)
		if err != nil {
			return nil, err
		}
		d.effect = prog
		d.log.Debug("wgpu: effect program compiled")
	}

	name := "effect"
	if len(keywords) > 0 {
		name += "_" + strings.Join(keywords, "_")
	}
	return &Material{
		dev:   d,
		name:  name,
		modes: modes{effect: effect, color: color, blur: blur},
		prog:  d.effect,
	}, nil
}

// CreateMaterial compiles a custom pass. fragment is WGSL defining
//
//	fn fs_main(in: VertexOutput) -> @location(0) vec4<f32>
//
// and may use the shared declarations: the params uniform, the src texture,
// src_sampler and sample_src(uv). Custom materials run as pass 0.
func (d *Device) CreateMaterial(name, fragment string) (*Material, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return nil, ErrClosed
	}
	prog, err := d.createProgram(name, fragment, effectEntryPoints[:1])
	if err != nil {
		return nil, err
	}
	return &Material{dev: d, name: name, prog: prog, owned: true}, nil
}
