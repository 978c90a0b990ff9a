package snapshot

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
)

// fakeTexture records its size, filter and destruction.
type fakeTexture struct {
	label     string
	w, h      int
	filter    FilterMode
	destroyed bool
}

func (t *fakeTexture) Width() int                     { return t.w }
func (t *fakeTexture) Height() int                    { return t.h }
func (t *fakeTexture) Format() gputypes.TextureFormat { return OutputFormat }
func (t *fakeTexture) Destroy()                       { t.destroyed = true }
func (t *fakeTexture) SetFilter(f FilterMode)         { t.filter = f }

// fakeMaterial is an effect or custom pass.
type fakeMaterial struct {
	name      string
	keywords  []string
	dead      bool
	destroyed bool
}

func (m *fakeMaterial) Name() string { return m.name }
func (m *fakeMaterial) Valid() bool  { return !m.dead && !m.destroyed }
func (m *fakeMaterial) Destroy()     { m.destroyed = true }

// fakeDevice records everything the scheduler asks of it.
type fakeDevice struct {
	mu        sync.Mutex
	w, h      int
	textures  []*fakeTexture
	materials []*fakeMaterial
	executed  []*CommandSequence

	// execHook, if set, runs before each Execute with the zero-based call
	// index. A non-nil error fails that execution.
	execHook func(n int, seq *CommandSequence) error

	// materialHook, if set, runs before each CreateEffectMaterial.
	materialHook func(keywords []string) error
}

func newFakeDevice(w, h int) *fakeDevice {
	return &fakeDevice{w: w, h: h}
}

func (d *fakeDevice) ScreenSize() (int, int) { return d.w, d.h }

func (d *fakeDevice) CreateTexture(desc TextureDescriptor) (Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, ErrInvalidSize
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &fakeTexture{label: desc.Label, w: desc.Width, h: desc.Height, filter: desc.Filter}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeDevice) CreateEffectMaterial(keywords []string) (Material, error) {
	if d.materialHook != nil {
		if err := d.materialHook(keywords); err != nil {
			return nil, err
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m := &fakeMaterial{
		name:     fmt.Sprintf("effect[%s]", strings.Join(keywords, ",")),
		keywords: keywords,
	}
	d.materials = append(d.materials, m)
	return m, nil
}

func (d *fakeDevice) Execute(seq *CommandSequence) error {
	d.mu.Lock()
	n := len(d.executed)
	d.executed = append(d.executed, seq)
	hook := d.execHook
	d.mu.Unlock()

	if hook != nil {
		return hook(n, seq)
	}
	return nil
}

func (d *fakeDevice) executions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.executed)
}

// fakePreview is a preview window.
type fakePreview struct {
	w, h    int
	surface Texture
	err     error
}

func (p *fakePreview) PreviewSize() (int, int) { return p.w, p.h }

func (p *fakePreview) PreviewSurface() (Texture, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.surface, nil
}

// newTestScheduler creates a live scheduler on a 1920x1080 fake device.
func newTestScheduler(t testing.TB, opts ...Option) (*Scheduler, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice(1920, 1080)
	s, err := NewScheduler(dev, opts...)
	if err != nil {
		t.Fatalf("NewScheduler() = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, dev
}

// blursOf returns the blur pass blits of seq.
func blursOf(seq *CommandSequence) []Command {
	var out []Command
	for _, c := range seq.Blits() {
		if c.Material != nil && c.Pass == PassBlur {
			out = append(out, c)
		}
	}
	return out
}

// vectorsOf returns the values set for prop, in order.
func vectorsOf(seq *CommandSequence, prop PropertyID) []Vec4 {
	var out []Vec4
	for _, c := range seq.Commands {
		if c.Op == OpSetGlobalVector && c.ID == prop {
			out = append(out, c.Vector)
		}
	}
	return out
}
