package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/snapshot"
	"github.com/gogpu/wgpu/hal"
)

// textureUsage is the usage of every texture the device allocates: a
// render target, a pass source, an upload destination and a readback
// source.
const textureUsage = gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageCopySrc

// Texture is a snapshot.Texture on a HAL texture and its default view.
type Texture struct {
	dev   *Device
	label string
	tex   hal.Texture
	view  hal.TextureView
	w, h  int

	// external textures are owned by the host and never destroyed here.
	external bool

	filter    atomic.Uint32
	destroy   sync.Once
	destroyed atomic.Bool
}

// createTexture allocates a texture and its view. Callers hold d.mu or own
// d exclusively.
func (d *Device) createTexture(label string, w, h int, filter snapshot.FilterMode) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", snapshot.ErrInvalidSize, w, h)
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        snapshot.OutputFormat,
		Usage:         textureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        snapshot.OutputFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create view of %q: %w", label, err)
	}
	t := &Texture{dev: d, label: label, tex: tex, view: view, w: w, h: h}
	t.filter.Store(uint32(filter))
	return t, nil
}

// WrapTexture exposes a host texture, such as the frame's color target,
// to the device. Its format must be snapshot.OutputFormat and its usage
// must allow sampling. Destroy on the result is a no-op.
func (d *Device) WrapTexture(label string, tex hal.Texture, view hal.TextureView, w, h int) *Texture {
	t := &Texture{dev: d, label: label, tex: tex, view: view, w: w, h: h, external: true}
	t.filter.Store(uint32(snapshot.FilterBilinear))
	return t
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.w }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.h }

// Format returns snapshot.OutputFormat.
func (t *Texture) Format() gputypes.TextureFormat { return snapshot.OutputFormat }

// Filter returns the sampling filter used when the texture is a pass source.
func (t *Texture) Filter() snapshot.FilterMode { return snapshot.FilterMode(t.filter.Load()) }

// SetFilter changes the sampling filter.
func (t *Texture) SetFilter(f snapshot.FilterMode) { t.filter.Store(uint32(f)) }

// View returns the HAL view, for drawing the texture in host passes.
func (t *Texture) View() hal.TextureView { return t.view }

// Destroyed reports whether Destroy was called.
func (t *Texture) Destroyed() bool { return t.destroyed.Load() }

// Destroy releases the HAL texture and view. It waits for an in-progress
// Execute on the same device.
func (t *Texture) Destroy() {
	t.destroy.Do(func() {
		t.destroyed.Store(true)
		if t.external {
			return
		}
		t.dev.mu.Lock()
		defer t.dev.mu.Unlock()
		t.release()
	})
}

// release frees the HAL objects. Callers hold dev.mu.
func (t *Texture) release() {
	if t.view != nil {
		t.dev.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.dev.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Upload writes tightly packed premultiplied RGBA pixels into the texture.
func (t *Texture) Upload(pixels []byte) error {
	if len(pixels) != t.w*t.h*4 {
		return fmt.Errorf("wgpu: upload %d bytes into %dx%d texture", len(pixels), t.w, t.h)
	}
	if t.Destroyed() {
		return fmt.Errorf("%w: texture %q", ErrDestroyed, t.label)
	}
	t.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(t.w * 4), RowsPerImage: uint32(t.h)},
		&hal.Extent3D{Width: uint32(t.w), Height: uint32(t.h), DepthOrArrayLayers: 1},
	)
	return nil
}

// ReadPixels copies the texture back to the CPU as tightly packed
// premultiplied RGBA.
func (t *Texture) ReadPixels() ([]byte, error) {
	if t.Destroyed() {
		return nil, fmt.Errorf("%w: texture %q", ErrDestroyed, t.label)
	}
	t.dev.mu.Lock()
	defer t.dev.mu.Unlock()
	return t.dev.readback(t)
}
