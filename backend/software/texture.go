package software

import (
	"image"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/snapshot"
	xdraw "golang.org/x/image/draw"
)

// Texture is a snapshot.Texture backed by a premultiplied image.RGBA.
type Texture struct {
	label string

	mu     sync.RWMutex
	img    *image.RGBA
	filter snapshot.FilterMode

	destroyed atomic.Bool
}

func newTexture(label string, w, h int, filter snapshot.FilterMode) *Texture {
	return &Texture{
		label:  label,
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		filter: filter,
	}
}

// NewTexture wraps a copy of img. It is used for back buffers and preview
// surfaces supplied by the host.
func NewTexture(label string, img image.Image) *Texture {
	return &Texture{label: label, img: clone.AsRGBA(img), filter: snapshot.FilterBilinear}
}

// Label returns the allocation label.
func (t *Texture) Label() string { return t.label }

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.img.Rect.Dx()
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.img.Rect.Dy()
}

// Format returns snapshot.OutputFormat.
func (t *Texture) Format() gputypes.TextureFormat { return snapshot.OutputFormat }

// Filter returns the sampling filter used when the texture is a blit source.
func (t *Texture) Filter() snapshot.FilterMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter
}

// SetFilter changes the sampling filter.
func (t *Texture) SetFilter(f snapshot.FilterMode) {
	t.mu.Lock()
	t.filter = f
	t.mu.Unlock()
}

// Destroy releases the pixels. Later blits involving t fail.
func (t *Texture) Destroy() {
	t.destroyed.Store(true)
}

// Destroyed reports whether Destroy was called.
func (t *Texture) Destroyed() bool { return t.destroyed.Load() }

// Image returns a copy of the current pixels.
func (t *Texture) Image() *image.RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone.AsRGBA(t.img)
}

// Pixels returns the premultiplied RGBA bytes, tightly packed, for upload
// to a GPU texture.
func (t *Texture) Pixels() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, h := t.img.Rect.Dx(), t.img.Rect.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], t.img.Pix[y*t.img.Stride:])
	}
	return out
}

// ReadPixels returns Pixels. It never fails.
func (t *Texture) ReadPixels() ([]byte, error) { return t.Pixels(), nil }

// Load replaces the content with img scaled to the texture size.
func (t *Texture) Load(img image.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if img.Bounds().Size() == t.img.Rect.Size() {
		draw.Draw(t.img, t.img.Rect, img, img.Bounds().Min, draw.Src)
		return
	}
	xdraw.BiLinear.Scale(t.img, t.img.Rect, img, img.Bounds(), xdraw.Src, nil)
}

// replace swaps in img as the texture content, resizing it.
func (t *Texture) replace(img *image.RGBA) {
	t.mu.Lock()
	t.img = img
	t.mu.Unlock()
}

// scaler returns the x/image scaler matching a filter mode.
func scaler(f snapshot.FilterMode) xdraw.Scaler {
	switch f {
	case snapshot.FilterBilinear:
		return xdraw.ApproxBiLinear
	case snapshot.FilterTrilinear:
		return xdraw.BiLinear
	default:
		return xdraw.NearestNeighbor
	}
}

// resample draws src over the whole of dst, scaling with filter when the
// sizes differ.
func resample(dst, src *image.RGBA, filter snapshot.FilterMode) {
	if src.Rect.Size() == dst.Rect.Size() {
		draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
		return
	}
	scaler(filter).Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
}
