package software

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/backend"
	"github.com/gogpu/snapshot/internal/parallel"
)

// Device errors.
var (
	// ErrUnknownKeyword is returned for an effect capability flag the
	// device cannot build.
	ErrUnknownKeyword = errors.New("software: unknown material keyword")

	// ErrUnknownPass is returned for a pass index a material does not have.
	ErrUnknownPass = errors.New("software: unknown pass")

	// ErrUnknownTemporary is returned when a command names a temporary
	// buffer that was never allocated or was already released.
	ErrUnknownTemporary = errors.New("software: unknown temporary buffer")

	// ErrForeignResource is returned for textures or materials created by
	// another backend.
	ErrForeignResource = errors.New("software: resource belongs to another device")

	// ErrDestroyed is returned when a command uses a destroyed texture or
	// material.
	ErrDestroyed = errors.New("software: resource destroyed")
)

// maxPooled is the number of released temporaries kept per size.
const maxPooled = 4

// init registers the software backend on package import.
func init() {
	backend.Register(backend.BackendSoftware, func(opts backend.Options) (snapshot.Device, error) {
		if opts.Width <= 0 || opts.Height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", snapshot.ErrInvalidSize, opts.Width, opts.Height)
		}
		devOpts := []Option{WithLogger(opts.Log())}
		if opts.Workers != 0 {
			devOpts = append(devOpts, WithWorkers(opts.Workers))
		}
		return New(opts.Width, opts.Height, devOpts...), nil
	})
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the device logger. By default the device logs through
// snapshot.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// WithWorkers runs blur passes on n goroutines. Non-positive n means
// GOMAXPROCS. Close stops the workers.
func WithWorkers(n int) Option {
	return func(d *Device) { d.workers = parallel.NewPool(n) }
}

// Device is a snapshot.Device that runs every pass on the CPU.
//
// The back buffer is a Texture the host fills each frame with SetBackBuffer
// or by drawing into BackBuffer directly. Execute is serialized; textures
// may be read concurrently through Texture.Image.
type Device struct {
	log     *slog.Logger
	workers *parallel.Pool

	mu   sync.Mutex
	back *Texture
	pool map[image.Point][]*image.RGBA
}

// New creates a device with a transparent w x h back buffer.
func New(w, h int, opts ...Option) *Device {
	d := &Device{
		log:  snapshot.Logger(),
		back: newTexture("back buffer", max(w, 1), max(h, 1), snapshot.FilterBilinear),
		pool: make(map[image.Point][]*image.RGBA),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ScreenSize returns the back-buffer resolution.
func (d *Device) ScreenSize() (width, height int) {
	b := d.BackBuffer()
	return b.Width(), b.Height()
}

// BackBuffer returns the texture captured by live requests.
func (d *Device) BackBuffer() *Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.back
}

// SetBackBuffer replaces the back buffer content with img. The screen size
// follows the image bounds.
func (d *Device) SetBackBuffer(img image.Image) {
	b := d.BackBuffer()
	if img.Bounds().Dx() == b.Width() && img.Bounds().Dy() == b.Height() {
		b.Load(img)
		return
	}
	b.replace(NewTexture("", img).img)
	d.log.Debug("software: back buffer resized", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
}

// CreateTexture allocates a persistent texture.
func (d *Device) CreateTexture(desc snapshot.TextureDescriptor) (snapshot.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", snapshot.ErrInvalidSize, desc.Width, desc.Height)
	}
	return newTexture(desc.Label, desc.Width, desc.Height, desc.Filter), nil
}

// CreateEffectMaterial builds the effect program for the keywords.
func (d *Device) CreateEffectMaterial(keywords []string) (snapshot.Material, error) {
	v, err := parseKeywords(keywords)
	if err != nil {
		return nil, err
	}
	name := "effect"
	for _, kw := range keywords {
		name += "_" + kw
	}
	d.log.Debug("software: effect material created", "name", name)
	return &Material{name: name, keywords: append([]string(nil), keywords...), fn: v.shader(d.workers)}, nil
}

// Close stops the blur workers started by WithWorkers. Materials created
// earlier keep working on the calling goroutine.
func (d *Device) Close() error {
	d.workers.Close()
	return nil
}

// getImage returns a cleared buffer from the pool or a new one.
func (d *Device) getImage(w, h int) *image.RGBA {
	key := image.Pt(w, h)
	if free := d.pool[key]; len(free) > 0 {
		img := free[len(free)-1]
		d.pool[key] = free[:len(free)-1]
		clear(img.Pix)
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// putImage returns a buffer to the pool.
func (d *Device) putImage(img *image.RGBA) {
	key := img.Rect.Size()
	if len(d.pool[key]) < maxPooled {
		d.pool[key] = append(d.pool[key], img)
	}
}

// Preview is a snapshot.PreviewSource over a software texture, used for
// authoring contexts that capture an offscreen view instead of the screen.
type Preview struct {
	mu      sync.RWMutex
	surface *Texture
	w, h    int
}

// NewPreview returns a preview source capturing surface. A nil surface
// reports snapshot.ErrPreviewSurfaceMissing until SetSurface is called.
func NewPreview(surface *Texture) *Preview {
	p := &Preview{}
	p.SetSurface(surface)
	return p
}

// SetSurface replaces the captured surface.
func (p *Preview) SetSurface(surface *Texture) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = surface
	if surface != nil {
		p.w, p.h = surface.Width(), surface.Height()
	}
}

// PreviewSize returns the last known surface size.
func (p *Preview) PreviewSize() (width, height int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.w, p.h
}

// PreviewSurface returns the surface or snapshot.ErrPreviewSurfaceMissing.
func (p *Preview) PreviewSurface() (snapshot.Texture, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.surface == nil || p.surface.Destroyed() {
		return nil, snapshot.ErrPreviewSurfaceMissing
	}
	return p.surface, nil
}
