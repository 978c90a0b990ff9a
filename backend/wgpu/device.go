package wgpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/backend"
	"github.com/gogpu/wgpu/hal"
)

// Device errors.
var (
	// ErrNoHAL is returned when a device provider does not expose HAL types.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")

	// ErrShaderCompile is returned when a pass shader fails to compile.
	ErrShaderCompile = errors.New("wgpu: shader compilation failed")

	// ErrClosed is returned for operations on a closed device.
	ErrClosed = errors.New("wgpu: device is closed")

	// ErrNoBackBuffer is returned when a sequence reads the back buffer
	// before the host set one.
	ErrNoBackBuffer = errors.New("wgpu: no back buffer")

	// ErrUnknownTemporary is returned when a command names a temporary
	// buffer that was never allocated or was already released.
	ErrUnknownTemporary = errors.New("wgpu: unknown temporary buffer")

	// ErrUnknownPass is returned for a pass index a material does not have.
	ErrUnknownPass = errors.New("wgpu: unknown pass")

	// ErrForeignResource is returned for textures or materials created by
	// another device.
	ErrForeignResource = errors.New("wgpu: resource belongs to another device")

	// ErrDestroyed is returned when a command uses a destroyed texture or
	// material.
	ErrDestroyed = errors.New("wgpu: resource destroyed")

	// ErrFeedbackLoop is returned for a blit whose source is its target.
	ErrFeedbackLoop = errors.New("wgpu: blit source and target are the same texture")

	// ErrGPUTimeout is returned when a submission does not complete in time.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)

const (
	// defaultTimeout bounds the wait for one command sequence.
	defaultTimeout = 5 * time.Second
	// maxPooled is the number of released temporaries kept per size.
	maxPooled = 4
)

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func(opts backend.Options) (snapshot.Device, error) {
		if opts.Provider == nil {
			return nil, backend.ErrNoDeviceProvider
		}
		return New(opts.Provider, opts.Width, opts.Height, WithLogger(opts.Log()))
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

// WithTimeout bounds how long Execute waits for the GPU.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// Device is a snapshot.Device that records each command sequence into one
// command buffer of full-screen render passes and waits for it.
//
// The device shares the host's HAL device and queue. The host supplies the
// frame to capture with SetBackBuffer (a wrapped color target) or
// UploadBackBuffer (CPU pixels).
type Device struct {
	device  hal.Device
	queue   hal.Queue
	log     *slog.Logger
	timeout time.Duration

	closed atomic.Bool

	mu         sync.Mutex
	width      int
	height     int
	back       *Texture
	ownsBack   bool
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	samplers   map[snapshot.FilterMode]hal.Sampler
	blit       *program
	effect     *program
	pool       map[image.Point][]*Texture
}

// New creates a device on the HAL device and queue of provider. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue, as the gogpu application context does.
func New(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	return NewFromHAL(device, queue, width, height, opts...)
}

// NewFromHAL creates a device on an existing HAL device and queue and
// compiles the blit program.
func NewFromHAL(device hal.Device, queue hal.Queue, width, height int, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	d := &Device{
		device:   device,
		queue:    queue,
		log:      snapshot.Logger(),
		timeout:  defaultTimeout,
		width:    width,
		height:   height,
		samplers: make(map[snapshot.FilterMode]hal.Sampler),
		pool:     make(map[image.Point][]*Texture),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.createLayouts(); err != nil {
		d.release()
		return nil, err
	}
	blit, err := d.createProgram("snapshot_blit", blitShaderSource, effectEntryPoints[:1])
	if err != nil {
		d.release()
		return nil, err
	}
	d.blit = blit

	d.log.Info("wgpu: device ready", "width", width, "height", height)
	return d, nil
}

// ScreenSize returns the back-buffer resolution.
func (d *Device) ScreenSize() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Resize changes the reported screen size, for hosts that bind the back
// buffer per frame.
func (d *Device) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
}

// SetBackBuffer sets the texture live captures read from. The screen size
// follows it. The device does not take ownership.
func (d *Device) SetBackBuffer(tex *Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropBackLocked()
	d.back = tex
	if tex != nil {
		d.width, d.height = tex.w, tex.h
	}
}

// UploadBackBuffer copies tightly packed premultiplied RGBA pixels into a
// device-owned back buffer, reallocating it when the size changes.
func (d *Device) UploadBackBuffer(pixels []byte, width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return ErrClosed
	}
	if !d.ownsBack || d.back == nil || d.back.w != width || d.back.h != height {
		tex, err := d.createTexture("snapshot_back_buffer", width, height, snapshot.FilterBilinear)
		if err != nil {
			return err
		}
		d.dropBackLocked()
		d.back, d.ownsBack = tex, true
		d.width, d.height = width, height
	}
	return d.back.Upload(pixels)
}

func (d *Device) dropBackLocked() {
	if d.ownsBack && d.back != nil {
		d.back.destroyed.Store(true)
		d.back.release()
	}
	d.back, d.ownsBack = nil, false
}

// CreateTexture allocates a persistent texture.
func (d *Device) CreateTexture(desc snapshot.TextureDescriptor) (snapshot.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return nil, ErrClosed
	}
	return d.createTexture(desc.Label, desc.Width, desc.Height, desc.Filter)
}

// getTemporary returns a pooled texture of the size or a new one.
func (d *Device) getTemporary(id snapshot.PropertyID, w, h int, filter snapshot.FilterMode) (*Texture, error) {
	key := image.Pt(w, h)
	if free := d.pool[key]; len(free) > 0 {
		t := free[len(free)-1]
		d.pool[key] = free[:len(free)-1]
		t.SetFilter(filter)
		return t, nil
	}
	return d.createTexture("snapshot_temp"+id.Name(), w, h, filter)
}

// putTemporary returns a texture to the pool or frees it.
func (d *Device) putTemporary(t *Texture) {
	key := image.Pt(t.w, t.h)
	if len(d.pool[key]) < maxPooled {
		d.pool[key] = append(d.pool[key], t)
		return
	}
	t.release()
}

// Close releases every GPU resource the device created. Textures and
// materials handed out earlier become invalid.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.release()
	d.log.Info("wgpu: device closed")
	return nil
}

// release destroys pooled textures, programs, samplers and layouts in
// reverse creation order.
func (d *Device) release() {
	for key, free := range d.pool {
		for _, t := range free {
			t.release()
		}
		delete(d.pool, key)
	}
	d.dropBackLocked()
	d.destroyProgram(d.effect)
	d.destroyProgram(d.blit)
	d.effect, d.blit = nil, nil
	for f, s := range d.samplers {
		d.device.DestroySampler(s)
		delete(d.samplers, f)
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.layout != nil {
		d.device.DestroyBindGroupLayout(d.layout)
		d.layout = nil
	}
}
