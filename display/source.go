// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/snapshot"
)

// Errors returned by Source.
var (
	// ErrNilScheduler is returned when NewSource gets a nil scheduler.
	ErrNilScheduler = errors.New("display: nil scheduler")

	// ErrSourceClosed is returned when operations are attempted on a closed
	// source.
	ErrSourceClosed = errors.New("display: source is closed")

	// ErrNotCaptured is returned by RenderTo before the first capture
	// landed or after Release.
	ErrNotCaptured = errors.New("display: nothing captured")

	// ErrNilDrawer is returned when RenderTo gets a nil TextureDrawer.
	ErrNilDrawer = errors.New("display: nil TextureDrawer")

	// ErrUnreadable is returned when the captured texture cannot be read
	// back to the CPU.
	ErrUnreadable = errors.New("display: captured texture has no ReadPixels")
)

// pixelReader is implemented by the textures of the software and wgpu
// backends.
type pixelReader interface {
	ReadPixels() ([]byte, error)
}

// textureDestroyer is implemented by host textures that hold GPU memory.
type textureDestroyer interface {
	Destroy()
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithGlobal makes the source write the scheduler's shared texture.
func WithGlobal() SourceOption {
	return func(s *Source) { s.req.SetGlobal(true) }
}

// WithMaterials appends custom passes after blur.
func WithMaterials(ms ...snapshot.Material) SourceOption {
	return func(s *Source) { s.req.SetCustomMaterials(ms...) }
}

// WithCaptureHandler sets a function called after every capture.
func WithCaptureHandler(fn func(*Source)) SourceOption {
	return func(s *Source) { s.onCapture = fn }
}

// WithLogger sets the logger. By default the source logs through
// snapshot.Logger().
func WithLogger(l *slog.Logger) SourceOption {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// Source is a capture request bound to a scheduler plus the host texture
// showing its result.
type Source struct {
	sched     *snapshot.Scheduler
	req       *snapshot.Request
	log       *slog.Logger
	onCapture func(*Source)

	mu         sync.Mutex
	captures   int
	dirty      bool
	closed     bool
	texture    any // host texture from gpucontext.TextureCreator
	oldTexture any // deferred destruction
	width      int
	height     int
}

// NewSource creates a source capturing with cfg on sched.
func NewSource(sched *snapshot.Scheduler, cfg snapshot.RequestConfig, opts ...SourceOption) (*Source, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	s := &Source{
		sched: sched,
		req:   snapshot.NewRequest(cfg),
		log:   snapshot.Logger(),
	}
	s.req.PostAction = s.captured
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request returns the underlying request, for changing its configuration.
func (s *Source) Request() *snapshot.Request { return s.req }

// Capture asks for a capture at the scheduler's next render point.
func (s *Source) Capture() error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSourceClosed
	}
	s.sched.Register(s.req)
	return nil
}

// captured is the request's PostAction.
func (s *Source) captured(*snapshot.Request) {
	s.mu.Lock()
	s.captures++
	s.dirty = true
	s.mu.Unlock()
	s.log.Debug("display: capture landed", "context", s.sched.ID())
	if s.onCapture != nil {
		s.onCapture(s)
	}
}

// Captured reports whether a captured texture is available.
func (s *Source) Captured() bool { return s.req.Texture() != nil }

// Captures returns the number of completed captures.
func (s *Source) Captures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captures
}

// Texture returns the captured texture, or nil.
func (s *Source) Texture() snapshot.Texture { return s.req.Texture() }

// Release frees the captured texture. The host texture is kept until the
// next upload or Close.
func (s *Source) Release() {
	s.req.Release()
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// RenderTo draws the captured texture at the origin.
func (s *Source) RenderTo(dc gpucontext.TextureDrawer) error {
	return s.RenderToPosition(dc, 0, 0)
}

// RenderToPosition draws the captured texture at (x, y), uploading it first
// when a new capture landed since the last call.
func (s *Source) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	tex := s.req.Texture()
	if tex == nil {
		return ErrNotCaptured
	}
	if dc == nil {
		return ErrNilDrawer
	}

	if s.dirty || s.texture == nil {
		if err := s.upload(dc, tex); err != nil {
			return err
		}
		s.dirty = false
	}

	gpuTex, ok := s.texture.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// upload copies tex into the host texture. Callers hold s.mu.
func (s *Source) upload(dc gpucontext.TextureDrawer, tex snapshot.Texture) error {
	data, err := readPixels(tex)
	if err != nil {
		return err
	}
	w, h := tex.Width(), tex.Height()

	if s.texture != nil && w == s.width && h == s.height {
		if updater, ok := s.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return fmt.Errorf("display: texture update failed: %w", err)
			}
			return nil
		}
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return ErrInvalidRenderer
	}
	realTex, err := creator.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return fmt.Errorf("display: NewTextureFromRGBA failed: %w", err)
	}
	// Captured pixels are premultiplied.
	if pt, ok := realTex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}

	if s.texture != nil {
		s.oldTexture = s.texture
	}
	s.texture, s.width, s.height = realTex, w, h

	// NewTextureFromRGBA waits for the GPU, so the old texture is idle.
	destroyHostTexture(s.oldTexture)
	s.oldTexture = nil
	s.log.Debug("display: host texture created", "width", w, "height", h)
	return nil
}

// Close releases the request and the host texture. Close is idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	destroyHostTexture(s.oldTexture)
	destroyHostTexture(s.texture)
	s.oldTexture, s.texture = nil, nil
	s.mu.Unlock()

	s.req.Release()
	return nil
}

// readPixels reads tex back to the CPU as tightly packed RGBA.
func readPixels(tex snapshot.Texture) ([]byte, error) {
	pr, ok := tex.(pixelReader)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnreadable, tex)
	}
	data, err := pr.ReadPixels()
	if err != nil {
		return nil, fmt.Errorf("display: read pixels: %w", err)
	}
	if want := tex.Width() * tex.Height() * 4; len(data) != want {
		return nil, fmt.Errorf("display: read %d bytes, want %d", len(data), want)
	}
	return data, nil
}

func destroyHostTexture(tex any) {
	if destroyer, ok := tex.(textureDestroyer); ok {
		destroyer.Destroy()
	}
}
