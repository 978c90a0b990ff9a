package snapshot

import "sync"

// Request is one capture job: a configuration, optional custom passes and a
// completion callback, plus the output texture it fills.
//
// A Request is registered with a Scheduler each time a capture is wanted.
// Identity is pointer identity; registering the same request twice before
// the next render point captures once.
//
// In local mode the request owns its output texture. In global mode every
// global request of a scheduler shares one texture owned by the scheduler.
type Request struct {
	// PostAction, if set, is called once after each successful capture.
	// In live contexts it runs from Scheduler.EndOfFrame, in preview
	// contexts from Scheduler.OnFrameRenderPoint.
	PostAction func(*Request)

	mu        sync.Mutex
	config    RequestConfig
	materials []Material
	global    bool
	output    Texture
	slot      *sharedTexture
}

// NewRequest returns a local-mode request with cfg normalized.
func NewRequest(cfg RequestConfig) *Request {
	return &Request{config: cfg.Normalized()}
}

// Config returns the normalized configuration.
func (r *Request) Config() RequestConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig replaces the configuration, normalizing it. It takes effect at
// the next capture.
func (r *Request) SetConfig(cfg RequestConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = cfg.Normalized()
}

// CustomMaterials returns the custom passes applied after blur.
func (r *Request) CustomMaterials() []Material {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Material(nil), r.materials...)
}

// SetCustomMaterials sets the custom passes applied after blur, in order.
// Each runs its pass 0. Nil entries are skipped at build time.
func (r *Request) SetCustomMaterials(ms ...Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials = append(r.materials[:0:0], ms...)
}

// Global reports whether the request writes the scheduler's shared texture.
func (r *Request) Global() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.global
}

// SetGlobal switches between the shared texture and a request-owned one.
// Switching does not free anything; call Release first to drop a local
// texture.
func (r *Request) SetGlobal(global bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = global
}

// Texture returns the captured texture, or nil before the first successful
// capture or after Release.
func (r *Request) Texture() Texture {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.global {
		return r.slot.get()
	}
	return r.output
}

// Release frees the output. A local texture is destroyed; a global request
// only detaches from the shared texture, which stays valid for the others.
func (r *Request) Release() {
	r.mu.Lock()
	out := r.output
	r.output = nil
	r.slot = nil
	r.mu.Unlock()

	if out != nil {
		out.Destroy()
	}
}

// snapshot reads everything the pass builder needs under one lock.
func (r *Request) snapshot() (cfg RequestConfig, materials []Material, global bool, output Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config, append([]Material(nil), r.materials...), r.global, r.output
}

// attach records the output chosen by the builder.
func (r *Request) attach(output Texture, slot *sharedTexture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot != nil {
		r.slot = slot
		return
	}
	r.output = output
}

// target returns the texture a pending capture should write. It differs from
// the texture seen at build time once the request was released.
func (r *Request) target() Texture {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.global {
		return r.slot.get()
	}
	return r.output
}

// sharedTexture is the per-scheduler slot written by global requests.
type sharedTexture struct {
	mu  sync.Mutex
	tex Texture
}

func (s *sharedTexture) get() Texture {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tex
}

func (s *sharedTexture) set(tex Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tex = tex
}

// take clears the slot and returns the previous texture.
func (s *sharedTexture) take() Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	tex := s.tex
	s.tex = nil
	return tex
}
