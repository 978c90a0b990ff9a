package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ContextID names a render context. The live game view uses LiveContext;
// each preview window gets its own ID.
type ContextID string

// LiveContext is the default context ID.
const LiveContext ContextID = "live"

// Scheduler batches capture requests for one render context.
//
// Per frame the host calls OnFrameRenderPoint once the frame is rendered,
// which builds a command sequence for every request registered since the
// last call, and EndOfFrame after presentation, which executes the
// sequences and fires the callbacks. A preview scheduler executes
// synchronously from OnFrameRenderPoint and never defers.
//
// Scheduler is safe for concurrent use. Register may be called from any
// goroutine; OnFrameRenderPoint and EndOfFrame are expected from the host's
// render goroutine.
type Scheduler struct {
	device  Device
	preview PreviewSource
	id      ContextID
	log     *slog.Logger
	passes  *passCache
	global  *sharedTexture

	mu      sync.Mutex
	queue   []*Request
	queued  map[*Request]struct{}
	pending []*pendingSequence
	closed  bool

	processed atomic.Uint64
	failed    atomic.Uint64
	skipped   atomic.Uint64
}

// pendingSequence is a built sequence waiting for the end of the frame.
type pendingSequence struct {
	req    *Request // nil for raw Submit
	seq    *CommandSequence
	output Texture
	future *Future
}

// Stats holds scheduler counters.
type Stats struct {
	// Processed counts sequences executed successfully.
	Processed uint64
	// Failed counts requests dropped by an error or panic.
	Failed uint64
	// Skipped counts requests dropped without error: a missing preview
	// surface or an output released before execution.
	Skipped uint64
	// Pending is the number of requests waiting for the next render point.
	Pending int
	// Deferred is the number of sequences waiting for the end of the frame.
	Deferred int
	// Passes is the number of cached effect passes.
	Passes int
	// PassHits and PassMisses count effect pass cache lookups.
	PassHits, PassMisses uint64
}

// NewScheduler creates a scheduler driving device.
func NewScheduler(device Device, opts ...Option) (*Scheduler, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	log := o.logger.With("context", string(o.id))

	s := &Scheduler{
		device:  device,
		preview: o.preview,
		id:      o.id,
		log:     log,
		passes:  newPassCache(device, log),
		global:  &sharedTexture{},
		queued:  make(map[*Request]struct{}),
	}
	log.Info("snapshot: scheduler created", "preview", o.preview != nil)
	return s, nil
}

// ID returns the scheduler's context ID.
func (s *Scheduler) ID() ContextID { return s.id }

// Live reports whether the scheduler defers execution to EndOfFrame.
func (s *Scheduler) Live() bool { return s.preview == nil }

// Register queues req for the next render point. Nil requests and requests
// already queued are ignored, as is everything after Close.
func (s *Scheduler) Register(req *Request) {
	if req == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.queued[req]; ok {
		return
	}
	s.queued[req] = struct{}{}
	s.queue = append(s.queue, req)
}

// Pending returns the number of requests waiting for the next render point.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// OnFrameRenderPoint processes every registered request in registration
// order and empties the queue. A failing request is logged and dropped
// without its callback; the others still run. Requests registered while the
// batch is processed, including from a synchronous callback, wait for the
// next call.
func (s *Scheduler) OnFrameRenderPoint() {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	clear(s.queued)
	closed := s.closed
	s.mu.Unlock()

	if closed || len(batch) == 0 {
		return
	}
	s.log.Debug("snapshot: render point", "requests", len(batch))
	for _, req := range batch {
		s.process(req)
	}
}

// process builds and submits one request inside the failure boundary.
func (s *Scheduler) process(req *Request) {
	defer s.recoverRequest("build")

	seq, err := s.BuildCommands(req)
	if err != nil {
		s.drop(err, "build")
		return
	}
	s.submit(req, seq, req.target())
}

// Submit schedules a command sequence that is not tied to a request. A live
// scheduler runs it at the next EndOfFrame; a preview scheduler runs it now.
func (s *Scheduler) Submit(seq *CommandSequence) *Future {
	if seq == nil {
		return resolvedFuture(nil)
	}
	return s.submit(nil, seq, nil)
}

func (s *Scheduler) submit(req *Request, seq *CommandSequence, output Texture) *Future {
	p := &pendingSequence{req: req, seq: seq, output: output, future: newFuture()}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		p.future.resolve(ErrSchedulerClosed)
		return p.future
	}
	if s.preview != nil {
		s.mu.Unlock()
		s.run(p)
		return p.future
	}
	s.pending = append(s.pending, p)
	s.mu.Unlock()
	return p.future
}

// retargetPending moves deferred sequences from a replaced global texture
// to its successor.
func (s *Scheduler) retargetPending(from, to Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pending {
		if p.output != from {
			continue
		}
		p.seq.retarget(from, to)
		p.output = to
	}
}

// EndOfFrame executes the deferred sequences in submission order and fires
// the callback of each request that succeeded.
func (s *Scheduler) EndOfFrame() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, p := range batch {
		s.run(p)
	}
}

// run executes one sequence inside the failure boundary.
func (s *Scheduler) run(p *pendingSequence) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("snapshot: panic during execute: %v", r)
			p.future.resolve(err)
			s.drop(err, "execute")
		}
	}()

	if p.req != nil && p.req.target() != p.output {
		p.future.resolve(ErrRequestReleased)
		s.drop(ErrRequestReleased, "execute")
		return
	}

	if err := s.device.Execute(p.seq); err != nil {
		err = fmt.Errorf("snapshot: execute %q: %w", p.seq.Name, err)
		p.future.resolve(err)
		s.drop(err, "execute")
		return
	}

	s.processed.Add(1)
	p.future.resolve(nil)
	if p.req != nil && p.req.PostAction != nil {
		s.callback(p.req)
	}
}

// callback runs the request's PostAction. A panic there is logged but does
// not turn the completed capture into a failure.
func (s *Scheduler) callback(req *Request) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("snapshot: post action panicked", "stage", "callback", "err", r)
		}
	}()
	req.PostAction(req)
}

func (s *Scheduler) recoverRequest(stage string) {
	if r := recover(); r != nil {
		s.drop(fmt.Errorf("snapshot: panic during %s: %v", stage, r), stage)
	}
}

// drop accounts for a request that will not produce a capture this cycle.
func (s *Scheduler) drop(err error, stage string) {
	if errors.Is(err, ErrPreviewSurfaceMissing) || errors.Is(err, ErrRequestReleased) {
		s.skipped.Add(1)
		s.log.Debug("snapshot: request skipped", "stage", stage, "err", err)
		return
	}
	s.failed.Add(1)
	s.log.Warn("snapshot: request dropped", "stage", stage, "err", err)
}

// GetOrCreatePass returns the cached effect pass for req's configuration.
func (s *Scheduler) GetOrCreatePass(req *Request) (Material, error) {
	return s.passes.get(req.Config())
}

// GlobalTexture returns the texture shared by global requests, or nil.
func (s *Scheduler) GlobalTexture() Texture { return s.global.get() }

// ReleaseGlobal destroys the shared texture. Global requests see nil until
// their next capture.
func (s *Scheduler) ReleaseGlobal() {
	if tex := s.global.take(); tex != nil {
		tex.Destroy()
	}
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	pending, deferred := len(s.queue), len(s.pending)
	s.mu.Unlock()

	ps := s.passes.stats()
	return Stats{
		Processed:  s.processed.Load(),
		Failed:     s.failed.Load(),
		Skipped:    s.skipped.Load(),
		Pending:    pending,
		Deferred:   deferred,
		Passes:     ps.Len,
		PassHits:   ps.Hits,
		PassMisses: ps.Misses,
	}
}

// Close drops queued requests, fails deferred sequences with
// ErrSchedulerClosed, destroys the effect passes and the shared texture.
// Textures owned by local requests are left to their owners. Close is
// idempotent.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.pending
	s.pending = nil
	s.queue = nil
	clear(s.queued)
	s.mu.Unlock()

	for _, p := range pending {
		p.future.resolve(ErrSchedulerClosed)
	}
	s.passes.clear()
	s.ReleaseGlobal()
	s.log.Info("snapshot: scheduler closed")
	return nil
}
