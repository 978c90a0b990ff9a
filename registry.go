package snapshot

import (
	"fmt"
	"sort"
	"sync"
)

// SchedulerFactory creates the scheduler for a render context.
type SchedulerFactory func(id ContextID) (*Scheduler, error)

// Registry owns one Scheduler per render context. The live context and every
// preview window get independent queues, pass caches and shared textures.
type Registry struct {
	factory SchedulerFactory

	mu         sync.Mutex
	schedulers map[ContextID]*Scheduler
}

// NewRegistry returns a registry that creates schedulers with factory on
// first use.
func NewRegistry(factory SchedulerFactory) *Registry {
	return &Registry{
		factory:    factory,
		schedulers: make(map[ContextID]*Scheduler),
	}
}

// Get returns the scheduler for id, creating it if needed.
func (r *Registry) Get(id ContextID) (*Scheduler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.schedulers[id]; ok {
		return s, nil
	}
	s, err := r.factory(id)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create scheduler for %q: %w", id, err)
	}
	r.schedulers[id] = s
	return s, nil
}

// Lookup returns the scheduler for id without creating one.
func (r *Registry) Lookup(id ContextID) (*Scheduler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedulers[id]
	return s, ok
}

// Remove closes and forgets the scheduler for id. It reports whether one
// existed.
func (r *Registry) Remove(id ContextID) bool {
	r.mu.Lock()
	s, ok := r.schedulers[id]
	delete(r.schedulers, id)
	r.mu.Unlock()

	if ok {
		_ = s.Close()
	}
	return ok
}

// IDs returns the registered context IDs in sorted order.
func (r *Registry) IDs() []ContextID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ContextID, 0, len(r.schedulers))
	for id := range r.schedulers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close closes every scheduler.
func (r *Registry) Close() error {
	r.mu.Lock()
	all := r.schedulers
	r.schedulers = make(map[ContextID]*Scheduler)
	r.mu.Unlock()

	for _, s := range all {
		_ = s.Close()
	}
	return nil
}
