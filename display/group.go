// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"slices"
	"sync"
)

// Group captures and releases a set of sources together.
type Group struct {
	mu      sync.Mutex
	sources []*Source
}

// NewGroup returns a group holding sources.
func NewGroup(sources ...*Source) *Group {
	g := &Group{}
	g.Add(sources...)
	return g
}

// Add appends sources, skipping nil and duplicates.
func (g *Group) Add(sources ...*Source) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range sources {
		if s != nil && !slices.Contains(g.sources, s) {
			g.sources = append(g.sources, s)
		}
	}
}

// Remove drops s from the group without closing it.
func (g *Group) Remove(s *Source) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sources = slices.DeleteFunc(g.sources, func(x *Source) bool { return x == s })
}

// Len returns the number of sources.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sources)
}

func (g *Group) list() []*Source {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.sources)
}

// CaptureAll registers every source. It returns the joined errors of the
// sources that could not capture.
func (g *Group) CaptureAll() error {
	var errs []error
	for _, s := range g.list() {
		if err := s.Capture(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReleaseAll releases every source's captured texture.
func (g *Group) ReleaseAll() {
	for _, s := range g.list() {
		s.Release()
	}
}

// Captured reports whether every source holds a captured texture.
func (g *Group) Captured() bool {
	for _, s := range g.list() {
		if !s.Captured() {
			return false
		}
	}
	return true
}

// Close closes every source and empties the group.
func (g *Group) Close() error {
	g.mu.Lock()
	sources := g.sources
	g.sources = nil
	g.mu.Unlock()

	var errs []error
	for _, s := range sources {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
