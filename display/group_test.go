// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/snapshot"
)

func TestGroup(t *testing.T) {
	sched := newTestScheduler(t, 32, 16, color.RGBA{R: 128, G: 64, A: 255})

	blurred := snapshot.DefaultConfig()
	gray := snapshot.DefaultConfig()
	gray.EffectMode = snapshot.EffectGrayscale

	a, _ := NewSource(sched, blurred)
	b, _ := NewSource(sched, gray)
	g := NewGroup(a, b, nil, a)

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	if g.Captured() {
		t.Error("Captured() = true before CaptureAll")
	}
	if err := g.CaptureAll(); err != nil {
		t.Fatalf("CaptureAll() error = %v", err)
	}
	frame(sched)
	if !g.Captured() {
		t.Errorf("Captured() = false after frame (stats %+v)", sched.Stats())
	}

	g.ReleaseAll()
	if a.Captured() || b.Captured() {
		t.Error("ReleaseAll left a captured texture")
	}

	g.Remove(b)
	if g.Len() != 1 {
		t.Errorf("Len() after Remove = %d, want 1", g.Len())
	}

	if err := g.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", g.Len())
	}
	if err := a.Capture(); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("closed source Capture() error = %v, want %v", err, ErrSourceClosed)
	}
	if err := b.Capture(); err != nil {
		t.Errorf("removed source Capture() error = %v", err)
	}
	_ = b.Close()
}

func TestGroupCaptureAllJoinsErrors(t *testing.T) {
	sched := newTestScheduler(t, 8, 8, color.RGBA{A: 255})
	a, _ := NewSource(sched, snapshot.DefaultConfig())
	b, _ := NewSource(sched, snapshot.DefaultConfig())
	_ = a.Close()

	g := NewGroup(a, b)
	defer g.Close()
	err := g.CaptureAll()
	if !errors.Is(err, ErrSourceClosed) {
		t.Errorf("CaptureAll() error = %v, want %v", err, ErrSourceClosed)
	}
	if sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", sched.Pending())
	}
}
