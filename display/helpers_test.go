// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/backend/software"
)

// newTestScheduler returns a live scheduler on a software device whose back
// buffer is filled with c.
func newTestScheduler(t *testing.T, w, h int, c color.RGBA) *snapshot.Scheduler {
	t.Helper()
	d := software.New(w, h)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	d.SetBackBuffer(img)

	sched, err := snapshot.NewScheduler(d)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	t.Cleanup(func() { _ = sched.Close() })
	return sched
}

// frame runs one live frame.
func frame(sched *snapshot.Scheduler) {
	sched.OnFrameRenderPoint()
	sched.EndOfFrame()
}

// destroyed reports whether a backend texture was destroyed.
func destroyed(t *testing.T, tex snapshot.Texture) bool {
	t.Helper()
	d, ok := tex.(interface{ Destroyed() bool })
	if !ok {
		t.Fatalf("texture %T has no Destroyed method", tex)
	}
	return d.Destroyed()
}
