// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package display shows captured snapshots in gogpu windows.
//
// A Source wraps a snapshot.Request. Capture registers the request with a
// scheduler; once the capture lands, RenderTo uploads the captured pixels
// into a host texture and draws it:
//
//	src, err := display.NewSource(sched, snapshot.RequestConfig{
//	    EffectMode: snapshot.EffectGrayscale,
//	})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	src.Capture()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    if src.Captured() {
//	        src.RenderTo(dc.AsTextureDrawer())
//	    }
//	})
//
// The data flow is:
//
//	back buffer -> Device passes -> snapshot.Texture -> host texture -> window
//
// The host texture is created lazily on the first RenderTo after a capture
// and updated in place when later captures keep the size. A replaced host
// texture is destroyed only after its successor was created, so the GPU is
// never reading freed memory.
//
// A Group captures and releases several sources together, for screens that
// freeze the background behind more than one panel.
//
// # Thread Safety
//
// Capture and Release may be called from any goroutine. RenderTo must be
// called from the render thread that owns the TextureDrawer.
package display
