// Package backend provides a pluggable device registry for the snapshot
// scheduler.
//
// A backend turns the scheduler's command sequences into pixels. Two are
// provided: backend/software runs every pass on the CPU over image.RGBA
// buffers, backend/wgpu runs them as full-screen render passes on a host
// GPU device.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import (
//		_ "github.com/gogpu/snapshot/backend/software"
//		_ "github.com/gogpu/snapshot/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use Default() to open the best available backend, or Open() to request
// a specific backend by name:
//
//	dev, err := backend.Default(backend.Options{Width: 1920, Height: 1080, Provider: app})
//
//	// Or request a specific backend
//	dev, err := backend.Open("software", backend.Options{Width: 800, Height: 600})
//
// The wgpu backend needs a gpucontext.DeviceProvider; without one Default
// falls back to software.
package backend
