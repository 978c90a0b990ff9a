// Package software implements a snapshot.Device that executes capture
// command sequences on the CPU.
//
// Every texture is a premultiplied image.RGBA. Blits resample with the
// source buffer's filter mode (nearest, approximate bilinear or bilinear
// from golang.org/x/image/draw), and the effect material runs the tone,
// color and blur kernels of internal/filter.
//
// The device is useful headless: in tests, in the snapshot command-line
// tool, and as the fallback when no GPU device provider is available.
//
//	dev := software.New(1920, 1080)
//	dev.SetBackBuffer(frame)
//	sched, _ := snapshot.NewScheduler(dev)
//
// Importing the package registers it with the backend registry under
// backend.BackendSoftware.
//
// Custom passes are ordinary Go functions wrapped with NewMaterial:
//
//	vignette := software.NewMaterial("vignette", func(pass int, src, dst *image.RGBA, g software.Globals) error {
//		...
//	})
//	req.SetCustomMaterials(vignette)
package software
