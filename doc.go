// Package snapshot captures rendered frames and runs them through a fixed
// chain of full-screen post effects, producing textures that display
// elements can show as blurred or tinted backdrops.
//
// # Overview
//
// A Request describes one capture: a tone effect (grayscale, sepia,
// negative, pixelate), a color mode with an effect color, a separable blur
// and the resolutions of the output and the working buffers. Requests are
// registered with a Scheduler every time a fresh capture is wanted:
//
//	req := snapshot.NewRequest(snapshot.DefaultConfig())
//	req.PostAction = func(r *snapshot.Request) {
//	    backdrop.SetTexture(r.Texture())
//	}
//	sched.Register(req)
//
// # Frame Flow
//
// The host drives the scheduler from its frame loop:
//
//	sched.OnFrameRenderPoint() // after the frame is rendered
//	present()
//	sched.EndOfFrame()         // captured textures become available
//
// OnFrameRenderPoint turns every registered request into a CommandSequence:
// copy the frame, run the effect pass, ping-pong the blur, apply custom
// materials, copy into the output texture. EndOfFrame executes the
// sequences on the Device and invokes PostAction. Preview contexts (see
// WithPreview) capture a preview surface and execute immediately.
//
// # Resources
//
// Output textures are RGBA8 with a single mip level and clamp-to-edge
// addressing. They are reused until the computed size changes. A local
// request owns its texture and frees it with Release; global requests share
// one texture owned by the scheduler. Effect passes are compiled once per
// material hash and cached per scheduler, bounded by MaxPassResources.
//
// # Backends
//
// The Device interface is implemented by backend/software, which executes
// sequences on the CPU, and backend/wgpu, which records them as render
// passes on a gogpu/wgpu HAL device.
//
// # Failure Handling
//
// Each request is processed inside its own failure boundary. An error or
// panic drops that request for the cycle, without a callback, and is logged
// through the slog logger configured with SetLogger. Other requests in the
// batch are unaffected.
package snapshot
