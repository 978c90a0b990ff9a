// Package wgpu implements a snapshot.Device on the gogpu/wgpu hardware
// abstraction layer.
//
// The device shares the host application's HAL device and queue, obtained
// from a gpucontext.DeviceProvider that also exposes HalDevice and
// HalQueue. Every blit of a command sequence becomes one full-screen
// render pass into an RGBA8 target; the whole sequence is submitted as a
// single command buffer and Execute waits on a fence for it.
//
// Shaders are WGSL, embedded from the shaders directory and compiled to
// SPIR-V with naga:
//
//   - common.wgsl declares the full-screen triangle, the Params uniform
//     and the source texture binding shared by every pass.
//   - blit.wgsl is the plain copy used for material-less blits.
//   - effect.wgsl holds the base effect material: fs_main is pass 0
//     (tone effect and color operation), fs_blur pass 1 (directional blur).
//
// Effect materials share one compiled program and select their branch
// through the uniform, so the pass-resource cache holds cheap handles.
// Custom materials are compiled from caller WGSL with CreateMaterial.
//
// Importing the package registers it with the backend registry under
// backend.BackendWGPU.
package wgpu
