// Package filter implements the CPU versions of the snapshot passes.
//
// All functions operate on *image.RGBA buffers with premultiplied alpha and
// origin (0, 0), the layout the software device allocates:
//   - ApplyEffect: tone effect (grayscale, sepia, negative) blended by a
//     factor, then a color mode combining an effect color
//   - Pixelate: mosaic effect
//   - Directional: one step of a separable blur along a direction vector
//
// Tone and color math runs in straight alpha; blurs run in premultiplied
// space. Resampling between buffer sizes is left to the caller.
package filter
