package snapshot

import "github.com/gogpu/gputypes"

// OutputFormat is the fixed pixel format of captured textures.
const OutputFormat = gputypes.TextureFormatRGBA8Unorm

// Device is the rendering backend the scheduler drives.
//
// The scheduler never touches pixels. It allocates persistent output
// textures and effect materials through the device and hands it complete
// command sequences to execute. Implementations live in backend/software and
// backend/wgpu.
type Device interface {
	// ScreenSize returns the current back-buffer resolution in pixels.
	ScreenSize() (width, height int)

	// CreateTexture allocates a persistent texture.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateEffectMaterial builds a pass resource from the base effect
	// shader with the given capability flags enabled. The material exposes
	// pass 0 (tone and color) and pass 1 (directional blur).
	CreateEffectMaterial(keywords []string) (Material, error)

	// Execute runs a command sequence to completion. Transient buffers
	// named by the sequence are owned by the device for its duration.
	Execute(seq *CommandSequence) error
}

// PreviewSource provides the capture surface and resolution of a non-live
// (authoring or preview) context.
type PreviewSource interface {
	// PreviewSize reports the preview resolution. It may be stale or zero;
	// the sizing utility clamps it.
	PreviewSize() (width, height int)

	// PreviewSurface returns the texture holding the preview's rendered
	// frame, or ErrPreviewSurfaceMissing.
	PreviewSurface() (Texture, error)
}

// Texture is a 2-D color buffer owned by a device.
type Texture interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat

	// Destroy releases the texture. It is safe to call more than once.
	Destroy()
}

// Material is a full-screen shader pass resource.
// Effect materials come from Device.CreateEffectMaterial; custom materials
// are created by the caller against the same device and used as-is.
type Material interface {
	// Name identifies the material in logs and command dumps.
	Name() string

	// Valid reports whether the material's resources are still alive.
	Valid() bool

	// Destroy releases the material's resources. The scheduler destroys
	// effect materials it evicts; custom materials stay owned by the caller.
	Destroy()
}

// filterSetter is implemented by textures whose sampling filter can change
// without reallocation.
type filterSetter interface {
	SetFilter(FilterMode)
}

// TextureDescriptor describes a texture allocation.
type TextureDescriptor struct {
	Label  string
	Width  int
	Height int
	Format gputypes.TextureFormat
	Filter FilterMode

	// MipLevelCount is 1 for every texture the scheduler allocates.
	MipLevelCount uint32

	// AddressMode applies to both axes.
	AddressMode gputypes.AddressMode

	Usage gputypes.TextureUsage
}

// OutputDescriptor returns the descriptor of a capture output texture:
// RGBA8, one mip level, clamp-to-edge, sampled and render-attachment usage.
func OutputDescriptor(label string, w, h int, filter FilterMode) TextureDescriptor {
	return TextureDescriptor{
		Label:         label,
		Width:         w,
		Height:        h,
		Format:        OutputFormat,
		Filter:        filter,
		MipLevelCount: 1,
		AddressMode:   gputypes.AddressModeClampToEdge,
		Usage: gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopyDst,
	}
}
