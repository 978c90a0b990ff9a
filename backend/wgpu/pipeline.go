package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/snapshot"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/common.wgsl
var commonShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

//go:embed shaders/effect.wgsl
var effectShaderSource string

// Fragment entry points of the effect shader, indexed by pass.
var effectEntryPoints = []string{"fs_main", "fs_blur"}

// passSource prepends the shared declarations to a fragment body.
func passSource(body string) string {
	return commonShaderSource + "\n" + body
}

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// program is a compiled pass shader with one render pipeline per pass.
type program struct {
	label     string
	shader    hal.ShaderModule
	pipelines []hal.RenderPipeline
}

// createProgram compiles body and builds a pipeline for each fragment
// entry point. On error every resource created so far is destroyed.
func (d *Device) createProgram(label, body string, entryPoints []string) (*program, error) {
	code, err := compileWGSL(passSource(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, label, err)
	}

	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s shader: %w", label, err)
	}
	p := &program{label: label, shader: shader}

	for _, entry := range entryPoints {
		pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  label + "_" + entry,
			Layout: d.pipeLayout,
			Vertex: hal.VertexState{
				Module:     shader,
				EntryPoint: "vs_main",
			},
			Fragment: &hal.FragmentState{
				Module:     shader,
				EntryPoint: entry,
				Targets: []gputypes.ColorTargetState{
					{
						Format:    snapshot.OutputFormat,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleList,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			d.destroyProgram(p)
			return nil, fmt.Errorf("wgpu: create %s pipeline %s: %w", label, entry, err)
		}
		p.pipelines = append(p.pipelines, pipeline)
	}
	return p, nil
}

// destroyProgram releases pipelines and the shader module in reverse
// creation order.
func (d *Device) destroyProgram(p *program) {
	if p == nil {
		return
	}
	for _, pipeline := range p.pipelines {
		d.device.DestroyRenderPipeline(pipeline)
	}
	p.pipelines = nil
	if p.shader != nil {
		d.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// createLayouts builds the bind group and pipeline layouts shared by every
// pass: the Params uniform, the source texture and its sampler.
func (d *Device) createLayouts() error {
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "snapshot_pass_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	d.layout = layout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "snapshot_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.layout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout
	return nil
}

// sampler returns the cached sampler of a filter mode.
func (d *Device) sampler(f snapshot.FilterMode) (hal.Sampler, error) {
	if s, ok := d.samplers[f]; ok {
		return s, nil
	}
	minMag, mip := f.Sampler()
	s, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "snapshot_sampler_" + f.String(),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    minMag,
		MinFilter:    minMag,
		MipmapFilter: mip,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s sampler: %w", f, err)
	}
	d.samplers[f] = s
	return s, nil
}
