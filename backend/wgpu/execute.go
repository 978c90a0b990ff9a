package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/snapshot"
	"github.com/gogpu/wgpu/hal"
)

// execution is the state of one Execute call. Per-blit uniform buffers and
// bind groups live until the submission completes.
type execution struct {
	dev        *Device
	encoder    hal.CommandEncoder
	temps      map[snapshot.PropertyID]*Texture
	globals    map[snapshot.PropertyID]snapshot.Vec4
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
}

// Execute records seq into one command buffer, submits it and waits for
// the GPU.
func (d *Device) Execute(seq *snapshot.CommandSequence) error {
	if seq == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return ErrClosed
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: seq.Name,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(seq.Name); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	run := &execution{
		dev:     d,
		encoder: encoder,
		temps:   make(map[snapshot.PropertyID]*Texture),
		globals: make(map[snapshot.PropertyID]snapshot.Vec4),
	}
	defer run.cleanup()

	for i, cmd := range seq.Commands {
		if err := run.step(cmd); err != nil {
			encoder.DiscardEncoding()
			return fmt.Errorf("wgpu: %s: command %d (%s): %w", seq.Name, i, cmd, err)
		}
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)
	return d.submitAndWait(cmdBuf)
}

// submitAndWait submits one command buffer and blocks until it completes.
func (d *Device) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, d.timeout)
	if err != nil {
		return fmt.Errorf("wgpu: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %s", ErrGPUTimeout, d.timeout)
	}
	return nil
}

func (e *execution) step(cmd snapshot.Command) error {
	switch cmd.Op {
	case snapshot.OpGetTemporary:
		if old, ok := e.temps[cmd.ID]; ok {
			e.dev.putTemporary(old)
		}
		t, err := e.dev.getTemporary(cmd.ID, cmd.Width, cmd.Height, cmd.Filter)
		if err != nil {
			return err
		}
		e.temps[cmd.ID] = t
	case snapshot.OpReleaseTemporary:
		t, ok := e.temps[cmd.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTemporary, cmd.ID)
		}
		e.dev.putTemporary(t)
		delete(e.temps, cmd.ID)
	case snapshot.OpSetGlobalVector:
		e.globals[cmd.ID] = cmd.Vector
	case snapshot.OpBlit:
		return e.blit(cmd)
	default:
		return fmt.Errorf("wgpu: unsupported op %s", cmd.Op)
	}
	return nil
}

func (e *execution) resolve(t snapshot.Target) (*Texture, error) {
	var tex *Texture
	switch t.Kind {
	case snapshot.TargetTemporary:
		tmp, ok := e.temps[t.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemporary, t.ID)
		}
		return tmp, nil
	case snapshot.TargetBackBuffer:
		if e.dev.back == nil {
			return nil, ErrNoBackBuffer
		}
		tex = e.dev.back
	case snapshot.TargetTexture:
		wt, ok := t.Texture.(*Texture)
		if !ok || wt == nil || wt.dev != e.dev {
			return nil, fmt.Errorf("%w: %T", ErrForeignResource, t.Texture)
		}
		tex = wt
	default:
		return nil, fmt.Errorf("wgpu: unknown target kind %d", t.Kind)
	}
	if tex.Destroyed() {
		return nil, fmt.Errorf("%w: texture %q", ErrDestroyed, tex.label)
	}
	return tex, nil
}

// blit records one full-screen render pass drawing src into dst.
func (e *execution) blit(cmd snapshot.Command) error {
	prog, m := e.dev.blit, modes{}
	if cmd.Material != nil {
		mat, ok := cmd.Material.(*Material)
		if !ok || mat.dev != e.dev {
			return fmt.Errorf("%w: material %s", ErrForeignResource, cmd.Material.Name())
		}
		if !mat.Valid() {
			return fmt.Errorf("%w: material %s", ErrDestroyed, mat.Name())
		}
		prog, m = mat.prog, mat.modes
	}
	if cmd.Pass < 0 || cmd.Pass >= len(prog.pipelines) {
		return fmt.Errorf("%w: %d of %s", ErrUnknownPass, cmd.Pass, prog.label)
	}

	src, err := e.resolve(cmd.Src)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := e.resolve(cmd.Dst)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if src == dst {
		return ErrFeedbackLoop
	}

	p := newParams(e.globals, m, cmd.Pass, src.w, src.h, dst.w, dst.h)
	bindGroup, err := e.bindGroup(src, p.bytes())
	if err != nil {
		return err
	}

	rp := e.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: prog.label,
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       dst.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(prog.pipelines[cmd.Pass])
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
	return nil
}

// bindGroup uploads a Params uniform and binds it with the source texture
// and its sampler.
func (e *execution) bindGroup(src *Texture, uniform []byte) (hal.BindGroup, error) {
	sampler, err := e.dev.sampler(src.Filter())
	if err != nil {
		return nil, err
	}
	buf, err := e.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "snapshot_params",
		Size:  uint64(len(uniform)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create params buffer: %w", err)
	}
	e.buffers = append(e.buffers, buf)
	e.dev.queue.WriteBuffer(buf, 0, uniform)

	bindGroup, err := e.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "snapshot_pass_bind",
		Layout: e.dev.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(uniform))}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	e.bindGroups = append(e.bindGroups, bindGroup)
	return bindGroup, nil
}

// cleanup frees per-blit resources and returns leftover temporaries.
func (e *execution) cleanup() {
	for _, bg := range e.bindGroups {
		e.dev.device.DestroyBindGroup(bg)
	}
	for _, buf := range e.buffers {
		e.dev.device.DestroyBuffer(buf)
	}
	for id, t := range e.temps {
		e.dev.putTemporary(t)
		delete(e.temps, id)
	}
}

// readback copies t into a staging buffer and returns its pixels tightly
// packed. Callers hold d.mu.
func (d *Device) readback(t *Texture) ([]byte, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	w, h := uint32(t.w), uint32(t.h)
	// Copy rows must be 256-byte aligned.
	stride := (w*4 + 255) &^ 255

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "snapshot_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("snapshot_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	size := uint64(stride) * uint64(h)
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "snapshot_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: stride, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)
	if err := d.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	padded := make([]byte, size)
	if err := d.queue.ReadBuffer(staging, 0, padded); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}
	return unpadRows(padded, int(w*4), int(stride), int(h)), nil
}

// unpadRows strips the row padding of a staging copy.
func unpadRows(padded []byte, rowBytes, stride, rows int) []byte {
	if rowBytes == stride {
		return padded[:rowBytes*rows]
	}
	out := make([]byte, rowBytes*rows)
	for y := 0; y < rows; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], padded[y*stride:])
	}
	return out
}
