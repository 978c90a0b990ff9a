package snapshot

import (
	"fmt"
)

// BuildCommands records the capture passes for req and makes sure its
// output texture matches the requested size.
//
// The sequence copies the source frame at reference resolution, runs the
// effect pass into a working buffer at reduction resolution, ping-pongs
// BlurIterations horizontal and vertical blur steps, applies each custom
// material, copies the last buffer into the output and releases the
// working buffers. Nothing is drawn until a Device executes the sequence;
// the only device calls made here allocate the output texture and compile
// a missing effect pass.
func (s *Scheduler) BuildCommands(req *Request) (*CommandSequence, error) {
	cfg, materials, global, output := req.snapshot()
	cfg = cfg.Normalized()

	refW, refH, source, err := s.reference()
	if err != nil {
		return nil, err
	}
	copyW, copyH := SamplingSize(SamplingNone, refW, refH)
	outW, outH := SamplingSize(cfg.DownSamplingRate, refW, refH)
	workW, workH := SamplingSize(cfg.ReductionRate, refW, refH)

	pass, err := s.passes.get(cfg)
	if err != nil {
		return nil, err
	}

	var slot *sharedTexture
	if global {
		slot = s.global
		output = slot.get()
	}
	prev := output
	output, err = s.ensureOutput(output, outW, outH, cfg.FilterMode)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		slot.set(output)
		if prev != nil && prev != output {
			// Earlier global captures of this batch still complete; the
			// last one executed decides the final content.
			s.retargetPending(prev, output)
		}
	}
	req.attach(output, slot)

	copyT := TemporaryTarget(TempCopy)
	seq := NewCommandSequence(fmt.Sprintf("snapshot %s %dx%d", s.id, outW, outH))

	seq.GetTemporary(TempCopy, copyW, copyH, cfg.FilterMode)
	seq.Blit(source, copyT, nil, 0)

	seq.SetGlobalVector(PropEffectFactor, Vec4{cfg.EffectFactor, 0, 0, 0})
	c := cfg.EffectColor
	seq.SetGlobalVector(PropColorFactor, Vec4{c.R, c.G, c.B, cfg.ColorFactor})

	seq.GetTemporary(TempEffect1, workW, workH, cfg.FilterMode)
	seq.GetTemporary(TempEffect2, workW, workH, cfg.FilterMode)

	rot := NewRotation(copyT, TemporaryTarget(TempEffect1), TemporaryTarget(TempEffect2))
	src, dst := rot.Next()
	seq.Blit(src, dst, pass, PassEffect)

	if cfg.BlurMode != BlurNone {
		for i := 0; i < cfg.BlurIterations; i++ {
			seq.SetGlobalVector(PropEffectFactor, Vec4{cfg.BlurFactor, 0, 0, 0})
			src, dst = rot.Next()
			seq.Blit(src, dst, pass, PassBlur)

			seq.SetGlobalVector(PropEffectFactor, Vec4{0, cfg.BlurFactor, 0, 0})
			src, dst = rot.Next()
			seq.Blit(src, dst, pass, PassBlur)
		}
	}

	for _, m := range materials {
		if m == nil || !m.Valid() {
			continue
		}
		src, dst = rot.Next()
		seq.Blit(src, dst, m, PassEffect)
	}

	seq.Blit(rot.Last(), TextureTarget(output), nil, 0)

	seq.ReleaseTemporary(TempCopy)
	seq.ReleaseTemporary(TempEffect1)
	seq.ReleaseTemporary(TempEffect2)
	return seq, nil
}

// reference returns the capture source and its resolution.
func (s *Scheduler) reference() (w, h int, source Target, err error) {
	if s.preview == nil {
		w, h = s.device.ScreenSize()
		return w, h, BackBufferTarget(), nil
	}
	surface, err := s.preview.PreviewSurface()
	if err != nil {
		return 0, 0, Target{}, fmt.Errorf("%w: %w", ErrPreviewSurfaceMissing, err)
	}
	if surface == nil {
		return 0, 0, Target{}, ErrPreviewSurfaceMissing
	}
	w, h = s.preview.PreviewSize()
	return w, h, TextureTarget(surface), nil
}

// ensureOutput reuses cur when it already has the requested size and
// otherwise replaces it with a new texture.
func (s *Scheduler) ensureOutput(cur Texture, w, h int, filter FilterMode) (Texture, error) {
	if cur != nil && cur.Width() == w && cur.Height() == h {
		if fs, ok := cur.(filterSetter); ok {
			fs.SetFilter(filter)
		}
		return cur, nil
	}

	tex, err := s.device.CreateTexture(OutputDescriptor("snapshot output", w, h, filter))
	if err != nil {
		return nil, fmt.Errorf("snapshot: allocate %dx%d output: %w", w, h, err)
	}
	if cur != nil {
		s.log.Debug("snapshot: output reallocated",
			"from", fmt.Sprintf("%dx%d", cur.Width(), cur.Height()),
			"to", fmt.Sprintf("%dx%d", w, h))
		cur.Destroy()
	}
	return tex, nil
}
