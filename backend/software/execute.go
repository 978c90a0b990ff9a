package software

import (
	"fmt"
	"image"

	"github.com/gogpu/snapshot"
)

// temporary is a transient buffer allocated by GetTemporary.
type temporary struct {
	img    *image.RGBA
	filter snapshot.FilterMode
}

// execution is the state of one Execute call.
type execution struct {
	dev     *Device
	temps   map[snapshot.PropertyID]*temporary
	globals Globals
}

// Execute runs seq to completion. Temporaries the sequence leaves
// allocated are released when it returns, even on error.
func (d *Device) Execute(seq *snapshot.CommandSequence) error {
	if seq == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	run := &execution{
		dev:     d,
		temps:   make(map[snapshot.PropertyID]*temporary),
		globals: make(Globals),
	}
	defer run.releaseAll()

	for i, cmd := range seq.Commands {
		if err := run.step(cmd); err != nil {
			return fmt.Errorf("software: %s: command %d (%s): %w", seq.Name, i, cmd, err)
		}
	}
	return nil
}

func (e *execution) step(cmd snapshot.Command) error {
	switch cmd.Op {
	case snapshot.OpGetTemporary:
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return fmt.Errorf("%w: %dx%d", snapshot.ErrInvalidSize, cmd.Width, cmd.Height)
		}
		if old, ok := e.temps[cmd.ID]; ok {
			e.dev.putImage(old.img)
		}
		e.temps[cmd.ID] = &temporary{img: e.dev.getImage(cmd.Width, cmd.Height), filter: cmd.Filter}
	case snapshot.OpReleaseTemporary:
		t, ok := e.temps[cmd.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTemporary, cmd.ID)
		}
		e.dev.putImage(t.img)
		delete(e.temps, cmd.ID)
	case snapshot.OpSetGlobalVector:
		e.globals[cmd.ID] = cmd.Vector
	case snapshot.OpBlit:
		return e.blit(cmd)
	default:
		return fmt.Errorf("software: unsupported op %s", cmd.Op)
	}
	return nil
}

// surface is a resolved blit endpoint.
type surface struct {
	img    *image.RGBA
	filter snapshot.FilterMode
	tex    *Texture
}

func (e *execution) resolve(t snapshot.Target) (surface, error) {
	switch t.Kind {
	case snapshot.TargetTemporary:
		tmp, ok := e.temps[t.ID]
		if !ok {
			return surface{}, fmt.Errorf("%w: %s", ErrUnknownTemporary, t.ID)
		}
		return surface{img: tmp.img, filter: tmp.filter}, nil
	case snapshot.TargetBackBuffer:
		return textureSurface(e.dev.back)
	case snapshot.TargetTexture:
		tex, ok := t.Texture.(*Texture)
		if !ok || tex == nil {
			return surface{}, fmt.Errorf("%w: %T", ErrForeignResource, t.Texture)
		}
		return textureSurface(tex)
	default:
		return surface{}, fmt.Errorf("software: unknown target kind %d", t.Kind)
	}
}

func textureSurface(tex *Texture) (surface, error) {
	if tex.Destroyed() {
		return surface{}, fmt.Errorf("%w: texture %q", ErrDestroyed, tex.label)
	}
	return surface{tex: tex}, nil
}

// blit draws src into dst through the command's material. Persistent
// textures are locked for the duration of the draw.
func (e *execution) blit(cmd snapshot.Command) error {
	var mat *Material
	if cmd.Material != nil {
		m, ok := cmd.Material.(*Material)
		if !ok {
			return fmt.Errorf("%w: material %s", ErrForeignResource, cmd.Material.Name())
		}
		if !m.Valid() {
			return fmt.Errorf("%w: material %s", ErrDestroyed, m.Name())
		}
		mat = m
	}

	src, err := e.resolve(cmd.Src)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := e.resolve(cmd.Dst)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	// Read the source into a scratch buffer sized like the destination so
	// the pass never reads what it writes.
	dstW, dstH := dst.size()
	scratch := e.dev.getImage(dstW, dstH)
	defer e.dev.putImage(scratch)
	if src.tex != nil {
		src.tex.mu.RLock()
		resample(scratch, src.tex.img, src.tex.filter)
		src.tex.mu.RUnlock()
	} else {
		resample(scratch, src.img, src.filter)
	}

	if dst.tex != nil {
		dst.tex.mu.Lock()
		defer dst.tex.mu.Unlock()
		dst.img = dst.tex.img
		if dst.img.Rect.Dx() != dstW || dst.img.Rect.Dy() != dstH {
			return fmt.Errorf("software: texture %q resized during blit", dst.tex.label)
		}
	}
	if mat == nil {
		copyImage(dst.img, scratch)
		return nil
	}
	return mat.run(cmd.Pass, scratch, dst.img, e.globals)
}

func (s surface) size() (int, int) {
	if s.tex != nil {
		return s.tex.Width(), s.tex.Height()
	}
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

func (e *execution) releaseAll() {
	for id, t := range e.temps {
		e.dev.putImage(t.img)
		delete(e.temps, id)
	}
}
