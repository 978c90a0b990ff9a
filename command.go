package snapshot

import (
	"fmt"
	"strings"
)

// TargetKind distinguishes the buffers a command can read or write.
type TargetKind uint8

// Target kinds.
const (
	// TargetTemporary is a transient buffer named by a PropertyID.
	TargetTemporary TargetKind = iota
	// TargetBackBuffer is the device's current frame.
	TargetBackBuffer
	// TargetTexture is a persistent texture.
	TargetTexture
)

// Target is a blit source or destination.
type Target struct {
	Kind    TargetKind
	ID      PropertyID // TargetTemporary only
	Texture Texture    // TargetTexture only
}

// TemporaryTarget names a transient buffer.
func TemporaryTarget(id PropertyID) Target { return Target{Kind: TargetTemporary, ID: id} }

// BackBufferTarget names the current frame.
func BackBufferTarget() Target { return Target{Kind: TargetBackBuffer} }

// TextureTarget names a persistent texture.
func TextureTarget(tex Texture) Target { return Target{Kind: TargetTexture, Texture: tex} }

func (t Target) String() string {
	switch t.Kind {
	case TargetTemporary:
		return t.ID.Name()
	case TargetBackBuffer:
		return "backbuffer"
	default:
		if t.Texture == nil {
			return "texture(nil)"
		}
		return fmt.Sprintf("texture(%dx%d)", t.Texture.Width(), t.Texture.Height())
	}
}

// Op is a command sequence operation.
type Op uint8

// Operations.
const (
	OpGetTemporary Op = iota
	OpBlit
	OpSetGlobalVector
	OpReleaseTemporary
)

var opNames = [...]string{"GetTemporary", "Blit", "SetGlobalVector", "ReleaseTemporary"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Vec4 is a four-component shader vector.
type Vec4 [4]float32

// Command is one recorded operation. Fields not used by Op are zero.
type Command struct {
	Op Op

	// ID is the temporary buffer for GetTemporary and ReleaseTemporary and
	// the property for SetGlobalVector.
	ID PropertyID

	// GetTemporary.
	Width, Height int
	Filter        FilterMode

	// Blit. A nil Material is a plain copy.
	Src, Dst Target
	Material Material
	Pass     int

	// SetGlobalVector.
	Vector Vec4
}

func (c Command) String() string {
	switch c.Op {
	case OpGetTemporary:
		return fmt.Sprintf("GetTemporary %s %dx%d %s", c.ID.Name(), c.Width, c.Height, c.Filter)
	case OpBlit:
		if c.Material == nil {
			return fmt.Sprintf("Blit %s -> %s", c.Src, c.Dst)
		}
		return fmt.Sprintf("Blit %s -> %s %s#%d", c.Src, c.Dst, c.Material.Name(), c.Pass)
	case OpSetGlobalVector:
		return fmt.Sprintf("SetGlobalVector %s %v", c.ID.Name(), c.Vector)
	case OpReleaseTemporary:
		return fmt.Sprintf("ReleaseTemporary %s", c.ID.Name())
	default:
		return c.Op.String()
	}
}

// CommandSequence is an ordered list of commands built for one request and
// executed later by a Device. Global vectors set by a sequence are visible
// to every later blit in the same sequence.
type CommandSequence struct {
	Name     string
	Commands []Command
}

// NewCommandSequence returns an empty named sequence.
func NewCommandSequence(name string) *CommandSequence {
	return &CommandSequence{Name: name}
}

// GetTemporary allocates a transient buffer for the rest of the sequence.
func (s *CommandSequence) GetTemporary(id PropertyID, w, h int, filter FilterMode) {
	s.Commands = append(s.Commands, Command{Op: OpGetTemporary, ID: id, Width: w, Height: h, Filter: filter})
}

// Blit draws src into dst with pass of material, or copies when material is nil.
func (s *CommandSequence) Blit(src, dst Target, material Material, pass int) {
	s.Commands = append(s.Commands, Command{Op: OpBlit, Src: src, Dst: dst, Material: material, Pass: pass})
}

// SetGlobalVector sets a shader property for subsequent blits.
func (s *CommandSequence) SetGlobalVector(id PropertyID, v Vec4) {
	s.Commands = append(s.Commands, Command{Op: OpSetGlobalVector, ID: id, Vector: v})
}

// ReleaseTemporary frees a transient buffer.
func (s *CommandSequence) ReleaseTemporary(id PropertyID) {
	s.Commands = append(s.Commands, Command{Op: OpReleaseTemporary, ID: id})
}

// retarget redirects blits that read or write from to to.
func (s *CommandSequence) retarget(from, to Texture) {
	for i := range s.Commands {
		c := &s.Commands[i]
		if c.Op != OpBlit {
			continue
		}
		if c.Src.Kind == TargetTexture && c.Src.Texture == from {
			c.Src.Texture = to
		}
		if c.Dst.Kind == TargetTexture && c.Dst.Texture == from {
			c.Dst.Texture = to
		}
	}
}

// Len returns the number of recorded commands.
func (s *CommandSequence) Len() int { return len(s.Commands) }

// Clear drops all commands, keeping the name.
func (s *CommandSequence) Clear() { s.Commands = s.Commands[:0] }

// Blits returns the blit commands in order.
func (s *CommandSequence) Blits() []Command {
	var out []Command
	for _, c := range s.Commands {
		if c.Op == OpBlit {
			out = append(out, c)
		}
	}
	return out
}

// String dumps the sequence one command per line.
func (s *CommandSequence) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for i, c := range s.Commands {
		fmt.Fprintf(&b, "\n%3d %s", i, c)
	}
	return b.String()
}

// Rotation hands out ping-pong source/destination pairs: the first pass
// reads the copy buffer into the first working buffer, every later pass
// reads the previous destination and writes the other working buffer.
type Rotation struct {
	src, dst Target
	a, b     Target
	started  bool
}

// NewRotation starts a rotation reading from first and alternating between
// the working buffers a and b.
func NewRotation(first, a, b Target) *Rotation {
	return &Rotation{src: first, a: a, b: b}
}

// Next returns the source and destination of the next pass.
func (r *Rotation) Next() (src, dst Target) {
	switch {
	case !r.started:
		r.started = true
		r.dst = r.a
	case r.dst == r.a:
		r.src, r.dst = r.a, r.b
	default:
		r.src, r.dst = r.b, r.a
	}
	return r.src, r.dst
}

// Last returns the destination of the most recent pass, or the initial
// source if no pass was taken.
func (r *Rotation) Last() Target {
	if !r.started {
		return r.src
	}
	return r.dst
}
