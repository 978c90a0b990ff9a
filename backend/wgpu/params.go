package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/internal/filter"
)

// paramsSize is the byte size of the Params uniform in shaders/common.wgsl.
// Layout:
//
//	effect_factor vec4<f32>          offset 0
//	color_factor  vec4<f32>          offset 16
//	texel         vec4<f32>          offset 32
//	modes         vec4<u32>          offset 48
//	weights       array<vec4<f32>,4> offset 64
const paramsSize = 128

// maxWeights is the number of blur weights the uniform holds.
const maxWeights = 16

// modes selects the branch of the effect shader.
type modes struct {
	effect snapshot.EffectMode
	color  snapshot.ColorMode
	blur   snapshot.BlurMode
}

// params is the CPU side of the Params uniform for one blit.
type params struct {
	effectFactor snapshot.Vec4
	colorFactor  snapshot.Vec4
	texel        [4]float32
	modes        [4]uint32
	weights      [maxWeights]float32
}

// newParams fills the uniform of a blit from src (srcW x srcH) into a
// dstW x dstH target.
func newParams(globals map[snapshot.PropertyID]snapshot.Vec4, m modes, pass int, srcW, srcH, dstW, dstH int) params {
	p := params{
		effectFactor: globals[snapshot.PropEffectFactor],
		colorFactor:  globals[snapshot.PropColorFactor],
		texel:        [4]float32{1 / float32(srcW), 1 / float32(srcH), float32(dstW), float32(dstH)},
	}

	kernel := filter.Kernel(filter.Blur(m.blur))
	half := min(len(kernel)/2, maxWeights-1)
	for i := 0; i <= half; i++ {
		p.weights[i] = kernel[len(kernel)/2+i]
	}
	p.modes = [4]uint32{uint32(m.effect), uint32(m.color), uint32(half), uint32(pass)}
	return p
}

// bytes encodes p in the uniform's little-endian layout.
func (p *params) bytes() []byte {
	buf := make([]byte, paramsSize)
	putVec := func(off int, v [4]float32) {
		for i, f := range v {
			binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(f))
		}
	}
	putVec(0, p.effectFactor)
	putVec(16, p.colorFactor)
	putVec(32, p.texel)
	for i, m := range p.modes {
		binary.LittleEndian.PutUint32(buf[48+i*4:], m)
	}
	for i, w := range p.weights {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(w))
	}
	return buf
}
