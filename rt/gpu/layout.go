// Package gpu runs the lighting kernels as a WebGPU compute shader and reads
// the result back into a core.Image.
package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/kernel"
)

var (
	ErrUnavailable       = errors.New("gpu backend unavailable")
	ErrUnsupportedKernel = errors.New("kernel has no gpu implementation")
)

const (
	// UniformSize is the byte size of the WGSL Params block.
	UniformSize = 48
	// BytesPerPixel of an rgba32float texel.
	BytesPerPixel = 16
	rowAlignment  = 256
)

const (
	modeLighting uint32 = 0
	modeRadial   uint32 = 1
)

// Logger is the subset of the application logger the backend writes to.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

// PackParams lays out the uniform block:
//
//	0  size       vec2<i32>
//	8  light_pos  vec2<i32>
//	16 base_color vec4<f32> (tint for the radial kernel)
//	32 intensity  f32
//	36 radius     f32
//	40 mode       u32
func PackParams(k kernel.Kernel, p kernel.Params) ([]byte, error) {
	mode := modeLighting
	color := p.BaseColor
	var radius float32
	switch k := k.(type) {
	case kernel.Lighting:
	case kernel.Radial:
		mode = modeRadial
		color = k.Tint
		radius = k.Radius
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKernel, k.Name())
	}

	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(int32(p.Width)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(int32(p.Height)))
	binary.LittleEndian.PutUint32(buf[8:], uint32(int32(p.LightPos.X)))
	binary.LittleEndian.PutUint32(buf[12:], uint32(int32(p.LightPos.Y)))
	for i, c := range color {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(c))
	}
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(p.LightIntensity))
	binary.LittleEndian.PutUint32(buf[36:], math.Float32bits(radius))
	binary.LittleEndian.PutUint32(buf[40:], mode)
	return buf, nil
}

// BytesPerRow is the padded row pitch required for texture to buffer copies.
func BytesPerRow(width int) uint32 {
	return (uint32(width)*BytesPerPixel + rowAlignment - 1) &^ uint32(rowAlignment-1)
}

// UnpackRows copies an rgba32float readback buffer with the given row pitch
// into dst.
func UnpackRows(data []byte, bytesPerRow uint32, dst *core.Image) error {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if need := int(bytesPerRow)*(h-1) + w*BytesPerPixel; h > 0 && len(data) < need {
		return fmt.Errorf("gpu: readback holds %d bytes, need %d", len(data), need)
	}
	for y := 0; y < h; y++ {
		row := data[int(bytesPerRow)*y:]
		pix := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := range pix {
			pix[i] = math.Float32frombits(binary.LittleEndian.Uint32(row[i*4:]))
		}
	}
	return nil
}
