// Package kernel holds the per-pixel shading functions of the lighting pass.
//
// Every kernel is a pure function of a pixel coordinate and a Params value.
// Arithmetic is carried out in float32 so the CPU path reproduces the values
// the compute shader produces.
package kernel

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FalloffCoefficient scales dist² in the attenuation denominator.
const FalloffCoefficient float32 = 0.01

var ErrInvalidParams = errors.New("invalid kernel parameters")

// Params are the frame-constant inputs of one dispatch.
type Params struct {
	Width          int
	Height         int
	LightPos       image.Point // may lie outside the image
	LightIntensity float32
	BaseColor      mgl32.Vec4 // not clamped
}

func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidParams, p.Width, p.Height)
	}
	if !finite(p.LightIntensity) || p.LightIntensity < 0 {
		return fmt.Errorf("%w: light intensity %v", ErrInvalidParams, p.LightIntensity)
	}
	for i, c := range p.BaseColor {
		if !finite(c) {
			return fmt.Errorf("%w: base color component %d is %v", ErrInvalidParams, i, c)
		}
	}
	return nil
}

// Bounds is the rectangle of valid invocation coordinates.
func (p Params) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// Surface is a write-only destination addressed by pixel coordinate.
type Surface interface {
	Bounds() image.Rectangle
	SetVec4(x, y int, c mgl32.Vec4)
}

// Kernel computes the colour of a single invocation.
type Kernel interface {
	Name() string
	Shade(p Params, coords image.Point) mgl32.Vec4
}

// Invoke runs k for coords and stores the result in dst. Coordinates outside
// the frame (tile padding) are dropped without a write.
func Invoke(k Kernel, p Params, coords image.Point, dst Surface) {
	if !coords.In(p.Bounds()) || !coords.In(dst.Bounds()) {
		return
	}
	dst.SetVec4(coords.X, coords.Y, k.Shade(p, coords))
}

// Distance is the Euclidean distance between two pixel coordinates.
func Distance(a, b image.Point) float32 {
	d := a.Sub(b)
	v := mgl32.Vec2{float32(d.X), float32(d.Y)}
	return v.Len()
}

// Attenuation is an inverse-square style falloff with a unit offset, so it
// equals intensity at dist 0.
func Attenuation(intensity, dist float32) float32 {
	return intensity / (1 + dist*dist*FalloffCoefficient)
}

// Smoothstep is the cubic Hermite ease between edge0 and edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Gradient is the normalised-coordinate base colouring.
func Gradient(p Params, coords image.Point) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(coords.X) / float32(p.Width),
		float32(coords.Y) / float32(p.Height),
		0.5,
		1.0,
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func mulVec4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}
