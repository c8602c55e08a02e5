package kernel

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Lighting paints the coordinate gradient lit by a single point light.
//
// The scalar factors scale alpha as well as RGB, so the stored alpha is
// shadow*attenuation*baseColor.a rather than 1. The arithmetic is kept as is.
type Lighting struct{}

func (Lighting) Name() string { return "lighting" }

func (Lighting) Shade(p Params, coords image.Point) mgl32.Vec4 {
	dist := Distance(coords, p.LightPos)
	attenuation := Attenuation(p.LightIntensity, dist)
	gradient := Gradient(p, coords)
	shadow := Smoothstep(0, 1, attenuation)
	return mulVec4(p.BaseColor.Mul(shadow), gradient).Mul(attenuation)
}
