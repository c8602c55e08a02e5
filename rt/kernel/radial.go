package kernel

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

const DefaultRadius float32 = 200

// DefaultTint is the warm colour of the radial light.
var DefaultTint = mgl32.Vec4{1, 0.5, 0.2, 1}

// Radial is a linear falloff spotlight: full tint at the light position,
// fading to black at Radius. Alpha stays at Tint.W.
type Radial struct {
	Radius float32
	Tint   mgl32.Vec4
}

func NewRadial(radius float32) Radial {
	return Radial{Radius: radius, Tint: DefaultTint}
}

func (r Radial) Validate() error {
	if !finite(r.Radius) || r.Radius <= 0 {
		return fmt.Errorf("%w: radius %v", ErrInvalidParams, r.Radius)
	}
	return nil
}

func (Radial) Name() string { return "radial" }

func (r Radial) Shade(p Params, coords image.Point) mgl32.Vec4 {
	dist := Distance(coords, p.LightPos)
	intensity := mgl32.Clamp(1-dist/r.Radius, 0, 1)
	return mgl32.Vec4{r.Tint[0] * intensity, r.Tint[1] * intensity, r.Tint[2] * intensity, r.Tint[3]}
}

// ByName resolves a kernel from its configuration name.
func ByName(name string, radius float32) (Kernel, error) {
	switch name {
	case "", "lighting":
		return Lighting{}, nil
	case "radial":
		r := NewRadial(radius)
		if err := r.Validate(); err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w: unknown kernel %q", ErrInvalidParams, name)
}
