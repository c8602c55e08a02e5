package lightpass

import (
	"image"
	"math"
)

// PathKind selects how the light moves between frames.
type PathKind string

const (
	PathStatic PathKind = "static"
	PathOrbit  PathKind = "orbit"
	PathSweep  PathKind = "sweep"
)

// orbitPeriod is the frame count of one revolution when the run is unbounded.
const orbitPeriod = 120

func (k PathKind) Valid() bool {
	switch k {
	case "", PathStatic, PathOrbit, PathSweep:
		return true
	}
	return false
}

// LightPath animates the light position over a run.
type LightPath struct {
	Kind   PathKind
	Origin image.Point
	Width  int
	Height int
	Frames int
}

func (lp LightPath) period() int {
	if lp.Frames > 0 {
		return lp.Frames
	}
	return orbitPeriod
}

// At returns the light position for frame i.
func (lp LightPath) At(i int) image.Point {
	switch lp.Kind {
	case PathOrbit:
		cx, cy := float64(lp.Width)/2, float64(lp.Height)/2
		r := float64(min(lp.Width, lp.Height)) / 3
		theta := 2 * math.Pi * float64(i%lp.period()) / float64(lp.period())
		return image.Pt(int(math.Round(cx+r*math.Cos(theta))), int(math.Round(cy+r*math.Sin(theta))))
	case PathSweep:
		n := lp.period()
		if n <= 1 || lp.Width <= 1 {
			return image.Pt(0, lp.Origin.Y)
		}
		x := (i % n) * (lp.Width - 1) / (n - 1)
		return image.Pt(x, lp.Origin.Y)
	}
	return lp.Origin
}

// LightModule moves the light along Path before every dispatch.
type LightModule struct {
	Path LightPath
}

func (m LightModule) Install(app *App, cmd *Commands) {
	path := m.Path
	cmd.AddResources(&path)
	cmd.UseSystem(StagePreDispatch, func(_ *App, f *Frame) error {
		f.Params.LightPos = path.At(f.Index)
		return nil
	})
}
