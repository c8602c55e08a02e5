package lightpass

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/gekko3d/lightpass/rt/kernel"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type LightConfig struct {
	// Position defaults to the image centre when unset.
	Position  *[2]int  `yaml:"position,omitempty"`
	Intensity float32  `yaml:"intensity"`
	Radius    float32  `yaml:"radius"`
	Path      PathKind `yaml:"path"`
}

type Config struct {
	Width     int         `yaml:"width"`
	Height    int         `yaml:"height"`
	Light     LightConfig `yaml:"light"`
	BaseColor [4]float32  `yaml:"base_color"`
	Kernel    string      `yaml:"kernel"`

	Backend BackendName `yaml:"backend"`
	Workers int         `yaml:"workers"`

	// Frames is the number of frames to render; 0 renders until cancelled.
	Frames      int `yaml:"frames"`
	FPSInterval int `yaml:"fps_interval"`

	Output   string `yaml:"output"`
	Format   string `yaml:"format"`
	GIFDelay int    `yaml:"gif_delay"`

	Debug bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,
		Light: LightConfig{
			Intensity: 5,
			Radius:    kernel.DefaultRadius,
			Path:      PathStatic,
		},
		BaseColor:   [4]float32{0.2, 0.5, 0.8, 1},
		Kernel:      "lighting",
		Backend:     BackendCPU,
		Frames:      1,
		FPSInterval: 500,
		Output:      "lightpass.png",
		GIFDelay:    4,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func (c Config) LightPos() image.Point {
	if c.Light.Position == nil {
		return image.Pt(c.Width/2, c.Height/2)
	}
	return image.Pt(c.Light.Position[0], c.Light.Position[1])
}

// Params builds the kernel parameters of the first frame.
func (c Config) Params() kernel.Params {
	return kernel.Params{
		Width:          c.Width,
		Height:         c.Height,
		LightPos:       c.LightPos(),
		LightIntensity: c.Light.Intensity,
		BaseColor:      mgl32.Vec4(c.BaseColor),
	}
}

func (c Config) KernelFunc() (kernel.Kernel, error) {
	return kernel.ByName(c.Kernel, c.Light.Radius)
}

func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := c.KernelFunc(); err != nil {
		return err
	}
	switch c.Backend {
	case BackendCPU, BackendGPU:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Backend)
	}
	if !c.Light.Path.Valid() {
		return fmt.Errorf("%w: light path %q", ErrInvalidConfig, c.Light.Path)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	}
	if c.GIFDelay < 0 {
		return fmt.Errorf("%w: gif delay %d", ErrInvalidConfig, c.GIFDelay)
	}
	return nil
}
