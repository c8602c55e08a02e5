package lightpass

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/lightpass/rt/kernel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	p := cfg.Params()
	assert.Equal(t, 800, p.Width)
	assert.Equal(t, 600, p.Height)
	assert.Equal(t, image.Pt(400, 300), p.LightPos)
	assert.Equal(t, float32(5), p.LightIntensity)
	assert.Equal(t, mgl32.Vec4{0.2, 0.5, 0.8, 1}, p.BaseColor)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.yaml")
	doc := `
width: 256
height: 256
light:
  position: [128, 128]
  intensity: 1
base_color: [1, 1, 1, 1]
kernel: radial
backend: cpu
frames: 3
output: out/frame%02d.png
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, image.Pt(128, 128), cfg.LightPos())
	assert.Equal(t, float32(1), cfg.Light.Intensity)
	assert.Equal(t, kernel.DefaultRadius, cfg.Light.Radius, "unset keys keep defaults")
	assert.Equal(t, "radial", cfg.Kernel)
	assert.Equal(t, 3, cfg.Frames)
	assert.Equal(t, 500, cfg.FPSInterval)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("widht: 10\n"), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want error
	}{
		{"zero height", func(c *Config) { c.Height = 0 }, kernel.ErrInvalidParams},
		{"negative intensity", func(c *Config) { c.Light.Intensity = -1 }, kernel.ErrInvalidParams},
		{"unknown kernel", func(c *Config) { c.Kernel = "phong" }, kernel.ErrInvalidParams},
		{"radial without radius", func(c *Config) { c.Kernel, c.Light.Radius = "radial", 0 }, kernel.ErrInvalidParams},
		{"unknown backend", func(c *Config) { c.Backend = "vulkan" }, ErrInvalidConfig},
		{"unknown path", func(c *Config) { c.Light.Path = "zigzag" }, ErrInvalidConfig},
		{"negative workers", func(c *Config) { c.Workers = -2 }, ErrInvalidConfig},
		{"negative frames", func(c *Config) { c.Frames = -1 }, ErrInvalidConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mut(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}
