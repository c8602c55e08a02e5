package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/lightpass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, lightpass.DefaultConfig(), cfg)
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig([]string{
		"-width", "256", "-height", "128",
		"-light", "10, 20",
		"-intensity", "1.5",
		"-color", "1,0.5,0.25,1",
		"-kernel", "radial", "-radius", "40",
		"-frames", "3", "-path", "orbit",
		"-out", "frame%03d.bmp",
	})
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
	require.NotNil(t, cfg.Light.Position)
	assert.Equal(t, [2]int{10, 20}, *cfg.Light.Position)
	assert.Equal(t, float32(1.5), cfg.Light.Intensity)
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 1}, cfg.BaseColor)
	assert.Equal(t, "radial", cfg.Kernel)
	assert.Equal(t, float32(40), cfg.Light.Radius)
	assert.Equal(t, 3, cfg.Frames)
	assert.Equal(t, lightpass.PathOrbit, cfg.Light.Path)
	assert.Equal(t, "frame%03d.bmp", cfg.Output)
}

func TestParseConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 64\nheight: 32\nlight:\n  intensity: 2\n"), 0o644))

	cfg, err := parseConfig([]string{"-config", path, "-height", "48"})
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
	assert.Equal(t, float32(2), cfg.Light.Intensity)
}

func TestParseConfigBadValues(t *testing.T) {
	_, err := parseConfig([]string{"-light", "1"})
	assert.Error(t, err)
	_, err = parseConfig([]string{"-color", "1,2,x,4"})
	assert.Error(t, err)
}

func TestRunWritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, run([]string{"-width", "40", "-height", "30", "-out", out}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
