package lightpass

import (
	"context"
	"image"
	"testing"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/kernel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUBackendWorkerCountsAgree(t *testing.T) {
	p := kernel.Params{
		Width:          53,
		Height:         29,
		LightPos:       image.Pt(40, -3),
		LightIntensity: 2.5,
		BaseColor:      mgl32.Vec4{0.9, 0.4, 0.1, 1},
	}
	ref := core.NewImage(p.Width, p.Height)
	require.NoError(t, NewCPUBackend(1).Dispatch(context.Background(), kernel.Lighting{}, p, ref))

	for _, workers := range []int{0, 2, 7, 100} {
		dst := core.NewImage(p.Width, p.Height)
		require.NoError(t, NewCPUBackend(workers).Dispatch(context.Background(), kernel.Lighting{}, p, dst))
		assert.True(t, core.Equal(ref, dst), "workers=%d", workers)
	}
}

func TestCPUBackendRejectsMisconfiguration(t *testing.T) {
	b := NewCPUBackend(0)
	p := kernel.Params{Width: 16, Height: 16, LightIntensity: 1}

	err := b.Dispatch(context.Background(), kernel.Lighting{}, p, core.NewImage(16, 8))
	assert.ErrorIs(t, err, core.ErrSizeMismatch)

	p.LightIntensity = -1
	err = b.Dispatch(context.Background(), kernel.Lighting{}, p, core.NewImage(16, 16))
	assert.ErrorIs(t, err, kernel.ErrInvalidParams)
}

func TestCPUBackendRadial(t *testing.T) {
	p := kernel.Params{Width: 64, Height: 64, LightPos: image.Pt(32, 32)}
	dst := core.NewImage(64, 64)
	require.NoError(t, NewCPUBackend(0).Dispatch(context.Background(), kernel.NewRadial(16), p, dst))

	assert.Equal(t, mgl32.Vec4{1, 0.5, 0.2, 1}, dst.Vec4At(32, 32))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, dst.Vec4At(0, 0))
}
