package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSetGet(t *testing.T) {
	img := NewImage(4, 3)
	require.Len(t, img.Pix, 48)

	img.SetVec4(3, 2, mgl32.Vec4{0.25, 2, -1, 0.5})
	assert.Equal(t, mgl32.Vec4{0.25, 2, -1, 0.5}, img.Vec4At(3, 2))
	assert.Equal(t, mgl32.Vec4{}, img.Vec4At(0, 0))

	// out of bounds writes are dropped
	img.SetVec4(4, 0, mgl32.Vec4{1, 1, 1, 1})
	img.SetVec4(0, -1, mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, mgl32.Vec4{}, img.Vec4At(4, 0))

	img.Clear()
	assert.Equal(t, mgl32.Vec4{}, img.Vec4At(3, 2))
}

func TestImageAtClamps(t *testing.T) {
	img := NewImage(1, 1)
	img.SetVec4(0, 0, mgl32.Vec4{2, -1, 0.5, 1})
	assert.Equal(t, color.NRGBA64{R: 0xffff, G: 0, B: 0x8000, A: 0xffff}, img.At(0, 0))
	assert.Equal(t, color.NRGBA64Model, img.ColorModel())
}

func TestToNRGBA(t *testing.T) {
	img := NewImage(2, 1)
	img.SetVec4(0, 0, mgl32.Vec4{0.5, 0.5, 0.5, 1})
	img.SetVec4(1, 0, mgl32.Vec4{1.7, -0.2, 0.2, 0.0298})

	out := img.ToNRGBA()
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 51, A: 8}, out.NRGBAAt(1, 0))

	wide := img.ToNRGBA64()
	assert.Equal(t, image.Rect(0, 0, 2, 1), wide.Bounds())
	assert.Equal(t, uint16(0xffff), wide.NRGBA64At(1, 0).R)
}

func TestCheckSize(t *testing.T) {
	img := NewImage(16, 9)
	assert.NoError(t, img.CheckSize(16, 9))
	assert.ErrorIs(t, img.CheckSize(9, 16), ErrSizeMismatch)

	var missing *Image
	assert.ErrorIs(t, missing.CheckSize(1, 1), ErrSizeMismatch)
}

func TestEqual(t *testing.T) {
	a := NewImage(2, 2)
	b := NewImage(2, 2)
	assert.True(t, Equal(a, b))

	b.SetVec4(1, 1, mgl32.Vec4{0, 0, 0, 1e-9})
	assert.False(t, Equal(a, b))
	assert.False(t, Equal(a, NewImage(2, 3)))
}

func TestClone(t *testing.T) {
	a := NewImage(3, 3)
	a.SetVec4(1, 1, mgl32.Vec4{1, 2, 3, 4})
	b := a.Clone()
	require.True(t, Equal(a, b))

	a.SetVec4(1, 1, mgl32.Vec4{})
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 4}, b.Vec4At(1, 1))
}
