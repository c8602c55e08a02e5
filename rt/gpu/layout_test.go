package gpu

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/kernel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKernel struct{}

func (fakeKernel) Name() string { return "fake" }
func (fakeKernel) Shade(kernel.Params, image.Point) mgl32.Vec4 {
	return mgl32.Vec4{}
}

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestPackParamsLighting(t *testing.T) {
	p := kernel.Params{
		Width:          800,
		Height:         600,
		LightPos:       image.Pt(-20, 310),
		LightIntensity: 5,
		BaseColor:      mgl32.Vec4{0.2, 0.5, 0.8, 1},
	}
	buf, err := PackParams(kernel.Lighting{}, p)
	require.NoError(t, err)
	require.Len(t, buf, UniformSize)

	assert.Equal(t, uint32(800), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(600), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, int32(-20), int32(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, int32(310), int32(binary.LittleEndian.Uint32(buf[12:])))
	assert.Equal(t, float32(0.2), f32At(buf, 16))
	assert.Equal(t, float32(1), f32At(buf, 28))
	assert.Equal(t, float32(5), f32At(buf, 32))
	assert.Equal(t, modeLighting, binary.LittleEndian.Uint32(buf[40:]))
}

func TestPackParamsRadial(t *testing.T) {
	p := kernel.Params{Width: 10, Height: 10}
	buf, err := PackParams(kernel.NewRadial(200), p)
	require.NoError(t, err)

	assert.Equal(t, float32(0.5), f32At(buf, 20))
	assert.Equal(t, float32(200), f32At(buf, 36))
	assert.Equal(t, modeRadial, binary.LittleEndian.Uint32(buf[40:]))

	_, err = PackParams(fakeKernel{}, p)
	assert.ErrorIs(t, err, ErrUnsupportedKernel)
}

func TestBytesPerRow(t *testing.T) {
	assert.Equal(t, uint32(256), BytesPerRow(1))
	assert.Equal(t, uint32(256), BytesPerRow(16))
	assert.Equal(t, uint32(512), BytesPerRow(17))
	assert.Equal(t, uint32(12800), BytesPerRow(800))
}

func TestUnpackRows(t *testing.T) {
	const w, h = 3, 2
	bpr := BytesPerRow(w)
	data := make([]byte, int(bpr)*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				v := float32(y*100 + x*10 + c)
				binary.LittleEndian.PutUint32(data[int(bpr)*y+x*BytesPerPixel+c*4:], math.Float32bits(v))
			}
		}
	}

	dst := core.NewImage(w, h)
	require.NoError(t, UnpackRows(data, bpr, dst))
	assert.Equal(t, mgl32.Vec4{0, 1, 2, 3}, dst.Vec4At(0, 0))
	assert.Equal(t, mgl32.Vec4{120, 121, 122, 123}, dst.Vec4At(2, 1))

	assert.Error(t, UnpackRows(data[:100], bpr, dst))
}
