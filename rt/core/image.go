package core

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrSizeMismatch = errors.New("image size mismatch")

// Image is a float RGBA surface. Pix holds four float32 per pixel in
// row-major order; values are stored unclamped.
type Image struct {
	Pix    []float32
	Stride int
	Rect   image.Rectangle
}

func NewImage(w, h int) *Image {
	return &Image{
		Pix:    make([]float32, 4*w*h),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// CheckSize reports ErrSizeMismatch unless the image is exactly w x h.
func (m *Image) CheckSize(w, h int) error {
	if m == nil {
		return fmt.Errorf("%w: nil image, want %dx%d", ErrSizeMismatch, w, h)
	}
	if m.Rect.Dx() != w || m.Rect.Dy() != h || len(m.Pix) != 4*w*h {
		return fmt.Errorf("%w: have %dx%d, want %dx%d", ErrSizeMismatch, m.Rect.Dx(), m.Rect.Dy(), w, h)
	}
	return nil
}

func (m *Image) Bounds() image.Rectangle { return m.Rect }

func (m *Image) ColorModel() color.Model { return color.NRGBA64Model }

func (m *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.Rect) {
		return color.NRGBA64{}
	}
	c := m.Vec4At(x, y)
	return color.NRGBA64{R: unorm16(c[0]), G: unorm16(c[1]), B: unorm16(c[2]), A: unorm16(c[3])}
}

func (m *Image) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*4
}

func (m *Image) Vec4At(x, y int) mgl32.Vec4 {
	if !image.Pt(x, y).In(m.Rect) {
		return mgl32.Vec4{}
	}
	i := m.PixOffset(x, y)
	s := m.Pix[i : i+4 : i+4]
	return mgl32.Vec4{s[0], s[1], s[2], s[3]}
}

func (m *Image) SetVec4(x, y int, c mgl32.Vec4) {
	if !image.Pt(x, y).In(m.Rect) {
		return
	}
	i := m.PixOffset(x, y)
	s := m.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c[0], c[1], c[2], c[3]
}

func (m *Image) Clone() *Image {
	return &Image{Pix: append([]float32(nil), m.Pix...), Stride: m.Stride, Rect: m.Rect}
}

func (m *Image) Clear() {
	clear(m.Pix)
}

// ToNRGBA quantises to 8 bits per channel the way an rgba8 storage image
// does: clamp to [0,1], scale by 255, round to nearest.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(m.Rect)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			c := m.Vec4At(x, y)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = unorm8(c[0])
			out.Pix[i+1] = unorm8(c[1])
			out.Pix[i+2] = unorm8(c[2])
			out.Pix[i+3] = unorm8(c[3])
		}
	}
	return out
}

func (m *Image) ToNRGBA64() *image.NRGBA64 {
	out := image.NewNRGBA64(m.Rect)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			out.SetNRGBA64(x, y, m.At(x, y).(color.NRGBA64))
		}
	}
	return out
}

// Equal reports whether both images have the same bounds and identical bits.
func Equal(a, b *Image) bool {
	if a.Rect != b.Rect || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if math.Float32bits(a.Pix[i]) != math.Float32bits(b.Pix[i]) {
			return false
		}
	}
	return true
}

func unorm8(v float32) uint8 {
	return uint8(math.Round(float64(mgl32.Clamp(v, 0, 1)) * 255))
}

func unorm16(v float32) uint16 {
	return uint16(math.Round(float64(mgl32.Clamp(v, 0, 1)) * 65535))
}
