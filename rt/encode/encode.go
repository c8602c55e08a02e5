// Package encode writes rendered frames to image files.
package encode

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/lightpass/rt/core"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("unknown image format")

type Format string

const (
	FormatPNG   Format = "png"
	FormatPNG16 Format = "png16"
	FormatBMP   Format = "bmp"
	FormatTIFF  Format = "tiff"
	FormatGIF   Format = "gif"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".gif":
		return FormatGIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// ParseFormat accepts the names of the Format constants.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatPNG16, FormatBMP, FormatTIFF, FormatGIF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes a single frame. GIF output is a one-frame animation.
func Encode(w io.Writer, img *core.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img.ToNRGBA())
	case FormatPNG16:
		return png.Encode(w, img.ToNRGBA64())
	case FormatBMP:
		return bmp.Encode(w, img.ToNRGBA())
	case FormatTIFF:
		return tiff.Encode(w, img.ToNRGBA(), &tiff.Options{Compression: tiff.Deflate})
	case FormatGIF:
		return EncodeGIF(w, []*core.Image{img}, 0)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// EncodeGIF writes frames as a looping animation. delay is in 100ths of a
// second per frame.
func EncodeGIF(w io.Writer, frames []*core.Image, delay int) error {
	if len(frames) == 0 {
		return errors.New("gif: no frames")
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, frame := range frames {
		out.Image = append(out.Image, Paletted(frame))
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}

// Paletted dithers a frame onto the Plan 9 palette.
func Paletted(img *core.Image) *image.Paletted {
	src := img.ToNRGBA()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
	return dst
}

// WriteGIFFile writes frames as an animated GIF at path.
func WriteGIFFile(path string, frames []*core.Image, delay int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(file)
	if err := EncodeGIF(bw, frames, delay); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return bw.Flush()
}

// WriteFile encodes img into path using f, or the extension when f is empty.
func WriteFile(path string, img *core.Image, f Format) (err error) {
	if f == "" {
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Encode(bw, img, f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return bw.Flush()
}
