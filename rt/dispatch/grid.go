// Package dispatch executes per-pixel invocations as a data-parallel loop
// over a grid of fixed-size tiles.
package dispatch

import "image"

// TileSize is the edge of one invocation group, matching the compute
// shader's workgroup size.
const TileSize = 16

// Grid covers an image of Width x Height with square tiles. The last row and
// column of tiles may extend past the image; those invocations are masked.
type Grid struct {
	Width    int
	Height   int
	TileSize int
}

func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, TileSize: TileSize}
}

func (g Grid) tileSize() int {
	if g.TileSize <= 0 {
		return TileSize
	}
	return g.TileSize
}

// Groups returns the number of tiles along each axis, rounded up.
func (g Grid) Groups() (int, int) {
	ts := g.tileSize()
	return (g.Width + ts - 1) / ts, (g.Height + ts - 1) / ts
}

// Tile is the full, unclipped rectangle of group (gx, gy).
func (g Grid) Tile(gx, gy int) image.Rectangle {
	ts := g.tileSize()
	return image.Rect(gx*ts, gy*ts, (gx+1)*ts, (gy+1)*ts)
}

func (g Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

// Invocations is the number of unmasked invocations in one dispatch.
func (g Grid) Invocations() int {
	if g.Width <= 0 || g.Height <= 0 {
		return 0
	}
	return g.Width * g.Height
}
