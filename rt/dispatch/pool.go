package dispatch

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Invocation is called once per in-bounds coordinate. Calls for different
// coordinates may run concurrently and in any order.
type Invocation func(coords image.Point)

// Pool runs tiles with at most Workers goroutines. Zero means GOMAXPROCS.
type Pool struct {
	Workers int
}

func NewPool(workers int) *Pool {
	return &Pool{Workers: workers}
}

func (p *Pool) workers() int {
	if p == nil || p.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return p.Workers
}

// Run invokes fn for every coordinate of g. It stops scheduling tiles once
// ctx is done and returns ctx.Err(); tiles already started run to completion.
func (p *Pool) Run(ctx context.Context, g Grid, fn Invocation) error {
	gx, gy := g.Groups()
	if gx == 0 || gy == 0 {
		return ctx.Err()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers())

	bounds := g.Bounds()
loop:
	for ty := 0; ty < gy; ty++ {
		for tx := 0; tx < gx; tx++ {
			if egCtx.Err() != nil {
				break loop
			}
			tile := g.Tile(tx, ty)
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				runTile(tile, bounds, fn)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Sequential walks the grid tile by tile on the calling goroutine.
func Sequential(g Grid, fn Invocation) {
	gx, gy := g.Groups()
	bounds := g.Bounds()
	for ty := 0; ty < gy; ty++ {
		for tx := 0; tx < gx; tx++ {
			runTile(g.Tile(tx, ty), bounds, fn)
		}
	}
}

func runTile(tile, bounds image.Rectangle, fn Invocation) {
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			pt := image.Point{X: x, Y: y}
			// tile padding past the image edge
			if !pt.In(bounds) {
				continue
			}
			fn(pt)
		}
	}
}
