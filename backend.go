package lightpass

import (
	"context"
	"image"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/dispatch"
	"github.com/gekko3d/lightpass/rt/kernel"
)

// Backend executes one dispatch of a kernel over the whole frame.
type Backend interface {
	Name() string
	Dispatch(ctx context.Context, k kernel.Kernel, p kernel.Params, dst *core.Image) error
	Close() error
}

// CPUBackend runs invocations on a goroutine pool, one tile per task.
type CPUBackend struct {
	pool *dispatch.Pool
}

func NewCPUBackend(workers int) *CPUBackend {
	return &CPUBackend{pool: dispatch.NewPool(workers)}
}

func (b *CPUBackend) Name() string { return string(BackendCPU) }

func (b *CPUBackend) Dispatch(ctx context.Context, k kernel.Kernel, p kernel.Params, dst *core.Image) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := dst.CheckSize(p.Width, p.Height); err != nil {
		return err
	}
	return b.pool.Run(ctx, dispatch.NewGrid(p.Width, p.Height), func(coords image.Point) {
		kernel.Invoke(k, p, coords, dst)
	})
}

func (b *CPUBackend) Close() error { return nil }
