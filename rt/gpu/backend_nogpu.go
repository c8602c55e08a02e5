//go:build nogpu

package gpu

import (
	"context"
	"fmt"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/kernel"
)

// Backend is unavailable in builds tagged nogpu.
type Backend struct{}

func New(Logger) (*Backend, error) {
	return nil, fmt.Errorf("%w: built with nogpu tag", ErrUnavailable)
}

func (*Backend) Name() string { return "gpu" }

func (*Backend) Dispatch(context.Context, kernel.Kernel, kernel.Params, *core.Image) error {
	return ErrUnavailable
}

func (*Backend) Close() error { return nil }
