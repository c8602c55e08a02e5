//go:build !nogpu

package gpu

import (
	"context"
	"fmt"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/dispatch"
	"github.com/gekko3d/lightpass/rt/kernel"
	"github.com/gekko3d/lightpass/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// Backend owns a headless device and the lighting compute pipeline. The
// output texture and readback buffer are recreated when the frame size
// changes. A Backend is not safe for concurrent use.
type Backend struct {
	log Logger

	instance  *wgpu.Instance
	adapter   *wgpu.Adapter
	device    *wgpu.Device
	queue     *wgpu.Queue
	pipeline  *wgpu.ComputePipeline
	paramsBuf *wgpu.Buffer

	width, height  int
	texture        *wgpu.Texture
	view           *wgpu.TextureView
	readbackBuffer *wgpu.Buffer
	bindGroup      *wgpu.BindGroup
}

func New(log Logger) (*Backend, error) {
	b := &Backend{log: log}
	if err := b.init(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init() error {
	var err error
	b.instance = wgpu.CreateInstance(nil)

	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: request adapter: %v", ErrUnavailable, err)
	}

	b.device, err = b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Lightpass Device",
	})
	if err != nil {
		return fmt.Errorf("%w: request device: %v", ErrUnavailable, err)
	}
	b.queue = b.device.GetQueue()

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Lighting CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.LightingWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: compile lighting shader: %w", err)
	}
	defer module.Release()

	// Layout auto
	b.pipeline, err = b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Lighting Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create lighting pipeline: %w", err)
	}

	b.paramsBuf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Lighting Params",
		Size:  UniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create params buffer: %w", err)
	}

	if b.log != nil {
		b.log.Infof("GPU backend ready (workgroup %dx%d)", dispatch.TileSize, dispatch.TileSize)
	}
	return nil
}

func (b *Backend) Name() string { return "gpu" }

// Dispatch renders one frame of k into dst.
func (b *Backend) Dispatch(ctx context.Context, k kernel.Kernel, p kernel.Params, dst *core.Image) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := dst.CheckSize(p.Width, p.Height); err != nil {
		return err
	}
	params, err := PackParams(k, p)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.ensureTarget(p.Width, p.Height); err != nil {
		return err
	}

	if err := b.queue.WriteBuffer(b.paramsBuf, 0, params); err != nil {
		return fmt.Errorf("gpu: upload params: %w", err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: create encoder: %w", err)
	}
	defer encoder.Release()

	gx, gy := dispatch.NewGrid(p.Width, p.Height).Groups()
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.bindGroup, nil)
	pass.DispatchWorkgroups(uint32(gx), uint32(gy), 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("gpu: end compute pass: %w", err)
	}

	bytesPerRow := BytesPerRow(p.Width)
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  b.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: b.readbackBuffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: uint32(p.Height),
			},
		},
		&wgpu.Extent3D{Width: uint32(p.Width), Height: uint32(p.Height), DepthOrArrayLayers: 1},
	)

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish encoder: %w", err)
	}
	defer cmdBuffer.Release()
	b.queue.Submit(cmdBuffer)

	return b.readback(bytesPerRow, dst)
}

// readback maps the readback buffer and blocks, polling the device, until
// the copy has landed.
func (b *Backend) readback(bytesPerRow uint32, dst *core.Image) error {
	status := make(chan wgpu.BufferMapAsyncStatus, 1)
	size := b.readbackBuffer.GetSize()
	b.readbackBuffer.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status <- s
	})

	for {
		select {
		case s := <-status:
			if s != wgpu.BufferMapAsyncStatusSuccess {
				return fmt.Errorf("gpu: map readback buffer: status %v", s)
			}
			data := b.readbackBuffer.GetMappedRange(0, uint(size))
			err := UnpackRows(data, bytesPerRow, dst)
			b.readbackBuffer.Unmap()
			return err
		default:
			b.device.Poll(true, nil)
		}
	}
}

func (b *Backend) ensureTarget(w, h int) error {
	if b.texture != nil && b.width == w && b.height == h {
		return nil
	}
	b.releaseTarget()

	var err error
	b.texture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Lighting Output",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA32Float,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageCopySrc,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("gpu: create output texture: %w", err)
	}
	b.view, err = b.texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: create output view: %w", err)
	}

	b.readbackBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Lighting Readback",
		Size:  uint64(BytesPerRow(w)) * uint64(h),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return fmt.Errorf("gpu: create readback buffer: %w", err)
	}

	bgl := b.pipeline.GetBindGroupLayout(0)
	defer bgl.Release()
	b.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Lighting BG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.paramsBuf, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: b.view},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}

	b.width, b.height = w, h
	if b.log != nil {
		b.log.Debugf("GPU output target %dx%d (row pitch %d)", w, h, BytesPerRow(w))
	}
	return nil
}

func (b *Backend) releaseTarget() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.readbackBuffer != nil {
		b.readbackBuffer.Release()
		b.readbackBuffer = nil
	}
	if b.view != nil {
		b.view.Release()
		b.view = nil
	}
	if b.texture != nil {
		b.texture.Release()
		b.texture = nil
	}
	b.width, b.height = 0, 0
}

func (b *Backend) Close() error {
	b.releaseTarget()
	if b.paramsBuf != nil {
		b.paramsBuf.Release()
		b.paramsBuf = nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	return nil
}
