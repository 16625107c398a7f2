// Package gpu implements the graphics boundary on WebGPU. Shaders are WGSL
// with a fixed bind layout: group 0 holds per-frame uniforms, group 1 the
// per-object uniforms at a dynamic offset, group 2 the diffuse texture and
// its sampler.
package gpu

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/logging"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type drawCall struct {
	shader  *Shader
	mesh    *Mesh
	texture *Texture
	object  [objectBlockSize]byte
}

type Device struct {
	logger logging.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	frameLayout    *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	textureLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	objectBuf      *wgpu.Buffer
	objectBG       *wgpu.BindGroup
	objectCapacity int

	sampler *wgpu.Sampler
	white   *Texture

	inFrame  bool
	clear    gfx.Color
	current  *Shader
	boundTex *Texture
	draws    []drawCall
	warned   map[string]bool
}

var _ gfx.Device = (*Device)(nil)

// NewDevice opens a device presenting to win. The window must have been
// created with the NoAPI client hint.
func NewDevice(win *glfw.Window, logger logging.Logger) (*Device, error) {
	d := &Device{
		logger: logging.OrNop(logger),
		warned: make(map[string]bool),
	}

	d.instance = wgpu.CreateInstance(nil)
	d.surface = d.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		d.Release()
		return nil, errors.Wrap(err, "request adapter")
	}
	d.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "brickbreaker device",
	})
	if err != nil {
		d.Release()
		return nil, errors.Wrap(err, "request device")
	}
	d.device = device
	d.queue = device.GetQueue()

	width, height := win.GetFramebufferSize()
	caps := d.surface.GetCapabilities(adapter)
	d.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.surface.Configure(d.adapter, d.device, d.config)

	steps := []func() error{
		d.createDepth,
		d.createLayouts,
		func() error { return d.ensureObjectCapacity(64) },
		d.createSampler,
		d.createWhite,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			d.Release()
			return nil, err
		}
	}
	d.logger.Infof("gpu: surface %dx%d format %v", width, height, d.config.Format)
	return d, nil
}

func (d *Device) createDepth() error {
	if d.depthView != nil {
		d.depthView.Release()
		d.depthTexture.Release()
	}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              d.config.Width,
			Height:             d.config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return errors.Wrap(err, "create depth texture")
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return errors.Wrap(err, "create depth view")
	}
	d.depthTexture = tex
	d.depthView = view
	return nil
}

func (d *Device) createLayouts() error {
	var err error
	d.frameLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "frame layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: frameBlockSize,
			},
		}},
	})
	if err != nil {
		return errors.Wrap(err, "create frame layout")
	}
	d.objectLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "object layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   objectBlockSize,
			},
		}},
	})
	if err != nil {
		return errors.Wrap(err, "create object layout")
	}
	d.textureLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "texture layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create texture layout")
	}
	d.pipelineLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "scene pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.frameLayout, d.objectLayout, d.textureLayout},
	})
	return errors.Wrap(err, "create pipeline layout")
}

// ensureObjectCapacity grows the dynamic object buffer to hold n draws.
func (d *Device) ensureObjectCapacity(n int) error {
	if n <= d.objectCapacity {
		return nil
	}
	capacity := d.objectCapacity
	if capacity == 0 {
		capacity = 64
	}
	for capacity < n {
		capacity *= 2
	}
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "object uniforms",
		Size:  uint64(capacity * objectStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return errors.Wrap(err, "create object buffer")
	}
	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "object bind group",
		Layout: d.objectLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Offset:  0,
			Size:    objectBlockSize,
		}},
	})
	if err != nil {
		buf.Release()
		return errors.Wrap(err, "create object bind group")
	}
	if d.objectBG != nil {
		d.objectBG.Release()
		d.objectBuf.Release()
	}
	d.objectBuf = buf
	d.objectBG = bg
	d.objectCapacity = capacity
	return nil
}

func (d *Device) createSampler() error {
	sampler, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return errors.Wrap(err, "create sampler")
	}
	d.sampler = sampler
	return nil
}

// createWhite uploads the 1x1 texture used by materials without one.
func (d *Device) createWhite() error {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []byte{255, 255, 255, 255})
	t, err := d.uploadTexture("white", img)
	if err != nil {
		return err
	}
	d.white = t
	return nil
}

func (d *Device) warnOnce(key, format string, args ...any) {
	if d.warned[key] {
		return
	}
	d.warned[key] = true
	d.logger.Warnf(format, args...)
}

// Resize reconfigures the surface after a framebuffer size change.
func (d *Device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	d.config.Width = uint32(width)
	d.config.Height = uint32(height)
	d.surface.Configure(d.adapter, d.device, d.config)
	return d.createDepth()
}

func (d *Device) BeginFrame(clear gfx.Color) error {
	if d.inFrame {
		return errors.New("gpu: BeginFrame called twice")
	}
	d.inFrame = true
	d.clear = clear
	d.current = nil
	d.boundTex = nil
	d.draws = d.draws[:0]
	return nil
}

// record captures a draw of m with the bound shader's current object
// uniforms.
func (d *Device) record(m *Mesh) {
	if !d.inFrame {
		d.warnOnce("draw-outside-frame", "gpu: mesh %s drawn outside a frame; ignored", m.label)
		return
	}
	if d.current == nil {
		d.warnOnce("draw-no-shader", "gpu: mesh %s drawn with no shader bound; ignored", m.label)
		return
	}
	d.draws = append(d.draws, drawCall{
		shader:  d.current,
		mesh:    m,
		texture: d.boundTex,
		object:  d.current.object,
	})
	d.boundTex = nil
}

// EndFrame uploads the recorded uniforms and submits one render pass.
func (d *Device) EndFrame() error {
	if !d.inFrame {
		return errors.New("gpu: EndFrame without BeginFrame")
	}
	d.inFrame = false

	if err := d.ensureObjectCapacity(len(d.draws)); err != nil {
		return err
	}
	uploaded := make(map[*Shader]bool)
	objects := make([]byte, len(d.draws)*objectStride)
	for i, dc := range d.draws {
		if !uploaded[dc.shader] {
			d.queue.WriteBuffer(dc.shader.frameBuf, 0, dc.shader.frame[:])
			uploaded[dc.shader] = true
		}
		copy(objects[i*objectStride:], dc.object[:])
	}
	if len(objects) > 0 {
		d.queue.WriteBuffer(d.objectBuf, 0, objects)
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return errors.Wrap(err, "acquire surface texture")
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return errors.Wrap(err, "create surface view")
	}
	defer view.Release()

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return errors.Wrap(err, "create command encoder")
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: d.clear.R, G: d.clear.G, B: d.clear.B, A: d.clear.A},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	for i, dc := range d.draws {
		tex := dc.texture
		if tex == nil {
			tex = d.white
		}
		pass.SetPipeline(dc.shader.pipeline)
		pass.SetBindGroup(0, dc.shader.frameBG, nil)
		pass.SetBindGroup(1, d.objectBG, []uint32{uint32(i * objectStride)})
		pass.SetBindGroup(2, tex.bindGroup, nil)
		pass.SetVertexBuffer(0, dc.mesh.vertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(dc.mesh.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(dc.mesh.count), 1, 0, 0, 0)
	}
	if err := pass.End(); err != nil {
		return errors.Wrap(err, "end render pass")
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return errors.Wrap(err, "finish command encoder")
	}
	defer cmd.Release()
	d.queue.Submit(cmd)
	d.surface.Present()
	return nil
}

// Release frees every device object. Assets uploaded through the device
// must be released first.
func (d *Device) Release() {
	if d.white != nil {
		d.white.Release()
		d.white = nil
	}
	if d.sampler != nil {
		d.sampler.Release()
		d.sampler = nil
	}
	if d.objectBG != nil {
		d.objectBG.Release()
		d.objectBuf.Release()
		d.objectBG, d.objectBuf = nil, nil
	}
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
		d.pipelineLayout = nil
	}
	for _, l := range []*wgpu.BindGroupLayout{d.frameLayout, d.objectLayout, d.textureLayout} {
		if l != nil {
			l.Release()
		}
	}
	d.frameLayout, d.objectLayout, d.textureLayout = nil, nil, nil
	if d.depthView != nil {
		d.depthView.Release()
		d.depthTexture.Release()
		d.depthView, d.depthTexture = nil, nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
