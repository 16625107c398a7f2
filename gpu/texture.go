package gpu

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/gfx"
)

type Texture struct {
	dev       *Device
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
	width     int
	height    int
}

var _ gfx.Texture = (*Texture)(nil)

func (d *Device) UploadTexture(label string, img *image.RGBA) (gfx.Texture, error) {
	return d.uploadTexture(label, img)
}

func (d *Device) uploadTexture(label string, img *image.RGBA) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.Errorf("texture %s: empty image", label)
	}
	extent := wgpu.Extent3D{
		Width:              uint32(b.Dx()),
		Height:             uint32(b.Dy()),
		DepthOrArrayLayers: 1,
	}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "texture %s: create", label)
	}

	err = d.queue.WriteTexture(
		tex.AsImageCopy(),
		img.Pix[img.PixOffset(b.Min.X, b.Min.Y):],
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: extent.Height,
		},
		&extent,
	)
	if err != nil {
		tex.Release()
		return nil, errors.Wrapf(err, "texture %s: write", label)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, errors.Wrapf(err, "texture %s: view", label)
	}
	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " bind group",
		Layout: d.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: d.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, errors.Wrapf(err, "texture %s: bind group", label)
	}
	return &Texture{
		dev:       d,
		texture:   tex,
		view:      view,
		bindGroup: bg,
		width:     b.Dx(),
		height:    b.Dy(),
	}, nil
}

// Bind makes t the diffuse texture of the next draw. Only slot 0 exists.
func (t *Texture) Bind(slot int) {
	if slot != 0 {
		t.dev.warnOnce("texture-slot", "gpu: texture slot %d is not bound by the scene pipeline", slot)
		return
	}
	t.dev.boundTex = t
}

func (t *Texture) Size() (int, int) { return t.width, t.height }

func (t *Texture) Release() {
	if t.dev.boundTex == t {
		t.dev.boundTex = nil
	}
	t.bindGroup.Release()
	t.view.Release()
	t.texture.Release()
}
