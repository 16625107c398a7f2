package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/gfx"
)

type Mesh struct {
	dev      *Device
	label    string
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
	count    int
}

var _ gfx.Mesh = (*Mesh)(nil)

func (d *Device) UploadMesh(label string, vertices []gfx.Vertex, indices []uint32) (gfx.Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.Errorf("mesh %s: no geometry", label)
	}
	vb, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " vertices",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %s: vertex buffer", label)
	}
	ib, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return nil, errors.Wrapf(err, "mesh %s: index buffer", label)
	}
	return &Mesh{dev: d, label: label, vertices: vb, indices: ib, count: len(indices)}, nil
}

func (m *Mesh) Draw()           { m.dev.record(m) }
func (m *Mesh) IndexCount() int { return m.count }

func (m *Mesh) Release() {
	m.vertices.Release()
	m.indices.Release()
}
