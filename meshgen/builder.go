// Package meshgen builds CPU-side triangle meshes: a builder, a small
// parameterized shape factory, and a Wavefront OBJ reader.
package meshgen

import (
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// Builder accumulates vertices and triangle indices.
type Builder struct {
	Vertices []gfx.Vertex
	Indices  []uint32
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Empty() bool {
	return len(b.Indices) == 0
}

// AddVertex returns the index of the new vertex.
func (b *Builder) AddVertex(v gfx.Vertex) uint32 {
	b.Vertices = append(b.Vertices, v)
	return uint32(len(b.Vertices) - 1)
}

func (b *Builder) AddTriangle(i0, i1, i2 uint32) {
	b.Indices = append(b.Indices, i0, i1, i2)
}

// AddQuad expects the corners in counter-clockwise order.
func (b *Builder) AddQuad(i0, i1, i2, i3 uint32) {
	b.AddTriangle(i0, i1, i2)
	b.AddTriangle(i0, i2, i3)
}

// Append copies other into b with positions and normals moved by m.
func (b *Builder) Append(other *Builder, m mgl32.Mat4) {
	base := uint32(len(b.Vertices))
	normalMat := m.Mat3().Inv().Transpose()
	for _, v := range other.Vertices {
		p := m.Mul4x1(mgl32.Vec3(v.Position).Vec4(1)).Vec3()
		n := normalMat.Mul3x1(mgl32.Vec3(v.Normal))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		v.Position = p
		v.Normal = n
		b.Vertices = append(b.Vertices, v)
	}
	for _, i := range other.Indices {
		b.Indices = append(b.Indices, base+i)
	}
}

// Bounds returns the axis-aligned min and max corners.
func (b *Builder) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(b.Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo := mgl32.Vec3(b.Vertices[0].Position)
	hi := lo
	for _, v := range b.Vertices[1:] {
		for k := 0; k < 3; k++ {
			if v.Position[k] < lo[k] {
				lo[k] = v.Position[k]
			}
			if v.Position[k] > hi[k] {
				hi[k] = v.Position[k]
			}
		}
	}
	return lo, hi
}
