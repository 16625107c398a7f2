package meshgen

import (
	"fmt"
	"math"

	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

type ShapeType string

const (
	ShapePlane     ShapeType = "plane"
	ShapeCube      ShapeType = "cube"
	ShapeUVSphere  ShapeType = "uv_sphere"
	ShapeIcoSphere ShapeType = "ico_sphere"
)

// Param describes one procedural shape. Empty vectors fall back to the
// identity placement; a zero scale means one.
type Param struct {
	Type         ShapeType  `json:"type"`
	Position     mgl32.Vec3 `json:"position"`
	Rotation     mgl32.Vec3 `json:"rotation"`
	Scale        mgl32.Vec3 `json:"scale"`
	Color        mgl32.Vec4 `json:"color"`
	Tessellation int        `json:"tessellation,omitempty"`
	Tiling       float32    `json:"tiling,omitempty"`
}

func (p Param) placement() mgl32.Mat4 {
	scale := p.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	rot := mgl32.HomogRotate3DX(mgl32.DegToRad(p.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(p.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(p.Rotation.Z())))
	return mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

func (p Param) color() [4]float32 {
	if p.Color == (mgl32.Vec4{}) {
		return [4]float32{1, 1, 1, 1}
	}
	return p.Color
}

func (p Param) tiling() float32 {
	if p.Tiling <= 0 {
		return 1
	}
	return p.Tiling
}

// Build bakes params in order into one builder.
func Build(params []Param) (*Builder, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("meshgen: no shapes")
	}
	out := NewBuilder()
	for i, p := range params {
		shape, err := shapeFor(p)
		if err != nil {
			return nil, fmt.Errorf("meshgen: shape %d: %w", i, err)
		}
		out.Append(shape, p.placement())
	}
	return out, nil
}

func shapeFor(p Param) (*Builder, error) {
	c := p.color()
	tile := p.tiling()
	switch p.Type {
	case ShapePlane:
		return Plane(c, tile), nil
	case ShapeCube:
		return Cube(c, tile), nil
	case ShapeUVSphere:
		n := p.Tessellation
		if n <= 0 {
			n = 16
		}
		return UVSphere(n, n*2, c), nil
	case ShapeIcoSphere:
		n := p.Tessellation
		if n < 0 {
			n = 0
		}
		if n > 5 {
			n = 5
		}
		return IcoSphere(n, c), nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", p.Type)
	}
}

// Plane is a unit square in the XZ plane facing +Y.
func Plane(color [4]float32, tile float32) *Builder {
	b := NewBuilder()
	n := [3]float32{0, 1, 0}
	i0 := b.AddVertex(gfx.Vertex{Position: [3]float32{-0.5, 0, 0.5}, Normal: n, UV: [2]float32{0, 0}, Color: color})
	i1 := b.AddVertex(gfx.Vertex{Position: [3]float32{0.5, 0, 0.5}, Normal: n, UV: [2]float32{tile, 0}, Color: color})
	i2 := b.AddVertex(gfx.Vertex{Position: [3]float32{0.5, 0, -0.5}, Normal: n, UV: [2]float32{tile, tile}, Color: color})
	i3 := b.AddVertex(gfx.Vertex{Position: [3]float32{-0.5, 0, -0.5}, Normal: n, UV: [2]float32{0, tile}, Color: color})
	b.AddQuad(i0, i1, i2, i3)
	return b
}

// Cube is a unit cube centered on the origin with per-face normals.
func Cube(color [4]float32, tile float32) *Builder {
	b := NewBuilder()
	faces := []struct {
		n, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	for _, f := range faces {
		center := f.n.Mul(0.5)
		corner := func(su, sv float32) mgl32.Vec3 {
			return center.Add(f.u.Mul(su * 0.5)).Add(f.v.Mul(sv * 0.5))
		}
		i0 := b.AddVertex(gfx.Vertex{Position: corner(-1, -1), Normal: f.n, UV: [2]float32{0, 0}, Color: color})
		i1 := b.AddVertex(gfx.Vertex{Position: corner(1, -1), Normal: f.n, UV: [2]float32{tile, 0}, Color: color})
		i2 := b.AddVertex(gfx.Vertex{Position: corner(1, 1), Normal: f.n, UV: [2]float32{tile, tile}, Color: color})
		i3 := b.AddVertex(gfx.Vertex{Position: corner(-1, 1), Normal: f.n, UV: [2]float32{0, tile}, Color: color})
		b.AddQuad(i0, i1, i2, i3)
	}
	return b
}

// UVSphere has radius 0.5.
func UVSphere(rings, segments int, color [4]float32) *Builder {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	b := NewBuilder()
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			b.AddVertex(gfx.Vertex{
				Position: n.Mul(0.5),
				Normal:   n,
				UV:       [2]float32{float32(s) / float32(segments), float32(r) / float32(rings)},
				Color:    color,
			})
		}
	}
	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			c := a + stride
			b.AddTriangle(a, a+1, c)
			b.AddTriangle(a+1, c+1, c)
		}
	}
	return b
}

// IcoSphere subdivides an icosahedron; radius 0.5.
func IcoSphere(subdivisions int, color [4]float32) *Builder {
	t := float32((1 + math.Sqrt(5)) / 2)
	pts := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range pts {
		pts[i] = pts[i].Normalize()
	}
	tris := [][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for s := 0; s < subdivisions; s++ {
		mid := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{a, b}
			if a > b {
				key = [2]uint32{b, a}
			}
			if i, ok := mid[key]; ok {
				return i
			}
			pts = append(pts, pts[a].Add(pts[b]).Normalize())
			i := uint32(len(pts) - 1)
			mid[key] = i
			return i
		}
		next := make([][3]uint32, 0, len(tris)*4)
		for _, tr := range tris {
			ab := midpoint(tr[0], tr[1])
			bc := midpoint(tr[1], tr[2])
			ca := midpoint(tr[2], tr[0])
			next = append(next,
				[3]uint32{tr[0], ab, ca},
				[3]uint32{tr[1], bc, ab},
				[3]uint32{tr[2], ca, bc},
				[3]uint32{ab, bc, ca},
			)
		}
		tris = next
	}

	b := NewBuilder()
	for _, p := range pts {
		u := 0.5 + math.Atan2(float64(p.Z()), float64(p.X()))/(2*math.Pi)
		v := 0.5 - math.Asin(float64(p.Y()))/math.Pi
		b.AddVertex(gfx.Vertex{Position: p.Mul(0.5), Normal: p, UV: [2]float32{float32(u), float32(v)}, Color: color})
	}
	for _, tr := range tris {
		b.AddTriangle(tr[0], tr[1], tr[2])
	}
	return b
}
