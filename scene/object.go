package scene

import (
	"math"

	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/meshgen"
	"github.com/go-gl/mathgl/mgl32"
)

type RenderObject struct {
	Name string
	Guid guid.Guid

	Position mgl32.Vec3
	// Rotation is Euler degrees, applied X then Y then Z.
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	// Transform is derived; call RecalcTransform after editing the fields
	// above.
	Transform mgl32.Mat4

	Mesh     guid.Guid
	Material guid.Guid

	// MeshParams, when present, take precedence over Mesh on load.
	MeshParams []meshgen.Param
}

func NewRenderObject(name string) *RenderObject {
	if name == "" {
		name = "Unknown"
	}
	return &RenderObject{
		Name:      name,
		Guid:      guid.New(),
		Scale:     mgl32.Vec3{1, 1, 1},
		Transform: mgl32.Ident4(),
	}
}

func (o *RenderObject) RecalcTransform() {
	o.Rotation = WrapRotation(o.Rotation)
	o.Transform = ComposeTransform(o.Position, o.Rotation, o.Scale)
}

// NormalMatrix is the inverse transpose of the upper 3x3 of Transform.
func (o *RenderObject) NormalMatrix() mgl32.Mat3 {
	return o.Transform.Inv().Transpose().Mat3()
}

// GenerateMesh bakes MeshParams, in order, into a new mesh that replaces
// the current one.
func (o *RenderObject) GenerateMesh(a Assets, logger logging.Logger) error {
	if !o.Mesh.IsNil() && len(o.MeshParams) > 0 {
		logging.OrNop(logger).Warnf("object %q: overriding existing mesh", o.Name)
	}
	return o.bakeMesh(a, guid.Nil)
}

// bakeMesh registers the baked mesh under id, or a fresh GUID when id is Nil.
func (o *RenderObject) bakeMesh(a Assets, id guid.Guid) error {
	if len(o.MeshParams) == 0 {
		return nil
	}
	b, err := meshgen.Build(o.MeshParams)
	if err != nil {
		return err
	}
	baked, err := a.BakeMesh(id, o.Name, b)
	if err != nil {
		return err
	}
	o.Mesh = baked
	return nil
}

// WrapRotation maps each component into [0, 360).
func WrapRotation(r mgl32.Vec3) mgl32.Vec3 {
	for i := range r {
		v := math.Mod(float64(r[i]), 360)
		if v < 0 {
			v += 360
		}
		// Narrowing can round values just under 360 up to it.
		f := float32(v)
		if f >= 360 {
			f = 0
		}
		r[i] = f
	}
	return r
}

func ComposeTransform(pos, rotDeg, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(EulerToQuat(rotDeg).Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// EulerToQuat builds Rz*Ry*Rx from degrees.
func EulerToQuat(deg mgl32.Vec3) mgl32.Quat {
	hx := float64(mgl32.DegToRad(deg.X())) / 2
	hy := float64(mgl32.DegToRad(deg.Y())) / 2
	hz := float64(mgl32.DegToRad(deg.Z())) / 2
	cx, sx := math.Cos(hx), math.Sin(hx)
	cy, sy := math.Cos(hy), math.Sin(hy)
	cz, sz := math.Cos(hz), math.Sin(hz)
	return mgl32.Quat{
		W: float32(cx*cy*cz + sx*sy*sz),
		V: mgl32.Vec3{
			float32(sx*cy*cz - cx*sy*sz),
			float32(cx*sy*cz + sx*cy*sz),
			float32(cx*cy*sz - sx*sy*cz),
		},
	}
}
