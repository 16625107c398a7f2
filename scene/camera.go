package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	Position mgl32.Vec3
	Forward  mgl32.Vec3
	Up       mgl32.Vec3
	// YDown flips the projection so world +Y points down the screen while
	// +X stays right. The play field keeps the paddle at positive Y.
	YDown bool

	OrthoEnabled       bool
	OrthoVerticalScale float32
	FovDegrees         float32
	Aspect             float32
	Near, Far          float32
}

func NewCamera() *Camera {
	return &Camera{
		Forward:            mgl32.Vec3{0, 0, -1},
		Up:                 mgl32.Vec3{0, 1, 0},
		YDown:              true,
		OrthoVerticalScale: 1,
		FovDegrees:         60,
		Aspect:             1,
		Near:               0.01,
		Far:                1000,
	}
}

func (c *Camera) SetPosition(p mgl32.Vec3) { c.Position = p }

// SetForward ignores zero vectors.
func (c *Camera) SetForward(f mgl32.Vec3) {
	if f.Len() == 0 {
		return
	}
	c.Forward = f.Normalize()
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.SetForward(target.Sub(c.Position))
}

func (c *Camera) SetOrtho(enabled bool, verticalScale float32) {
	c.OrthoEnabled = enabled
	if verticalScale > 0 {
		c.OrthoVerticalScale = verticalScale
	}
}

func (c *Camera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

func (c *Camera) View() mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 || math.Abs(float64(up.Normalize().Dot(c.Forward))) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
		if math.Abs(float64(c.Forward.Z())) > 0.999 {
			up = mgl32.Vec3{0, 1, 0}
		}
	}
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward), up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	var p mgl32.Mat4
	if c.OrthoEnabled {
		h := c.OrthoVerticalScale / 2
		w := h * c.Aspect
		p = mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	} else {
		p = mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), c.Aspect, c.Near, c.Far)
	}
	if c.YDown {
		p = mgl32.Scale3D(1, -1, 1).Mul4(p)
	}
	return p
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
