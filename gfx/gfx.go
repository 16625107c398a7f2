// Package gfx is the graphics boundary: the renderer-facing interfaces the
// asset registry and scene draw through, plus the vertex layout they share.
package gfx

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

type ShaderSource struct {
	Stage Stage
	Label string
	Code  string
}

// Vertex is the single layout used by every mesh. Fields tagged
// gfx:"layout" become vertex attributes in declaration order.
type Vertex struct {
	Position [3]float32 `gfx:"layout" format:"float3" location:"0"`
	Normal   [3]float32 `gfx:"layout" format:"float3" location:"1"`
	UV       [2]float32 `gfx:"layout" format:"float2" location:"2"`
	Color    [4]float32 `gfx:"layout" format:"float4" location:"3"`
}

type Color struct {
	R, G, B, A float64
}

type Device interface {
	CompileShader(label string, sources []ShaderSource) (Shader, error)
	UploadMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error)
	UploadTexture(label string, img *image.RGBA) (Texture, error)
	BeginFrame(clear Color) error
	EndFrame() error
}

// Shader uniforms accept float32, int32, int, mgl32.Vec3, mgl32.Mat3 and
// mgl32.Mat4. Other types are rejected by the implementation.
type Shader interface {
	Bind()
	SetUniform(name string, value any)
	Release()
}

type Texture interface {
	Bind(slot int)
	Size() (width, height int)
	Release()
}

type Mesh interface {
	Draw()
	IndexCount() int
	Release()
}

// ValidUniform reports whether value is a supported uniform type.
func ValidUniform(value any) bool {
	switch value.(type) {
	case float32, int32, int, mgl32.Vec3, mgl32.Mat3, mgl32.Mat4:
		return true
	default:
		return false
	}
}
