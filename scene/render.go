package scene

import (
	"fmt"

	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/go-gl/mathgl/mgl32"
)

// SetupShaderAndLights uploads the ambient term and every light. Call it
// after a scene is loaded or built.
func (s *Scene) SetupShaderAndLights(sh gfx.Shader) {
	sh.SetUniform("u_AmbientCol", mgl32.Vec3{AmbientColor, AmbientColor, AmbientColor})
	sh.SetUniform("u_NumLights", int32(len(s.Lights)))
	for i := range s.Lights {
		s.UploadLight(sh, i)
	}
}

func (s *Scene) UploadLight(sh gfx.Shader, i int) {
	if i < 0 || i >= len(s.Lights) {
		return
	}
	l := s.Lights[i]
	name := fmt.Sprintf("u_Lights[%d]", i)
	sh.SetUniform(name+".Position", l.Position)
	sh.SetUniform(name+".Color", l.Color)
	sh.SetUniform(name+".Attenuation", l.Attenuation)
}

// Renderer draws a scene through the graphics boundary. Objects that do
// not resolve are skipped; each is reported once.
type Renderer struct {
	Clear  gfx.Color
	logger logging.Logger
	warned map[guid.Guid]bool
}

func NewRenderer(logger logging.Logger) *Renderer {
	return &Renderer{
		Clear:  gfx.Color{R: 0, G: 0, B: 0, A: 1},
		logger: logging.OrNop(logger),
		warned: make(map[guid.Guid]bool),
	}
}

func (r *Renderer) warnOnce(id guid.Guid, format string, args ...any) {
	if r.warned[id] {
		return
	}
	r.warned[id] = true
	r.logger.Warnf(format, args...)
}

// Draw renders one frame. Transforms must already be current.
func (r *Renderer) Draw(dev gfx.Device, s *Scene, a Assets) error {
	if err := dev.BeginFrame(r.Clear); err != nil {
		return err
	}
	sh := a.GetShader(s.DefaultShader)
	if sh == nil {
		r.warnOnce(s.DefaultShader, "default shader %s does not resolve; nothing drawn", s.DefaultShader)
		return dev.EndFrame()
	}
	sh.Bind()
	sh.SetUniform("u_CamPos", s.Camera.Position)
	vp := s.Camera.ViewProjection()

	for _, o := range s.Objects {
		mesh := a.GetMesh(o.Mesh)
		if mesh == nil {
			r.warnOnce(o.Guid, "object %q: mesh %s does not resolve; skipped", o.Name, o.Mesh)
			continue
		}
		mat, ok := s.Materials[o.Material]
		if !ok {
			r.warnOnce(o.Guid, "object %q: material %s is not in the scene; skipped", o.Name, o.Material)
			continue
		}
		sh.SetUniform("u_ModelViewProjection", vp.Mul4(o.Transform))
		sh.SetUniform("u_Model", o.Transform)
		sh.SetUniform("u_NormalMatrix", o.NormalMatrix())
		if err := mat.Apply(a); err != nil {
			r.warnOnce(o.Guid, "object %q: %v; skipped", o.Name, err)
			continue
		}
		mesh.Draw()
	}
	return dev.EndFrame()
}
