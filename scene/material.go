package scene

import (
	"fmt"

	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/meshgen"
)

// Assets is the lookup side of the asset registry the scene needs.
type Assets interface {
	GetShader(id guid.Guid) gfx.Shader
	GetMesh(id guid.Guid) gfx.Mesh
	GetTexture(id guid.Guid) gfx.Texture
	BakeMesh(id guid.Guid, label string, b *meshgen.Builder) (guid.Guid, error)
}

// Material references its shader and optional texture by GUID.
type Material struct {
	Guid      guid.Guid
	Name      string
	Shader    guid.Guid
	Texture   guid.Guid
	Shininess float32
}

func NewMaterial(name string, shader, texture guid.Guid, shininess float32) *Material {
	return &Material{
		Guid:      guid.New(),
		Name:      name,
		Shader:    shader,
		Texture:   texture,
		Shininess: shininess,
	}
}

// Apply pushes the material uniforms to its shader and binds the diffuse
// texture to slot 0 when one is set. Nothing is pushed if the shader does
// not resolve.
func (m *Material) Apply(a Assets) error {
	sh := a.GetShader(m.Shader)
	if sh == nil {
		return fmt.Errorf("material %q: %w", m.Name, ErrUnresolvedShader)
	}
	sh.SetUniform("u_Material.Shininess", m.Shininess)
	sh.SetUniform("u_Material.Diffuse", int32(0))
	if tex := a.GetTexture(m.Texture); tex != nil {
		tex.Bind(0)
	}
	return nil
}
