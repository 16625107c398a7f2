package scene

import (
	"encoding/json"
	"fmt"

	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/meshgen"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Input schema. Pointers mark required fields so absence can be told
// apart from zero values.

type sceneIn struct {
	DefaultShader *string       `json:"default_shader"`
	Materials     *[]materialIn `json:"materials"`
	Objects       *[]objectIn   `json:"objects"`
	Lights        *[]lightIn    `json:"lights"`
	Camera        *cameraIn     `json:"camera"`
}

type materialIn struct {
	Guid      *string  `json:"guid"`
	Name      *string  `json:"name"`
	Shader    *string  `json:"shader"`
	Texture   *string  `json:"texture"`
	Shininess *float32 `json:"shininess"`
}

type objectIn struct {
	Name       *string          `json:"name"`
	Guid       *string          `json:"guid"`
	Mesh       *string          `json:"mesh"`
	Material   *string          `json:"material"`
	Position   *[]float32       `json:"position"`
	Rotation   *[]float32       `json:"rotation"`
	Scale      *[]float32       `json:"scale"`
	MeshParams *[]meshgen.Param `json:"mesh_params"`
}

type lightIn struct {
	Position *[]float32 `json:"position"`
	Color    *[]float32 `json:"color"`
	Range    *float32   `json:"range"`
}

type cameraIn struct {
	Position *[]float32 `json:"position"`
	Normal   *[]float32 `json:"normal"`
}

// Output schema. Field order is the on-disk key order.

type sceneOut struct {
	DefaultShader guid.Guid     `json:"default_shader"`
	Materials     []materialOut `json:"materials"`
	Objects       []objectOut   `json:"objects"`
	Lights        []lightOut    `json:"lights"`
	Camera        cameraOut     `json:"camera"`
}

type materialOut struct {
	Guid      guid.Guid `json:"guid"`
	Name      string    `json:"name"`
	Shader    guid.Guid `json:"shader"`
	Texture   guid.Guid `json:"texture"`
	Shininess float32   `json:"shininess"`
}

type objectOut struct {
	Name       string          `json:"name"`
	Guid       guid.Guid       `json:"guid"`
	Mesh       guid.Guid       `json:"mesh"`
	Material   guid.Guid       `json:"material"`
	Position   mgl32.Vec3      `json:"position"`
	Rotation   mgl32.Vec3      `json:"rotation"`
	Scale      mgl32.Vec3      `json:"scale"`
	MeshParams []meshgen.Param `json:"mesh_params,omitempty"`
}

type lightOut struct {
	Position mgl32.Vec3 `json:"position"`
	Color    mgl32.Vec3 `json:"color"`
	Range    float32    `json:"range"`
}

type cameraOut struct {
	Position mgl32.Vec3 `json:"position"`
	Normal   mgl32.Vec3 `json:"normal"`
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) guid(where, field string, s *string, required bool) guid.Guid {
	if s == nil {
		if required {
			v.addf("%s: missing %s", where, field)
		}
		return guid.Nil
	}
	if *s == "" {
		if required {
			v.addf("%s: empty %s", where, field)
		}
		return guid.Nil
	}
	id, err := guid.Parse(*s)
	if err != nil {
		v.addf("%s: %s: %v", where, field, err)
	}
	return id
}

func (v *validator) vec3(where, field string, f *[]float32) mgl32.Vec3 {
	if f == nil {
		v.addf("%s: missing %s", where, field)
		return mgl32.Vec3{}
	}
	if len(*f) != 3 {
		v.addf("%s: %s needs 3 components, got %d", where, field, len(*f))
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{(*f)[0], (*f)[1], (*f)[2]}
}

// FromJSON decodes and validates a scene document and bakes its
// procedural meshes into a. Materials, objects, lights and the camera are
// read in that order; every problem found is reported in a single
// SceneFormatError and no scene is returned.
func FromJSON(data []byte, a Assets, logger logging.Logger) (*Scene, error) {
	s, err := StageJSON(data, a, logger)
	if err != nil {
		return nil, err
	}
	if err := s.CommitMeshes(a); err != nil {
		return nil, err
	}
	return s, nil
}

// StageJSON is FromJSON without touching a: procedural meshes are built
// but not uploaded until CommitMeshes. Objects with MeshParams keep their
// stored mesh GUID, and an uncommitted scene draws whatever a holds
// under it.
func StageJSON(data []byte, a Assets, logger logging.Logger) (*Scene, error) {
	logger = logging.OrNop(logger)
	var doc sceneIn
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SceneFormatError{Err: err}
	}

	v := &validator{}
	s := New()
	s.DefaultShader = v.guid("scene", "default_shader", doc.DefaultShader, true)

	if doc.Materials == nil {
		v.addf("scene: missing materials")
	} else {
		for i, m := range *doc.Materials {
			where := fmt.Sprintf("materials[%d]", i)
			mat := &Material{
				Guid:    v.guid(where, "guid", m.Guid, true),
				Shader:  v.guid(where, "shader", m.Shader, true),
				Texture: v.guid(where, "texture", m.Texture, false),
			}
			if m.Name == nil {
				v.addf("%s: missing name", where)
			} else {
				mat.Name = *m.Name
			}
			if m.Shininess == nil {
				v.addf("%s: missing shininess", where)
			} else {
				mat.Shininess = *m.Shininess
			}
			if _, dup := s.Materials[mat.Guid]; dup && !mat.Guid.IsNil() {
				v.addf("%s: duplicate guid %s", where, mat.Guid)
			}
			s.Materials[mat.Guid] = mat
		}
	}

	if doc.Objects == nil {
		v.addf("scene: missing objects")
	} else {
		for i, o := range *doc.Objects {
			where := fmt.Sprintf("objects[%d]", i)
			obj := &RenderObject{
				Guid:      v.guid(where, "guid", o.Guid, true),
				Mesh:      v.guid(where, "mesh", o.Mesh, o.MeshParams == nil),
				Material:  v.guid(where, "material", o.Material, true),
				Position:  v.vec3(where, "position", o.Position),
				Rotation:  v.vec3(where, "rotation", o.Rotation),
				Scale:     v.vec3(where, "scale", o.Scale),
				Transform: mgl32.Ident4(),
			}
			if o.Name == nil {
				v.addf("%s: missing name", where)
			} else {
				obj.Name = *o.Name
			}
			if o.MeshParams != nil {
				obj.MeshParams = *o.MeshParams
				if _, err := meshgen.Build(obj.MeshParams); err != nil {
					v.addf("%s: mesh_params: %v", where, err)
				}
			}
			if !obj.Material.IsNil() {
				if _, ok := s.Materials[obj.Material]; !ok {
					v.addf("%s: material %s is not defined in the scene", where, obj.Material)
				}
			}
			s.Objects = append(s.Objects, obj)
		}
	}

	if doc.Lights == nil {
		v.addf("scene: missing lights")
	} else {
		for i, l := range *doc.Lights {
			where := fmt.Sprintf("lights[%d]", i)
			light := Light{
				Position: v.vec3(where, "position", l.Position),
				Color:    v.vec3(where, "color", l.Color),
			}
			if l.Range == nil {
				v.addf("%s: missing range", where)
			} else if *l.Range < 0 {
				v.addf("%s: range %v must not be negative", where, *l.Range)
			} else {
				light.SetRange(*l.Range)
			}
			s.Lights = append(s.Lights, light)
		}
	}

	if doc.Camera == nil {
		v.addf("scene: missing camera")
	} else {
		s.Camera.SetPosition(v.vec3("camera", "position", doc.Camera.Position))
		// Stored as written; renormalizing would drift the saved bytes.
		if fwd := v.vec3("camera", "normal", doc.Camera.Normal); fwd.Len() > 0 {
			s.Camera.Forward = fwd
		} else if doc.Camera.Normal != nil && len(*doc.Camera.Normal) == 3 {
			v.addf("camera: normal must be non-zero")
		}
	}

	if len(v.problems) > 0 {
		return nil, &SceneFormatError{Problems: v.problems}
	}

	// Only resolve against the registry once the document is known good.
	if a.GetShader(s.DefaultShader) == nil {
		logger.Warnf("scene: default shader %s does not resolve", s.DefaultShader)
	}
	for _, id := range s.MaterialIDs() {
		m := s.Materials[id]
		if a.GetShader(m.Shader) == nil {
			logger.Warnf("material %q: shader %s does not resolve", m.Name, m.Shader)
		}
		if !m.Texture.IsNil() && a.GetTexture(m.Texture) == nil {
			logger.Warnf("material %q: texture %s does not resolve", m.Name, m.Texture)
		}
	}
	for _, o := range s.Objects {
		if len(o.MeshParams) > 0 {
			b, err := meshgen.Build(o.MeshParams)
			if err != nil {
				return nil, errors.Wrapf(err, "object %q: bake mesh", o.Name)
			}
			s.staged = append(s.staged, stagedMesh{object: o, builder: b})
		} else if a.GetMesh(o.Mesh) == nil {
			logger.Warnf("object %q: mesh %s does not resolve", o.Name, o.Mesh)
		}
		o.Transform = ComposeTransform(o.Position, WrapRotation(o.Rotation), o.Scale)
	}
	return s, nil
}

// ToJSON encodes the scene. Materials are written in GUID order so equal
// scenes produce equal bytes.
func (s *Scene) ToJSON() ([]byte, error) {
	out := sceneOut{
		DefaultShader: s.DefaultShader,
		Materials:     make([]materialOut, 0, len(s.Materials)),
		Objects:       make([]objectOut, 0, len(s.Objects)),
		Lights:        make([]lightOut, 0, len(s.Lights)),
	}
	for _, id := range s.MaterialIDs() {
		m := s.Materials[id]
		out.Materials = append(out.Materials, materialOut{
			Guid:      m.Guid,
			Name:      m.Name,
			Shader:    m.Shader,
			Texture:   m.Texture,
			Shininess: m.Shininess,
		})
	}
	for _, o := range s.Objects {
		if o.Mesh.IsNil() || o.Material.IsNil() {
			return nil, &IncompleteObjectError{
				Name:            o.Name,
				Guid:            o.Guid,
				MissingMesh:     o.Mesh.IsNil(),
				MissingMaterial: o.Material.IsNil(),
			}
		}
		out.Objects = append(out.Objects, objectOut{
			Name:       o.Name,
			Guid:       o.Guid,
			Mesh:       o.Mesh,
			Material:   o.Material,
			Position:   o.Position,
			Rotation:   o.Rotation,
			Scale:      o.Scale,
			MeshParams: o.MeshParams,
		})
	}
	for _, l := range s.Lights {
		out.Lights = append(out.Lights, lightOut{Position: l.Position, Color: l.Color, Range: l.Range})
	}
	cam := s.Camera
	if cam == nil {
		cam = NewCamera()
	}
	out.Camera = cameraOut{Position: cam.Position, Normal: cam.Forward}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode scene")
	}
	return append(data, '\n'), nil
}

type stagedMesh struct {
	object  *RenderObject
	builder *meshgen.Builder
}

// CommitMeshes uploads the meshes built by StageJSON under each object's
// stored GUID, replacing what a holds there. It is a no-op once done.
func (s *Scene) CommitMeshes(a Assets) error {
	for len(s.staged) > 0 {
		st := s.staged[0]
		baked, err := a.BakeMesh(st.object.Mesh, st.object.Name, st.builder)
		if err != nil {
			return errors.Wrapf(err, "object %q: bake mesh", st.object.Name)
		}
		st.object.Mesh = baked
		s.staged = s.staged[1:]
	}
	return nil
}

func (s *Scene) Save(fs files.FS, path string) error {
	data, err := s.ToJSON()
	if err != nil {
		return err
	}
	return errors.WithMessage(fs.WriteAll(path, data), "save scene")
}

// Load returns a new scene with its meshes baked; the caller decides
// whether to swap it in.
func Load(fs files.FS, path string, a Assets, logger logging.Logger) (*Scene, error) {
	s, err := LoadStaged(fs, path, a, logger)
	if err != nil {
		return nil, err
	}
	if err := s.CommitMeshes(a); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadStaged reads path like Load but leaves procedural meshes staged.
func LoadStaged(fs files.FS, path string, a Assets, logger logging.Logger) (*Scene, error) {
	data, err := fs.ReadAll(path)
	if err != nil {
		return nil, errors.WithMessage(err, "load scene")
	}
	s, err := StageJSON(data, a, logger)
	if err != nil {
		var fe *SceneFormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	logging.OrNop(logger).Infof("loaded scene %s: %d objects, %d lights", path, len(s.Objects), len(s.Lights))
	return s, nil
}
