// Package scene holds the object graph the game mutates and draws: render
// objects, materials, lights, and the camera, plus their JSON form.
package scene

import (
	"fmt"
	"sort"

	"github.com/gekko3d/brickbreaker/guid"
)

type Scene struct {
	DefaultShader guid.Guid
	Materials     map[guid.Guid]*Material
	Objects       []*RenderObject
	Lights        []Light
	Camera        *Camera

	staged []stagedMesh
}

func New() *Scene {
	return &Scene{
		Materials: make(map[guid.Guid]*Material),
		Camera:    NewCamera(),
	}
}

func (s *Scene) AddMaterial(m *Material) *Material {
	s.Materials[m.Guid] = m
	return m
}

func (s *Scene) AddObject(o *RenderObject) *RenderObject {
	s.Objects = append(s.Objects, o)
	return o
}

// MaterialIDs returns the material GUIDs in sorted order.
func (s *Scene) MaterialIDs() []guid.Guid {
	ids := make([]guid.Guid, 0, len(s.Materials))
	for id := range s.Materials {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids
}

// FindObjectByName returns the first object with that name, or nil.
// Names are not unique.
func (s *Scene) FindObjectByName(name string) *RenderObject {
	if h, ok := s.FindHandle(name); ok {
		return s.Objects[h.Index]
	}
	return nil
}

func (s *Scene) FindObjectByGuid(id guid.Guid) *RenderObject {
	for _, o := range s.Objects {
		if o.Guid == id {
			return o
		}
	}
	return nil
}

// Handle names an object by list position and GUID. Resolve checks both.
type Handle struct {
	Index int
	Guid  guid.Guid
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d(%s)", h.Index, h.Guid)
}

func (s *Scene) FindHandle(name string) (Handle, bool) {
	for i, o := range s.Objects {
		if o.Name == name {
			return Handle{Index: i, Guid: o.Guid}, true
		}
	}
	return Handle{}, false
}

func (s *Scene) Resolve(h Handle) (*RenderObject, error) {
	if h.Index < 0 || h.Index >= len(s.Objects) || s.Objects[h.Index].Guid != h.Guid {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return s.Objects[h.Index], nil
}

func (s *Scene) RecalcTransforms() {
	for _, o := range s.Objects {
		o.RecalcTransform()
	}
}
