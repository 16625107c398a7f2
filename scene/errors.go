package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gekko3d/brickbreaker/guid"
)

var (
	// ErrUnresolvedShader is returned when a material's shader GUID does
	// not name a live shader.
	ErrUnresolvedShader = errors.New("scene: shader does not resolve")

	// ErrStaleHandle is returned when a handle no longer names the object
	// it was created for.
	ErrStaleHandle = errors.New("scene: stale object handle")
)

// SceneFormatError collects every schema problem found in one document.
type SceneFormatError struct {
	Path     string
	Problems []string
	Err      error
}

func (e *SceneFormatError) Error() string {
	where := "scene"
	if e.Path != "" {
		where = "scene " + e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	return fmt.Sprintf("%s: %d problem(s): %s", where, len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *SceneFormatError) Unwrap() error { return e.Err }

// IncompleteObjectError is returned when an object without a mesh or a
// material is serialized.
type IncompleteObjectError struct {
	Name            string
	Guid            guid.Guid
	MissingMesh     bool
	MissingMaterial bool
}

func (e *IncompleteObjectError) Error() string {
	var missing []string
	if e.MissingMesh {
		missing = append(missing, "mesh")
	}
	if e.MissingMaterial {
		missing = append(missing, "material")
	}
	return fmt.Sprintf("scene: object %q (%s) has no %s", e.Name, e.Guid, strings.Join(missing, " or "))
}
