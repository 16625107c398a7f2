package assets

import (
	"encoding/json"
	"fmt"

	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/pkg/errors"
)

type manifestEntry struct {
	Guid   guid.Guid       `json:"guid"`
	Type   Kind            `json:"type"`
	Source json.RawMessage `json:"source"`
}

type shaderSource struct {
	Vertex   string `json:"vertex"`
	Fragment string `json:"fragment"`
}

// SaveManifest writes every sourced asset, sorted by GUID. Baked meshes
// are left out; scenes regenerate them from their mesh parameters.
func (r *Registry) SaveManifest(path string) error {
	out := []manifestEntry{}
	for _, id := range r.IDs("") {
		src, _ := r.SourceOf(id)
		if src.Baked {
			continue
		}
		kind, _ := r.Kind(id)
		var raw []byte
		var err error
		if kind == KindShader {
			raw, err = json.Marshal(shaderSourceOf(src.Stages))
		} else {
			raw, err = json.Marshal(src.Path)
		}
		if err != nil {
			return errors.Wrapf(err, "encode manifest entry %s", id)
		}
		out = append(out, manifestEntry{Guid: id, Type: kind, Source: raw})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}
	data = append(data, '\n')
	return errors.WithMessage(r.fs.WriteAll(path, data), "save manifest")
}

func shaderSourceOf(parts []ShaderPart) shaderSource {
	var s shaderSource
	for _, p := range parts {
		switch p.Stage {
		case gfx.StageVertex:
			s.Vertex = p.Path
		case gfx.StageFragment:
			s.Fragment = p.Path
		}
	}
	return s
}

type staged struct {
	id guid.Guid
	e  *entry
}

// LoadManifest recreates every listed asset under its recorded GUID. The
// whole manifest is validated before anything is loaded, and nothing is
// committed unless every asset loads.
func (r *Registry) LoadManifest(path string) error {
	data, err := r.fs.ReadAll(path)
	if err != nil {
		return &ManifestError{Path: path, Err: err}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ManifestError{Path: path, Err: errors.Wrap(err, "expected a JSON array")}
	}

	type job struct {
		id     guid.Guid
		kind   Kind
		path   string
		shader []ShaderPart
	}
	var (
		jobs     []job
		problems []string
		seen     = make(map[guid.Guid]int)
	)
	for i, item := range raw {
		var me struct {
			Guid   *string         `json:"guid"`
			Type   *string         `json:"type"`
			Source json.RawMessage `json:"source"`
		}
		if err := json.Unmarshal(item, &me); err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		if me.Guid == nil || me.Type == nil || len(me.Source) == 0 {
			problems = append(problems, fmt.Sprintf("entry %d: guid, type and source are required", i))
			continue
		}
		id, err := guid.Parse(*me.Guid)
		if err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		if prev, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("entry %d: guid %s already used by entry %d", i, id, prev))
			continue
		}
		seen[id] = i

		j := job{id: id, kind: Kind(*me.Type)}
		switch j.kind {
		case KindShader:
			var s shaderSource
			if err := json.Unmarshal(me.Source, &s); err != nil || s.Vertex == "" || s.Fragment == "" {
				problems = append(problems, fmt.Sprintf("entry %d: shader source needs vertex and fragment paths", i))
				continue
			}
			j.shader = []ShaderPart{
				{Stage: gfx.StageVertex, Path: s.Vertex},
				{Stage: gfx.StageFragment, Path: s.Fragment},
			}
		case KindMesh, KindTexture:
			if err := json.Unmarshal(me.Source, &j.path); err != nil || j.path == "" {
				problems = append(problems, fmt.Sprintf("entry %d: %s source must be a path", i, j.kind))
				continue
			}
		default:
			r.logger.Warnf("manifest %s: skipping entry %d with unknown type %q", path, i, *me.Type)
			continue
		}
		jobs = append(jobs, j)
	}
	if len(problems) > 0 {
		return &ManifestError{Path: path, Problems: problems}
	}

	loaded := make([]staged, 0, len(jobs))
	rollback := func() {
		for _, s := range loaded {
			s.e.release()
		}
	}
	for _, j := range jobs {
		var (
			e   *entry
			err error
		)
		switch j.kind {
		case KindShader:
			e, err = r.loadShader(j.shader)
		case KindMesh:
			e, err = r.loadMesh(j.path)
		case KindTexture:
			e, err = r.loadTexture(j.path)
		}
		if err != nil {
			rollback()
			return err
		}
		loaded = append(loaded, staged{id: j.id, e: e})
	}
	for _, s := range loaded {
		r.put(s.id, s.e)
	}
	r.logger.Infof("manifest %s: loaded %d assets", path, len(loaded))
	return nil
}
