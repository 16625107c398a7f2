// Package assets owns every shader, mesh, and texture, keyed by GUID, and
// persists the GUID to source mapping as a flat JSON manifest.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/meshgen"
	"golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Kind string

const (
	KindShader  Kind = "shader"
	KindMesh    Kind = "mesh"
	KindTexture Kind = "texture"
)

type ShaderPart struct {
	Stage gfx.Stage
	Path  string
}

// Source is what an asset was created from. Baked meshes have none.
type Source struct {
	Path   string
	Stages []ShaderPart
	Baked  bool
}

type entry struct {
	kind    Kind
	source  Source
	shader  gfx.Shader
	mesh    gfx.Mesh
	texture gfx.Texture
}

func (e *entry) release() {
	switch {
	case e.shader != nil:
		e.shader.Release()
	case e.mesh != nil:
		e.mesh.Release()
	case e.texture != nil:
		e.texture.Release()
	}
}

type Registry struct {
	mu      sync.RWMutex
	device  gfx.Device
	fs      files.FS
	logger  logging.Logger
	entries map[guid.Guid]*entry
}

func NewRegistry(device gfx.Device, fsys files.FS, logger logging.Logger) *Registry {
	return &Registry{
		device:  device,
		fs:      fsys,
		logger:  logging.OrNop(logger),
		entries: make(map[guid.Guid]*entry),
	}
}

func (r *Registry) Device() gfx.Device { return r.device }
func (r *Registry) Files() files.FS    { return r.fs }

func (r *Registry) put(id guid.Guid, e *entry) {
	r.mu.Lock()
	old := r.entries[id]
	r.entries[id] = e
	r.mu.Unlock()
	if old != nil {
		r.logger.Warnf("asset %s replaced", id)
		old.release()
	}
}

func (r *Registry) CreateShader(parts ...ShaderPart) (guid.Guid, error) {
	e, err := r.loadShader(parts)
	if err != nil {
		return guid.Nil, err
	}
	id := guid.New()
	r.put(id, e)
	return id, nil
}

func (r *Registry) CreateMesh(path string) (guid.Guid, error) {
	e, err := r.loadMesh(path)
	if err != nil {
		return guid.Nil, err
	}
	id := guid.New()
	r.put(id, e)
	return id, nil
}

func (r *Registry) CreateTexture(path string) (guid.Guid, error) {
	e, err := r.loadTexture(path)
	if err != nil {
		return guid.Nil, err
	}
	id := guid.New()
	r.put(id, e)
	return id, nil
}

// BakeMesh uploads a procedural mesh under id, or under a fresh GUID when
// id is Nil. An existing asset with the same id is replaced.
func (r *Registry) BakeMesh(id guid.Guid, label string, b *meshgen.Builder) (guid.Guid, error) {
	if b == nil || b.Empty() {
		return guid.Nil, &AssetLoadError{Kind: KindMesh, Source: label, Err: fmt.Errorf("empty builder")}
	}
	m, err := r.device.UploadMesh(label, b.Vertices, b.Indices)
	if err != nil {
		return guid.Nil, &AssetLoadError{Kind: KindMesh, Source: label, Err: err}
	}
	if id.IsNil() {
		id = guid.New()
	}
	r.put(id, &entry{kind: KindMesh, source: Source{Path: label, Baked: true}, mesh: m})
	return id, nil
}

func (r *Registry) loadShader(parts []ShaderPart) (*entry, error) {
	if len(parts) == 0 {
		return nil, &AssetLoadError{Kind: KindShader, Err: fmt.Errorf("no stages")}
	}
	sources := make([]gfx.ShaderSource, 0, len(parts))
	label := parts[0].Path
	for _, p := range parts {
		code, err := r.fs.ReadAll(p.Path)
		if err != nil {
			return nil, &AssetLoadError{Kind: KindShader, Source: p.Path, Err: err}
		}
		sources = append(sources, gfx.ShaderSource{Stage: p.Stage, Label: p.Path, Code: string(code)})
	}
	sh, err := r.device.CompileShader(label, sources)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindShader, Source: label, Err: err}
	}
	return &entry{kind: KindShader, source: Source{Stages: append([]ShaderPart(nil), parts...)}, shader: sh}, nil
}

func (r *Registry) loadMesh(path string) (*entry, error) {
	data, err := r.fs.ReadAll(path)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindMesh, Source: path, Err: err}
	}
	b, err := meshgen.ParseOBJ(data)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindMesh, Source: path, Err: err}
	}
	m, err := r.device.UploadMesh(path, b.Vertices, b.Indices)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindMesh, Source: path, Err: err}
	}
	return &entry{kind: KindMesh, source: Source{Path: path}, mesh: m}, nil
}

func (r *Registry) loadTexture(path string) (*entry, error) {
	data, err := r.fs.ReadAll(path)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindTexture, Source: path, Err: err}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &AssetLoadError{Kind: KindTexture, Source: path, Err: err}
	}
	tex, err := r.device.UploadTexture(path, toRGBA(img))
	if err != nil {
		return nil, &AssetLoadError{Kind: KindTexture, Source: path, Err: err}
	}
	return &entry{kind: KindTexture, source: Source{Path: path}, texture: tex}, nil
}

// toRGBA also flips rows so that v=0 is the bottom of the image, which is
// what the OBJ texture coordinates assume.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	stride := rgba.Stride
	row := make([]byte, stride)
	for y := 0; y < rgba.Rect.Dy()/2; y++ {
		top := rgba.Pix[y*stride : (y+1)*stride]
		bottom := rgba.Pix[(rgba.Rect.Dy()-1-y)*stride : (rgba.Rect.Dy()-y)*stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return rgba
}

func (r *Registry) get(id guid.Guid, kind Kind) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok || e.kind != kind {
		return nil
	}
	return e
}

// GetShader returns nil when id is unknown or names another kind.
func (r *Registry) GetShader(id guid.Guid) gfx.Shader {
	if e := r.get(id, KindShader); e != nil {
		return e.shader
	}
	return nil
}

func (r *Registry) GetMesh(id guid.Guid) gfx.Mesh {
	if e := r.get(id, KindMesh); e != nil {
		return e.mesh
	}
	return nil
}

func (r *Registry) GetTexture(id guid.Guid) gfx.Texture {
	if e := r.get(id, KindTexture); e != nil {
		return e.texture
	}
	return nil
}

func (r *Registry) Kind(id guid.Guid) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return "", false
	}
	return e.kind, true
}

func (r *Registry) SourceOf(id guid.Guid) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return Source{}, false
	}
	return e.source, true
}

// IDs lists the GUIDs of one kind, or all when kind is empty, sorted.
func (r *Registry) IDs(kind Kind) []guid.Guid {
	r.mu.RLock()
	out := make([]guid.Guid, 0, len(r.entries))
	for id, e := range r.entries {
		if kind == "" || e.kind == kind {
			out = append(out, id)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Release destroys every asset. The registry is empty afterwards.
func (r *Registry) Release() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[guid.Guid]*entry)
	r.mu.Unlock()
	for _, e := range entries {
		e.release()
	}
}
