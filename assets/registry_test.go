package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/meshgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestRegistry(t *testing.T) (*Registry, *files.Memory, *gfx.Recorder) {
	t.Helper()
	fs := files.NewMemory()
	require.NoError(t, fs.WriteAll("shaders/vertex.wgsl", []byte("// vs")))
	require.NoError(t, fs.WriteAll("shaders/fragment.wgsl", []byte("// fs")))
	require.NoError(t, fs.WriteAll("meshes/tri.obj", []byte(triOBJ)))
	require.NoError(t, fs.WriteAll("textures/ball.png", pngBytes(t, 4, 2)))
	rec := gfx.NewRecorder()
	return NewRegistry(rec, fs, nil), fs, rec
}

func defaultStages() []ShaderPart {
	return []ShaderPart{
		{Stage: gfx.StageVertex, Path: "shaders/vertex.wgsl"},
		{Stage: gfx.StageFragment, Path: "shaders/fragment.wgsl"},
	}
}

func TestCreateAndLookup(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	sh, err := reg.CreateShader(defaultStages()...)
	require.NoError(t, err)
	mesh, err := reg.CreateMesh("meshes/tri.obj")
	require.NoError(t, err)
	tex, err := reg.CreateTexture("textures/ball.png")
	require.NoError(t, err)

	assert.NotNil(t, reg.GetShader(sh))
	assert.NotNil(t, reg.GetMesh(mesh))
	assert.NotNil(t, reg.GetTexture(tex))
	w, h := reg.GetTexture(tex).Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)

	// wrong kind and unknown ids are absent, not errors
	assert.Nil(t, reg.GetMesh(sh))
	assert.Nil(t, reg.GetTexture(guid.New()))
	assert.Equal(t, 3, reg.Len())
}

func TestCreateFailuresAreAssetLoadErrors(t *testing.T) {
	reg, fs, rec := newTestRegistry(t)
	require.NoError(t, fs.WriteAll("textures/garbage.png", []byte("not an image")))

	_, err := reg.CreateMesh("meshes/missing.obj")
	var le *AssetLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, KindMesh, le.Kind)

	_, err = reg.CreateTexture("textures/garbage.png")
	assert.True(t, errors.As(err, &le))

	rec.CompileErr = errors.New("syntax error at line 3")
	_, err = reg.CreateShader(defaultStages()...)
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "syntax error")
	assert.Equal(t, 0, reg.Len())
}

func TestManifestRoundTripKeepsGuids(t *testing.T) {
	reg, fs, _ := newTestRegistry(t)
	sh, err := reg.CreateShader(defaultStages()...)
	require.NoError(t, err)
	mesh, err := reg.CreateMesh("meshes/tri.obj")
	require.NoError(t, err)
	tex, err := reg.CreateTexture("textures/ball.png")
	require.NoError(t, err)
	baked, err := reg.BakeMesh(guid.Nil, "cube", meshgen.Cube([4]float32{1, 1, 1, 1}, 1))
	require.NoError(t, err)

	require.NoError(t, reg.SaveManifest("manifest.json"))

	fresh := NewRegistry(gfx.NewRecorder(), fs, nil)
	require.NoError(t, fresh.LoadManifest("manifest.json"))
	assert.NotNil(t, fresh.GetShader(sh))
	assert.NotNil(t, fresh.GetMesh(mesh))
	assert.NotNil(t, fresh.GetTexture(tex))
	assert.Nil(t, fresh.GetMesh(baked))

	src, ok := fresh.SourceOf(sh)
	require.True(t, ok)
	assert.Equal(t, defaultStages(), src.Stages)

	// saving again yields the same bytes
	first, err := fs.ReadAll("manifest.json")
	require.NoError(t, err)
	require.NoError(t, fresh.SaveManifest("manifest2.json"))
	second, err := fs.ReadAll("manifest2.json")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestLoadManifestSkipsUnknownKinds(t *testing.T) {
	reg, fs, _ := newTestRegistry(t)
	id := guid.New()
	doc := `[
  {"guid": "` + id.String() + `", "type": "mesh", "source": "meshes/tri.obj"},
  {"guid": "` + guid.New().String() + `", "type": "sound", "source": "boom.wav"}
]`
	require.NoError(t, fs.WriteAll("m.json", []byte(doc)))
	require.NoError(t, reg.LoadManifest("m.json"))
	assert.NotNil(t, reg.GetMesh(id))
	assert.Equal(t, 1, reg.Len())
}

func TestLoadManifestReportsEveryBadEntry(t *testing.T) {
	reg, fs, _ := newTestRegistry(t)
	doc := `[
  {"guid": "bad", "type": "mesh", "source": "meshes/tri.obj"},
  {"type": "mesh", "source": "meshes/tri.obj"},
  {"guid": "` + guid.New().String() + `", "type": "shader", "source": "only-a-path"}
]`
	require.NoError(t, fs.WriteAll("m.json", []byte(doc)))

	err := reg.LoadManifest("m.json")
	var me *ManifestError
	require.True(t, errors.As(err, &me))
	assert.Len(t, me.Problems, 3)
	assert.Equal(t, 0, reg.Len())

	require.NoError(t, fs.WriteAll("obj.json", []byte(`{"not": "an array"}`)))
	assert.True(t, errors.As(reg.LoadManifest("obj.json"), &me))
}

func TestLoadManifestIsAllOrNothing(t *testing.T) {
	reg, fs, rec := newTestRegistry(t)
	keep, err := reg.CreateMesh("meshes/tri.obj")
	require.NoError(t, err)

	good := guid.New()
	doc := `[
  {"guid": "` + good.String() + `", "type": "texture", "source": "textures/ball.png"},
  {"guid": "` + guid.New().String() + `", "type": "mesh", "source": "meshes/nope.obj"}
]`
	require.NoError(t, fs.WriteAll("m.json", []byte(doc)))

	err = reg.LoadManifest("m.json")
	var le *AssetLoadError
	require.True(t, errors.As(err, &le))
	assert.Nil(t, reg.GetTexture(good))
	assert.NotNil(t, reg.GetMesh(keep))
	assert.Len(t, rec.CallsOf("release_texture"), 1)
}

func TestBakeMeshReplacesUnderSameGuid(t *testing.T) {
	reg, _, rec := newTestRegistry(t)
	id := guid.New()
	got, err := reg.BakeMesh(id, "a", meshgen.Plane([4]float32{1, 1, 1, 1}, 1))
	require.NoError(t, err)
	assert.Equal(t, id, got)
	_, err = reg.BakeMesh(id, "b", meshgen.Cube([4]float32{1, 1, 1, 1}, 1))
	require.NoError(t, err)
	assert.Equal(t, 36, reg.GetMesh(id).IndexCount())
	assert.Len(t, rec.CallsOf("release_mesh"), 1)

	_, err = reg.BakeMesh(guid.Nil, "empty", meshgen.NewBuilder())
	assert.Error(t, err)
}

func TestReleaseEmptiesRegistry(t *testing.T) {
	reg, _, rec := newTestRegistry(t)
	_, err := reg.CreateShader(defaultStages()...)
	require.NoError(t, err)
	_, err = reg.CreateTexture("textures/ball.png")
	require.NoError(t, err)
	reg.Release()
	assert.Equal(t, 0, reg.Len())
	assert.Len(t, rec.CallsOf("release_shader"), 1)
	assert.Len(t, rec.CallsOf("release_texture"), 1)
}

func TestToRGBAFlipsRows(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(0, 1, color.NRGBA{B: 255, A: 255})
	out := toRGBA(src)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(0, 1))
}
