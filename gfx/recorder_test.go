package gfx

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderShaderUniforms(t *testing.T) {
	r := NewRecorder()
	sh, err := r.CompileShader("default", []ShaderSource{
		{Stage: StageVertex, Code: "v"},
		{Stage: StageFragment, Code: "f"},
	})
	require.NoError(t, err)

	sh.Bind()
	sh.SetUniform("u_NumLights", int32(1))
	sh.SetUniform("u_CamPos", mgl32.Vec3{0, 0, 9})
	sh.SetUniform("u_Bad", "string")

	rs := sh.(*RecordedShader)
	v, ok := rs.Uniform("u_CamPos")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0, 9}, v)
	_, ok = rs.Uniform("u_Bad")
	assert.False(t, ok)
	assert.Len(t, r.CallsOf("bad_uniform"), 1)
}

func TestRecorderRejectsDuplicateStage(t *testing.T) {
	r := NewRecorder()
	_, err := r.CompileShader("dup", []ShaderSource{{Stage: StageVertex}, {Stage: StageVertex}})
	assert.Error(t, err)

	r.CompileErr = errors.New("driver lost")
	_, err = r.CompileShader("any", []ShaderSource{{Stage: StageVertex}})
	assert.EqualError(t, err, "driver lost")
}

func TestRecorderMeshValidation(t *testing.T) {
	r := NewRecorder()
	_, err := r.UploadMesh("empty", nil, nil)
	assert.Error(t, err)

	_, err = r.UploadMesh("oob", make([]Vertex, 3), []uint32{0, 1, 3})
	assert.Error(t, err)

	m, err := r.UploadMesh("tri", make([]Vertex, 3), []uint32{0, 1, 2})
	require.NoError(t, err)
	m.Draw()
	draws := r.CallsOf("draw")
	require.Len(t, draws, 1)
	assert.Equal(t, "tri", draws[0].Label)
	assert.Equal(t, 3, m.IndexCount())
}

func TestRecorderFrames(t *testing.T) {
	r := NewRecorder()
	assert.Error(t, r.EndFrame())
	require.NoError(t, r.BeginFrame(Color{A: 1}))
	assert.Error(t, r.BeginFrame(Color{}))
	require.NoError(t, r.EndFrame())
	assert.Equal(t, 1, r.Frames())

	tex, err := r.UploadTexture("white", image.NewRGBA(image.Rect(0, 0, 4, 2)))
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
}
