package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestLookupUniformNamed(t *testing.T) {
	s, ok := lookupUniform("u_NumLights")
	require.True(t, ok)
	assert.Equal(t, uniformSlot{blockFrame, 12, kindInt}, s)

	s, ok = lookupUniform("u_Material.Diffuse")
	require.True(t, ok)
	assert.Equal(t, uniformSlot{blockObject, 180, kindInt}, s)

	_, ok = lookupUniform("u_Unknown")
	assert.False(t, ok)
}

func TestLookupUniformLights(t *testing.T) {
	s, ok := lookupUniform("u_Lights[0].Position")
	require.True(t, ok)
	assert.Equal(t, uniformSlot{blockFrame, 32, kindVec3}, s)

	s, ok = lookupUniform("u_Lights[2].Color")
	require.True(t, ok)
	assert.Equal(t, 32+2*32+16, s.offset)

	s, ok = lookupUniform("u_Lights[7].Attenuation")
	require.True(t, ok)
	assert.Equal(t, frameBlockSize-32+12, s.offset)

	for _, name := range []string{
		"u_Lights[8].Position",
		"u_Lights[-1].Position",
		"u_Lights[x].Position",
		"u_Lights[0].Range",
		"u_Lights[0]",
	} {
		_, ok := lookupUniform(name)
		assert.False(t, ok, name)
	}
}

func TestEncodeUniformScalarsAndVectors(t *testing.T) {
	var buf [frameBlockSize]byte

	require.NoError(t, encodeUniform(buf[:], uniformSlot{blockFrame, 16, kindVec3}, mgl32.Vec3{0.1, 0.2, 0.3}))
	assert.Equal(t, float32(0.1), floatAt(buf[:], 16))
	assert.Equal(t, float32(0.3), floatAt(buf[:], 24))

	require.NoError(t, encodeUniform(buf[:], uniformSlot{blockFrame, 12, kindInt}, 3))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[12:]))

	require.NoError(t, encodeUniform(buf[:], uniformSlot{blockFrame, 44, kindFloat}, float32(0.2)))
	assert.Equal(t, float32(0.2), floatAt(buf[:], 44))

	assert.Error(t, encodeUniform(buf[:], uniformSlot{blockFrame, 44, kindFloat}, 1.0))
	assert.Error(t, encodeUniform(buf[:], uniformSlot{blockFrame, 16, kindVec3}, mgl32.Vec4{}))
}

func TestEncodeUniformMatrices(t *testing.T) {
	var buf [objectBlockSize]byte

	m4 := mgl32.Translate3D(1, 2, 3)
	require.NoError(t, encodeUniform(buf[:], uniformSlot{blockObject, 64, kindMat4}, m4))
	// Column-major: translation is the fourth column.
	assert.Equal(t, float32(1), floatAt(buf[:], 64+12*4))
	assert.Equal(t, float32(3), floatAt(buf[:], 64+14*4))

	m3 := mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	require.NoError(t, encodeUniform(buf[:], uniformSlot{blockObject, 128, kindMat3}, m3))
	assert.Equal(t, float32(3), floatAt(buf[:], 128+8))
	assert.Equal(t, float32(0), floatAt(buf[:], 128+12), "column padding")
	assert.Equal(t, float32(4), floatAt(buf[:], 128+16))
	assert.Equal(t, float32(9), floatAt(buf[:], 128+32+8))
}

func TestMeshVertexLayout(t *testing.T) {
	assert.Equal(t, uint64(48), meshVertexLayout.ArrayStride)
	require.Len(t, meshVertexLayout.Attributes, 4)
	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 2, Offset: 24, Format: wgpu.VertexFormatFloat32x2}, meshVertexLayout.Attributes[2])
	assert.Equal(t, uint64(32), meshVertexLayout.Attributes[3].Offset)
}

func TestVertexLayoutRejectsBadTags(t *testing.T) {
	type bad struct {
		P [3]float32 `gfx:"layout" format:"float9" location:"0"`
	}
	_, err := vertexBufferLayout(bad{})
	assert.Error(t, err)

	_, err = vertexBufferLayout(3)
	assert.Error(t, err)
}
