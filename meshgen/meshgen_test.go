package meshgen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	b, err := ParseOBJ([]byte(quadOBJ))
	require.NoError(t, err)
	assert.Len(t, b.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, b.Indices)
	assert.Equal(t, [2]float32{1, 1}, b.Vertices[2].UV)
	assert.Equal(t, [3]float32{0, 0, 1}, b.Vertices[0].Normal)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	b, err := ParseOBJ([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, b.Indices)
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"no faces":     "v 0 0 0\n",
		"out of range": "v 0 0 0\nf 1 2 3\n",
		"bad float":    "v 0 x 0\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
	}
	for name, src := range cases {
		_, err := ParseOBJ([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestBuildAppliesPlacement(t *testing.T) {
	b, err := Build([]Param{
		{Type: ShapeCube, Position: mgl32.Vec3{10, 0, 0}, Scale: mgl32.Vec3{2, 2, 2}},
	})
	require.NoError(t, err)
	lo, hi := b.Bounds()
	assert.InDelta(t, 9, lo.X(), 1e-5)
	assert.InDelta(t, 11, hi.X(), 1e-5)
	assert.InDelta(t, -1, lo.Y(), 1e-5)
	assert.Len(t, b.Indices, 36)
}

func TestBuildConcatenatesInOrder(t *testing.T) {
	b, err := Build([]Param{{Type: ShapePlane}, {Type: ShapeCube}})
	require.NoError(t, err)
	assert.Len(t, b.Vertices, 4+24)
	assert.Len(t, b.Indices, 6+36)
	for _, i := range b.Indices {
		assert.Less(t, int(i), len(b.Vertices))
	}
}

func TestBuildRejectsUnknownShape(t *testing.T) {
	_, err := Build([]Param{{Type: "torus"}})
	assert.Error(t, err)
	_, err = Build(nil)
	assert.Error(t, err)
}

func TestSpheresAreOnRadius(t *testing.T) {
	for _, b := range []*Builder{UVSphere(8, 16, [4]float32{1, 1, 1, 1}), IcoSphere(2, [4]float32{1, 1, 1, 1})} {
		for _, v := range b.Vertices {
			assert.InDelta(t, 0.5, mgl32.Vec3(v.Position).Len(), 1e-4)
		}
	}
	assert.Len(t, IcoSphere(1, [4]float32{}).Indices, 80*3)
}
