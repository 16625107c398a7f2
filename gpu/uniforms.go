package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the light array in the frame block.
const MaxLights = 8

// Frame block (group 0):
//
//	0   cam_pos      vec3
//	12  num_lights   i32
//	16  ambient      vec3
//	32  lights[8]    { position vec3, attenuation f32, color vec3, pad }
//
// Object block (group 1, one dynamic slot per draw):
//
//	0   mvp          mat4
//	64  model        mat4
//	128 normal       mat3 (columns padded to vec4)
//	176 shininess    f32
//	180 diffuse      i32
const (
	frameBlockSize  = 32 + MaxLights*lightStride
	lightStride     = 32
	objectBlockSize = 192
	// objectStride satisfies the default minUniformBufferOffsetAlignment.
	objectStride = 256
)

type block int

const (
	blockFrame block = iota
	blockObject
)

type uniformKind int

const (
	kindFloat uniformKind = iota
	kindInt
	kindVec3
	kindMat3
	kindMat4
)

func (k uniformKind) String() string {
	switch k {
	case kindFloat:
		return "f32"
	case kindInt:
		return "i32"
	case kindVec3:
		return "vec3"
	case kindMat3:
		return "mat3"
	case kindMat4:
		return "mat4"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type uniformSlot struct {
	block  block
	offset int
	kind   uniformKind
}

var namedUniforms = map[string]uniformSlot{
	"u_CamPos":              {blockFrame, 0, kindVec3},
	"u_NumLights":           {blockFrame, 12, kindInt},
	"u_AmbientCol":          {blockFrame, 16, kindVec3},
	"u_ModelViewProjection": {blockObject, 0, kindMat4},
	"u_Model":               {blockObject, 64, kindMat4},
	"u_NormalMatrix":        {blockObject, 128, kindMat3},
	"u_Material.Shininess":  {blockObject, 176, kindFloat},
	"u_Material.Diffuse":    {blockObject, 180, kindInt},
}

var lightFields = map[string]uniformSlot{
	"Position":    {blockFrame, 0, kindVec3},
	"Attenuation": {blockFrame, 12, kindFloat},
	"Color":       {blockFrame, 16, kindVec3},
}

// lookupUniform resolves a uniform name to its place in a block. Light
// fields use the form u_Lights[i].Field.
func lookupUniform(name string) (uniformSlot, bool) {
	if s, ok := namedUniforms[name]; ok {
		return s, true
	}
	rest, ok := strings.CutPrefix(name, "u_Lights[")
	if !ok {
		return uniformSlot{}, false
	}
	idx, field, ok := strings.Cut(rest, "].")
	if !ok {
		return uniformSlot{}, false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= MaxLights {
		return uniformSlot{}, false
	}
	s, ok := lightFields[field]
	if !ok {
		return uniformSlot{}, false
	}
	s.offset += 32 + i*lightStride
	return s, true
}

func putFloat(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

// encodeUniform writes value into dst at the slot offset.
func encodeUniform(dst []byte, s uniformSlot, value any) error {
	b := dst[s.offset:]
	switch s.kind {
	case kindFloat:
		v, ok := value.(float32)
		if !ok {
			return mismatch(s.kind, value)
		}
		putFloat(b, v)
	case kindInt:
		var v int32
		switch x := value.(type) {
		case int32:
			v = x
		case int:
			v = int32(x)
		default:
			return mismatch(s.kind, value)
		}
		binary.LittleEndian.PutUint32(b, uint32(v))
	case kindVec3:
		v, ok := value.(mgl32.Vec3)
		if !ok {
			return mismatch(s.kind, value)
		}
		for i := 0; i < 3; i++ {
			putFloat(b[i*4:], v[i])
		}
	case kindMat3:
		m, ok := value.(mgl32.Mat3)
		if !ok {
			return mismatch(s.kind, value)
		}
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				putFloat(b[col*16+row*4:], m[col*3+row])
			}
			putFloat(b[col*16+12:], 0)
		}
	case kindMat4:
		m, ok := value.(mgl32.Mat4)
		if !ok {
			return mismatch(s.kind, value)
		}
		for i, v := range m {
			putFloat(b[i*4:], v)
		}
	}
	return nil
}

func mismatch(k uniformKind, value any) error {
	return fmt.Errorf("expected %s, got %T", k, value)
}
