package gpu

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/brickbreaker/gfx"
)

func parseFormat(name string) (wgpu.VertexFormat, error) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, nil
	case "float3":
		return wgpu.VertexFormatFloat32x3, nil
	case "float4":
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex layout format: %s", name)
	}
}

// vertexBufferLayout reflects the gfx:"layout" fields of a vertex struct.
func vertexBufferLayout(vertexType any) (wgpu.VertexBufferLayout, error) {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex must be a struct, got %s", t.Kind())
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Tag.Get("gfx") == "layout" {
			format, err := parseFormat(field.Tag.Get("format"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, err
			}
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("field %s: bad location: %w", field.Name, err)
			}
			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}

var meshVertexLayout = func() wgpu.VertexBufferLayout {
	l, err := vertexBufferLayout(gfx.Vertex{})
	if err != nil {
		panic(err)
	}
	return l
}()
