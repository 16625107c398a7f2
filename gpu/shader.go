package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/gfx"
)

// Shader is one render pipeline plus its frame uniform block. Uniforms
// are staged in memory and uploaded at EndFrame.
type Shader struct {
	dev      *Device
	label    string
	pipeline *wgpu.RenderPipeline
	frameBuf *wgpu.Buffer
	frameBG  *wgpu.BindGroup

	frame  [frameBlockSize]byte
	object [objectBlockSize]byte
}

var _ gfx.Shader = (*Shader)(nil)

// CompileShader builds a pipeline from one vertex and one fragment WGSL
// source. Entry points are vs_main and fs_main.
func (d *Device) CompileShader(label string, sources []gfx.ShaderSource) (gfx.Shader, error) {
	var vsCode, fsCode string
	for _, src := range sources {
		switch src.Stage {
		case gfx.StageVertex:
			vsCode = src.Code
		case gfx.StageFragment:
			fsCode = src.Code
		}
	}
	if vsCode == "" || fsCode == "" {
		return nil, errors.Errorf("shader %s: needs a vertex and a fragment stage", label)
	}

	vs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " vs",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: vsCode},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s: vertex module", label)
	}
	defer vs.Release()

	fs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " fs",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: fsCode},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s: fragment module", label)
	}
	defer fs.Release()

	pipeline, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: d.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{meshVertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    d.config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			// The y-down camera mirrors winding.
			CullMode: wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s: pipeline", label)
	}

	frameBuf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " frame uniforms",
		Size:  frameBlockSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pipeline.Release()
		return nil, errors.Wrapf(err, "shader %s: frame buffer", label)
	}
	frameBG, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " frame bind group",
		Layout: d.frameLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  frameBuf,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		frameBuf.Release()
		pipeline.Release()
		return nil, errors.Wrapf(err, "shader %s: frame bind group", label)
	}

	return &Shader{
		dev:      d,
		label:    label,
		pipeline: pipeline,
		frameBuf: frameBuf,
		frameBG:  frameBG,
	}, nil
}

func (s *Shader) Bind() { s.dev.current = s }

func (s *Shader) SetUniform(name string, value any) {
	slot, ok := lookupUniform(name)
	if !ok {
		s.dev.warnOnce(s.label+"/"+name, "gpu: shader %s has no uniform %s", s.label, name)
		return
	}
	dst := s.object[:]
	if slot.block == blockFrame {
		dst = s.frame[:]
	}
	if err := encodeUniform(dst, slot, value); err != nil {
		s.dev.warnOnce(s.label+"/"+name, "gpu: shader %s uniform %s: %v", s.label, name, err)
	}
}

func (s *Shader) Release() {
	if s.dev.current == s {
		s.dev.current = nil
	}
	s.frameBG.Release()
	s.frameBuf.Release()
	s.pipeline.Release()
}
