package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/groundwork3d/groundwork/shaders"
)

// WaterPass renders the translucent water sheet over the terrain in the
// main pass. Shares the ground pass bind groups (same camera and screen
// layouts) and does not write depth so the terrain below stays visible
// through the surface.
type WaterPass struct {
	Pipeline *wgpu.RenderPipeline
}

func NewWaterPass(device *wgpu.Device, format wgpu.TextureFormat, ground *GroundPass) (*WaterPass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "WaterShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.WaterWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{ground.cameraBGL, ground.screenBGL},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "WaterPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
					Alpha: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionLess,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	return &WaterPass{Pipeline: pipeline}, nil
}

func (p *WaterPass) Draw(pass *wgpu.RenderPassEncoder, ground *GroundPass, mesh *Mesh) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, ground.CameraBG, nil)
	pass.SetBindGroup(1, ground.ScreenBG, nil)
	mesh.Draw(pass)
}
