package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/groundwork3d/groundwork/core"
	"github.com/groundwork3d/groundwork/shaders"
)

var vertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: core.VertexSize,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(3 * unsafe.Sizeof(float32(0))), ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(6 * unsafe.Sizeof(float32(0))), ShaderLocation: 2},
	},
}

// GroundPass renders terrain meshes. It carries two pipelines built from
// the same shader module: the lit color pipeline for the main pass and a
// depth-only pipeline for the sun shadow pre-pass.
type GroundPass struct {
	Pipeline      *wgpu.RenderPipeline
	DepthPipeline *wgpu.RenderPipeline

	CameraBG *wgpu.BindGroup
	SunBG    *wgpu.BindGroup
	ScreenBG *wgpu.BindGroup

	device    *wgpu.Device
	cameraBGL *wgpu.BindGroupLayout
	screenBGL *wgpu.BindGroupLayout
}

func NewGroundPass(device *wgpu.Device, format wgpu.TextureFormat) (*GroundPass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "GroundShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.GroundWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	cameraBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "GroundCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: CameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	screenBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "GroundScreenBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: ScreenInfoUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraBGL, screenBGL},
	})
	if err != nil {
		return nil, err
	}

	depthState := &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "GroundPipeline",
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
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	// Same geometry, no color target: this is what the sun sees.
	depthPipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "GroundDepthPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return &GroundPass{
		Pipeline:      pipeline,
		DepthPipeline: depthPipeline,
		device:        device,
		cameraBGL:     cameraBGL,
		screenBGL:     screenBGL,
	}, nil
}

func (p *GroundPass) CreateBindGroups(screen *ScreenInfoBinding, camera, sun *CameraBinding) error {
	for _, bg := range []*wgpu.BindGroup{p.CameraBG, p.SunBG, p.ScreenBG} {
		if bg != nil {
			bg.Release()
		}
	}

	var err error
	p.CameraBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "GroundCameraBG",
		Layout:  p.cameraBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: camera.Buf, Size: CameraUniformSize}},
	})
	if err != nil {
		return err
	}
	p.SunBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "GroundSunBG",
		Layout:  p.cameraBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: sun.Buf, Size: CameraUniformSize}},
	})
	if err != nil {
		return err
	}
	p.ScreenBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "GroundScreenBG",
		Layout:  p.screenBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: screen.Buf, Size: ScreenInfoUniformSize}},
	})
	return err
}

// DrawDepthOnly records the shadow pre-pass geometry with the sun
// camera bound.
func (p *GroundPass) DrawDepthOnly(pass *wgpu.RenderPassEncoder, meshes []*Mesh) {
	pass.SetPipeline(p.DepthPipeline)
	pass.SetBindGroup(0, p.SunBG, nil)
	pass.SetBindGroup(1, p.ScreenBG, nil)
	for _, m := range meshes {
		m.Draw(pass)
	}
}

// Draw records the lit main-pass geometry with the player camera bound.
func (p *GroundPass) Draw(pass *wgpu.RenderPassEncoder, meshes []*Mesh) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.CameraBG, nil)
	pass.SetBindGroup(1, p.ScreenBG, nil)
	for _, m := range meshes {
		m.Draw(pass)
	}
}
