package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/groundwork3d/groundwork/shaders"
)

// DepthSamplerPass is the post-process stage that reprojects the main
// depth buffer into the sun camera and writes the shadow map depth as
// the pixel color. It draws a single fullscreen triangle with no vertex
// buffer.
//
// Bind group order matches the shader: shadow depth, main depth, screen
// info, player camera, sun camera. Five groups, so the device must be
// requested with MaxBindGroups >= 5.
type DepthSamplerPass struct {
	Pipeline *wgpu.RenderPipeline

	ShadowBG *wgpu.BindGroup
	MainBG   *wgpu.BindGroup
	ScreenBG *wgpu.BindGroup
	CameraBG *wgpu.BindGroup
	SunBG    *wgpu.BindGroup

	device    *wgpu.Device
	depthBGL  *wgpu.BindGroupLayout
	screenBGL *wgpu.BindGroupLayout
	cameraBGL *wgpu.BindGroupLayout
}

func NewDepthSamplerPass(device *wgpu.Device, format wgpu.TextureFormat) (*DepthSamplerPass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "DepthSamplerShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.DepthSamplerWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	depthBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "DepthSamplerDepthBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	screenBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "DepthSamplerScreenBGL",
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

	cameraBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "DepthSamplerCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
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

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{
			depthBGL,  // group 0: shadow depth
			depthBGL,  // group 1: main depth
			screenBGL, // group 2: screen info
			cameraBGL, // group 3: player camera
			cameraBGL, // group 4: sun camera
		},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "DepthSamplerPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
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
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return &DepthSamplerPass{
		Pipeline:  pipeline,
		device:    device,
		depthBGL:  depthBGL,
		screenBGL: screenBGL,
		cameraBGL: cameraBGL,
	}, nil
}

// CreateBindGroups (re)binds the pass inputs. Called at init and again
// whenever the depth textures are recreated on resize.
func (p *DepthSamplerPass) CreateBindGroups(
	shadowDepth, mainDepth *wgpu.TextureView,
	screen *ScreenInfoBinding,
	camera, sun *CameraBinding,
) error {
	for _, bg := range []*wgpu.BindGroup{p.ShadowBG, p.MainBG, p.ScreenBG, p.CameraBG, p.SunBG} {
		if bg != nil {
			bg.Release()
		}
	}

	var err error
	p.ShadowBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "DepthSamplerShadowBG",
		Layout:  p.depthBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, TextureView: shadowDepth}},
	})
	if err != nil {
		return err
	}
	p.MainBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "DepthSamplerMainBG",
		Layout:  p.depthBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, TextureView: mainDepth}},
	})
	if err != nil {
		return err
	}
	p.ScreenBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "DepthSamplerScreenBG",
		Layout:  p.screenBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: screen.Buf, Size: ScreenInfoUniformSize}},
	})
	if err != nil {
		return err
	}
	p.CameraBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "DepthSamplerCameraBG",
		Layout:  p.cameraBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: camera.Buf, Size: CameraUniformSize}},
	})
	if err != nil {
		return err
	}
	p.SunBG, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "DepthSamplerSunBG",
		Layout:  p.cameraBGL,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: sun.Buf, Size: CameraUniformSize}},
	})
	return err
}

// Draw records the fullscreen pass. Must run after both depth pre-passes
// in the same frame have ended.
func (p *DepthSamplerPass) Draw(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.ShadowBG, nil)
	pass.SetBindGroup(1, p.MainBG, nil)
	pass.SetBindGroup(2, p.ScreenBG, nil)
	pass.SetBindGroup(3, p.CameraBG, nil)
	pass.SetBindGroup(4, p.SunBG, nil)
	pass.Draw(3, 1, 0, 0)
}
