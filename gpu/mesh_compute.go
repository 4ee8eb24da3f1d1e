package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/groundwork3d/groundwork/core"
	"github.com/groundwork3d/groundwork/shaders"
)

// MeshComputePass transforms a source vertex grid into a destination
// grid on the GPU, one invocation per grid cell. The destination buffer
// doubles as a vertex buffer so geometry passes can draw it directly,
// which is the whole point: no CPU round-trip between terrain updates
// and rendering.
//
// Grid dimensions and stride are validated once here against both buffer
// allocations; inside the dispatch no invocation bounds-checks its slot.
type MeshComputePass struct {
	Pipeline  *wgpu.ComputePipeline
	SrcBuf    *wgpu.Buffer
	DstBuf    *wgpu.Buffer
	ParamsBuf *wgpu.Buffer
	BindGroup *wgpu.BindGroup
	Grid      core.VertexGrid
}

// NewMeshComputePass uploads src and allocates a same-shaped destination
// buffer. An inconsistent grid configuration is an error, never a
// truncated dispatch.
func NewMeshComputePass(device *wgpu.Device, grid core.VertexGrid, src []core.Vertex) (*MeshComputePass, error) {
	if need := grid.MinBufferLen(); len(src) < need {
		return nil, fmt.Errorf("mesh compute: grid %dx%d stride %d needs %d vertices, source has %d",
			grid.Cols, grid.Rows, grid.Stride, need, len(src))
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MeshComputeCS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeshComputeWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MeshComputeBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeStorage,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 16,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "MeshComputePipeline",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, err
	}

	contents := packVertices(src)
	srcBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshComputeSrcVB",
		Contents: contents,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}
	// Destination starts as a copy of the source so untouched gap slots
	// (stride > rows) hold valid vertices rather than garbage.
	dstBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshComputeDstVB",
		Contents: contents,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageVertex,
	})
	if err != nil {
		srcBuf.Release()
		return nil, err
	}

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(grid.Cols))
	binary.LittleEndian.PutUint32(params[4:8], uint32(grid.Rows))
	binary.LittleEndian.PutUint32(params[8:12], uint32(grid.Stride))
	paramsBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshComputeParamsUB",
		Contents: params,
		Usage:    wgpu.BufferUsageUniform,
	})
	if err != nil {
		srcBuf.Release()
		dstBuf.Release()
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "MeshComputeBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: srcBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: dstBuf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: paramsBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		srcBuf.Release()
		dstBuf.Release()
		paramsBuf.Release()
		return nil, err
	}

	return &MeshComputePass{
		Pipeline:  pipeline,
		SrcBuf:    srcBuf,
		DstBuf:    dstBuf,
		ParamsBuf: paramsBuf,
		BindGroup: bindGroup,
		Grid:      grid,
	}, nil
}

// Dispatch records the compute pass. The pass boundary on the shared
// encoder is the write-before-read barrier: any draw recorded after it
// on the same queue sees the finished destination buffer.
func (p *MeshComputePass) Dispatch(encoder *wgpu.CommandEncoder) error {
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.DispatchWorkgroups(
		(uint32(p.Grid.Cols)+7)/8,
		(uint32(p.Grid.Rows)+7)/8,
		1,
	)
	return pass.End()
}

func (p *MeshComputePass) Release() {
	if p == nil {
		return
	}
	for _, b := range []*wgpu.Buffer{p.SrcBuf, p.DstBuf, p.ParamsBuf} {
		if b != nil {
			b.Release()
		}
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
