package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/groundwork3d/groundwork/core"
)

// Mesh is an uploaded vertex/index buffer pair in the shared 36-byte
// vertex layout.
type Mesh struct {
	VertexBuf  *wgpu.Buffer
	IndexBuf   *wgpu.Buffer
	IndexCount uint32
}

func NewMesh(device *wgpu.Device, label string, vertices []core.Vertex, indices []uint32) (*Mesh, error) {
	vbuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + "VB",
		Contents: packVertices(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}
	ibuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + "IB",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vbuf.Release()
		return nil, err
	}
	return &Mesh{VertexBuf: vbuf, IndexBuf: ibuf, IndexCount: uint32(len(indices))}, nil
}

// NewMeshFromBuffer wraps an existing vertex buffer, typically the
// destination buffer of a MeshComputePass, with its own index buffer.
// The vertex buffer stays owned by whoever created it.
func NewMeshFromBuffer(device *wgpu.Device, label string, vertexBuf *wgpu.Buffer, indices []uint32) (*Mesh, error) {
	ibuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + "IB",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return nil, err
	}
	return &Mesh{VertexBuf: vertexBuf, IndexBuf: ibuf, IndexCount: uint32(len(indices))}, nil
}

func (m *Mesh) Draw(pass *wgpu.RenderPassEncoder) {
	pass.SetVertexBuffer(0, m.VertexBuf, 0, m.VertexBuf.GetSize())
	pass.SetIndexBuffer(m.IndexBuf, wgpu.IndexFormatUint32, 0, m.IndexBuf.GetSize())
	pass.DrawIndexed(m.IndexCount, 1, 0, 0, 0)
}
