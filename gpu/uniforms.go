package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/groundwork3d/groundwork/core"
)

const (
	// CameraUniformSize is two column-major mat4x4<f32>.
	CameraUniformSize = 128
	// ScreenInfoUniformSize is vec2<f32> + f32 + pad.
	ScreenInfoUniformSize = 16
)

func mat4Bytes(dst []byte, m mgl32.Mat4) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// PackFrameCamera serializes a FrameCamera into the 128-byte layout the
// WGSL Camera struct expects: projection then inverse, column-major.
func PackFrameCamera(c core.FrameCamera) []byte {
	buf := make([]byte, CameraUniformSize)
	mat4Bytes(buf[0:64], c.Projection)
	mat4Bytes(buf[64:128], c.Inverse)
	return buf
}

// PackScreenInfo serializes ScreenInfo into its 16-byte uniform layout.
func PackScreenInfo(s core.ScreenInfo) []byte {
	buf := make([]byte, ScreenInfoUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(s.Width))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(s.Height))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(s.Time))
	return buf
}

// packVertices serializes vertices into the packed 36-byte layout shared
// with the WGSL Vertex struct.
func packVertices(vs []core.Vertex) []byte {
	buf := make([]byte, len(vs)*core.VertexSize)
	off := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	for _, v := range vs {
		put(v.Position[0])
		put(v.Position[1])
		put(v.Position[2])
		put(v.Color[0])
		put(v.Color[1])
		put(v.Color[2])
		put(v.Normal[0])
		put(v.Normal[1])
		put(v.Normal[2])
	}
	return buf
}

// CameraBinding owns the uniform buffer behind one Camera bind group
// slot. Two live per frame: the player camera and the sun camera.
type CameraBinding struct {
	Buf *wgpu.Buffer
}

func NewCameraBinding(device *wgpu.Device, label string) (*CameraBinding, error) {
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: PackFrameCamera(core.IdentityFrameCamera()),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	return &CameraBinding{Buf: buf}, nil
}

func (b *CameraBinding) Set(queue *wgpu.Queue, c core.FrameCamera) {
	queue.WriteBuffer(b.Buf, 0, PackFrameCamera(c))
}

// ScreenInfoBinding owns the per-frame screen size / time uniform.
type ScreenInfoBinding struct {
	Buf *wgpu.Buffer
}

func NewScreenInfoBinding(device *wgpu.Device) (*ScreenInfoBinding, error) {
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "ScreenInfoUB",
		Contents: PackScreenInfo(core.ScreenInfo{}),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	return &ScreenInfoBinding{Buf: buf}, nil
}

func (b *ScreenInfoBinding) Set(queue *wgpu.Queue, s core.ScreenInfo) {
	queue.WriteBuffer(b.Buf, 0, PackScreenInfo(s))
}
