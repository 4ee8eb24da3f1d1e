package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork3d/groundwork/core"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestPackFrameCamera_Layout(t *testing.T) {
	var proj, inv mgl32.Mat4
	for i := range proj {
		proj[i] = float32(i)
		inv[i] = float32(100 + i)
	}

	buf := PackFrameCamera(core.FrameCamera{Projection: proj, Inverse: inv})
	require.Len(t, buf, CameraUniformSize)

	// mgl32 stores column-major, which is exactly what mat4x4<f32>
	// expects, so the pack is a straight element copy.
	for i := 0; i < 16; i++ {
		assert.Equal(t, proj[i], f32At(buf, i*4), "projection element %d", i)
		assert.Equal(t, inv[i], f32At(buf, 64+i*4), "inverse element %d", i)
	}
}

func TestPackScreenInfo_Layout(t *testing.T) {
	buf := PackScreenInfo(core.ScreenInfo{Width: 1280, Height: 720, Time: 3.5})
	require.Len(t, buf, ScreenInfoUniformSize)

	assert.Equal(t, float32(1280), f32At(buf, 0))
	assert.Equal(t, float32(720), f32At(buf, 4))
	assert.Equal(t, float32(3.5), f32At(buf, 8))
	assert.Equal(t, float32(0), f32At(buf, 12), "pad stays zero")
}

func TestPackVertices_Layout(t *testing.T) {
	vs := []core.Vertex{
		{
			Position: [3]float32{1, 2, 3},
			Color:    [3]float32{0.1, 0.2, 0.3},
			Normal:   [3]float32{0, 1, 0},
		},
		{
			Position: [3]float32{4, 5, 6},
			Color:    [3]float32{0.4, 0.5, 0.6},
			Normal:   [3]float32{0, 0, 1},
		},
	}
	buf := packVertices(vs)
	require.Len(t, buf, 2*core.VertexSize)

	for vi, v := range vs {
		base := vi * core.VertexSize
		want := []float32{
			v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
		}
		for fi, w := range want {
			assert.Equal(t, w, f32At(buf, base+fi*4), "vertex %d field %d", vi, fi)
		}
	}
}
