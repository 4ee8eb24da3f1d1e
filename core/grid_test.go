package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVertexGrid_Validation(t *testing.T) {
	tests := []struct {
		name   string
		cols   int
		rows   int
		stride int
		bufLen int
		ok     bool
	}{
		{name: "tight fit", cols: 4, rows: 4, stride: 4, bufLen: 16, ok: true},
		{name: "padded stride", cols: 3, rows: 2, stride: 5, bufLen: 12, ok: true},
		{name: "default stride", cols: 2, rows: 100, stride: DefaultStride, bufLen: DefaultStride + 100, ok: true},
		{name: "single cell", cols: 1, rows: 1, stride: 1, bufLen: 1, ok: true},
		{name: "zero cols", cols: 0, rows: 4, stride: 4, bufLen: 16, ok: false},
		{name: "negative rows", cols: 4, rows: -1, stride: 4, bufLen: 16, ok: false},
		{name: "stride below row length", cols: 4, rows: 4, stride: 3, bufLen: 64, ok: false},
		{name: "buffer too small", cols: 4, rows: 4, stride: 4, bufLen: 15, ok: false},
		{name: "padded stride overruns buffer", cols: 3, rows: 2, stride: 5, bufLen: 11, ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewVertexGrid(tc.cols, tc.rows, tc.stride, tc.bufLen)
			if tc.ok {
				require.NoError(t, err)
				assert.LessOrEqual(t, g.MinBufferLen(), tc.bufLen)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestVertexGrid_Index(t *testing.T) {
	g, err := NewVertexGrid(3, 2, 5, 12)
	require.NoError(t, err)

	assert.Equal(t, 0, g.Index(0, 0))
	assert.Equal(t, 1, g.Index(0, 1))
	assert.Equal(t, 5, g.Index(1, 0))
	assert.Equal(t, 11, g.Index(2, 1))
	assert.Equal(t, 12, g.MinBufferLen())
}

func TestApplyTransform_HeightFromX(t *testing.T) {
	g, err := NewVertexGrid(2, 2, 2, 4)
	require.NoError(t, err)

	src := []Vertex{
		{Position: [3]float32{1, 9, 0}},
		{Position: [3]float32{2, 9, 0}},
		{Position: [3]float32{3, 9, 0}},
		{Position: [3]float32{4, 9, 0}},
	}
	dst := make([]Vertex, 4)
	require.NoError(t, ApplyTransform(g, src, dst, HeightFromX{}))

	want := [][3]float32{{1, 1, 0}, {2, 2, 0}, {3, 3, 0}, {4, 4, 0}}
	for i, w := range want {
		assert.Equal(t, w, dst[i].Position, "slot %d", i)
	}
}

func TestApplyTransform_Idempotent(t *testing.T) {
	g, err := NewVertexGrid(3, 3, 3, 9)
	require.NoError(t, err)

	src := make([]Vertex, 9)
	for i := range src {
		src[i].Position = [3]float32{float32(i), 0, float32(i)}
	}
	first := make([]Vertex, 9)
	second := make([]Vertex, 9)
	require.NoError(t, ApplyTransform(g, src, first, HeightFromX{}))
	require.NoError(t, ApplyTransform(g, src, second, HeightFromX{}))
	assert.Equal(t, first, second)
}

// With a padded stride the gap slots between rows are not grid cells and
// must come through untouched.
func TestApplyTransform_SkipsGapSlots(t *testing.T) {
	g, err := NewVertexGrid(2, 2, 3, 5)
	require.NoError(t, err)

	src := make([]Vertex, 5)
	for i := range src {
		src[i].Position = [3]float32{float32(i + 1), 0, 0}
	}
	sentinel := Vertex{Position: [3]float32{-99, -99, -99}}
	dst := make([]Vertex, 5)
	dst[2] = sentinel

	require.NoError(t, ApplyTransform(g, src, dst, HeightFromX{}))

	assert.Equal(t, sentinel, dst[2], "gap slot must not be written")
	assert.Equal(t, float32(1), dst[0].Position[1])
	assert.Equal(t, float32(2), dst[1].Position[1])
	assert.Equal(t, float32(4), dst[3].Position[1])
	assert.Equal(t, float32(5), dst[4].Position[1])
}

func TestApplyTransform_RejectsShortBuffers(t *testing.T) {
	g, err := NewVertexGrid(2, 2, 2, 4)
	require.NoError(t, err)

	src := make([]Vertex, 4)
	assert.Error(t, ApplyTransform(g, src, make([]Vertex, 3), HeightFromX{}))
	assert.Error(t, ApplyTransform(g, src[:3], make([]Vertex, 4), HeightFromX{}))
}
