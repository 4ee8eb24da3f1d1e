package terrain

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundwork3d/groundwork/core"
)

func TestFlatGrid_Shape(t *testing.T) {
	vertices, indices, grid, err := FlatGrid(4, 3, 2, 1.5)
	require.NoError(t, err)

	assert.Equal(t, 4, grid.Cols)
	assert.Equal(t, 3, grid.Rows)
	assert.Equal(t, 3, grid.Stride, "tight stride equals row length")
	assert.Len(t, vertices, 12)
	assert.Len(t, indices, 3*2*6, "two triangles per interior quad")

	// Every vertex is flat, white, up-facing, and spaced by res*size.
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			v := vertices[grid.Index(x, y)]
			assert.Equal(t, [3]float32{float32(x) * 3, 1, float32(y) * 3}, v.Position)
			assert.Equal(t, [3]float32{1, 1, 1}, v.Color)
			assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
		}
	}
	for _, idx := range indices {
		assert.Less(t, int(idx), len(vertices))
	}
}

func TestFlatGrid_RejectsBadDims(t *testing.T) {
	_, _, _, err := FlatGrid(0, 3, 1, 1)
	assert.Error(t, err)
	_, _, _, err = FlatGrid(3, -1, 1, 1)
	assert.Error(t, err)
}

func TestHeightFieldTransform(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: 51})
		}
	}
	hm, err := New(img, Config{Res: 1, Size: 1, Chunks: 1, HeightMult: 100})
	require.NoError(t, err)

	tr := HeightFieldTransform{Map: hm}
	v := tr.Transform(core.Vertex{Position: [3]float32{3, 0, 3}}, core.GridIndex{})
	assert.InDelta(t, 20, v.Position[1], 1e-3)
	assert.Equal(t, float32(3), v.Position[0], "ground coordinates pass through")
	assert.Equal(t, float32(3), v.Position[2])
}
