package terrain

import (
	"github.com/groundwork3d/groundwork/core"
)

// FlatGrid builds the source data for the GPU mesh compute path: a flat
// white vertex grid at unit height plus the triangle indices that draw
// it. The returned VertexGrid carries the stride (one row of rows cells)
// that the compute dispatch must use.
func FlatGrid(cols, rows, res int, size float32) ([]core.Vertex, []uint32, core.VertexGrid, error) {
	grid, err := core.NewVertexGrid(cols, rows, rows, cols*rows)
	if err != nil {
		return nil, nil, core.VertexGrid{}, err
	}

	vertices := make([]core.Vertex, cols*rows)
	var indices []uint32
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			vertices[grid.Index(x, y)] = core.Vertex{
				Position: [3]float32{float32(x*res) * size, 1.0, float32(y*res) * size},
				Color:    [3]float32{1, 1, 1},
				Normal:   [3]float32{0, 1, 0},
			}
			if x < cols-1 && y < rows-1 {
				i := uint32(grid.Index(x, y))
				r := uint32(rows)
				indices = append(indices, i, i+1, i+r+1, i, i+r+1, i+r)
			}
		}
	}
	return vertices, indices, grid, nil
}

// HeightFieldTransform lifts grid vertices onto a height map, the
// intended replacement for the placeholder x-as-height transform.
type HeightFieldTransform struct {
	Map *HeightMap
}

func (t HeightFieldTransform) Transform(v core.Vertex, _ core.GridIndex) core.Vertex {
	v.Position[1] = t.Map.HeightAt(v.Position[0], v.Position[2])
	return v
}
