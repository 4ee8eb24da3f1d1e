package core

import "fmt"

// DefaultStride is the row stride of the shipped terrain grid. The value
// must agree with the buffer allocation on both sides of the compute
// dispatch; VertexGrid is the single place that checks it.
const DefaultStride = 1536

// GridIndex addresses one cell of a 2D vertex grid.
type GridIndex struct {
	X int
	Y int
}

// VertexGrid describes a 2D grid of vertices flattened into a 1D buffer
// with a fixed row stride: cell (x, y) lives at x*Stride + y. Cols counts
// rows along x, Rows counts cells along y within a row.
type VertexGrid struct {
	Cols   int
	Rows   int
	Stride int
}

// NewVertexGrid validates a grid configuration against the length of the
// flat buffer it will index. Inconsistent configurations are rejected here,
// once, so per-cell work never has to bounds-check.
func NewVertexGrid(cols, rows, stride, bufLen int) (VertexGrid, error) {
	if cols <= 0 || rows <= 0 {
		return VertexGrid{}, fmt.Errorf("vertex grid: dimensions %dx%d must be positive", cols, rows)
	}
	if stride < rows {
		return VertexGrid{}, fmt.Errorf("vertex grid: stride %d smaller than row length %d", stride, rows)
	}
	need := (cols-1)*stride + rows
	if need > bufLen {
		return VertexGrid{}, fmt.Errorf("vertex grid: %dx%d with stride %d needs %d vertices, buffer has %d",
			cols, rows, stride, need, bufLen)
	}
	return VertexGrid{Cols: cols, Rows: rows, Stride: stride}, nil
}

// Index returns the flat buffer index of cell (x, y). The caller is
// expected to stay inside the validated dimensions.
func (g VertexGrid) Index(x, y int) int {
	return x*g.Stride + y
}

// MinBufferLen is the smallest flat buffer this grid can address.
func (g VertexGrid) MinBufferLen() int {
	return (g.Cols-1)*g.Stride + g.Rows
}

// VertexTransform derives a destination vertex from a source vertex and
// its grid cell. Implementations must be pure: same inputs, same output,
// no state shared between cells.
type VertexTransform interface {
	Transform(v Vertex, idx GridIndex) Vertex
}

// HeightFromX is the shipped placeholder transform: the vertex height is
// replaced by its x coordinate, color and normal pass through.
type HeightFromX struct{}

func (HeightFromX) Transform(v Vertex, _ GridIndex) Vertex {
	v.Position[1] = v.Position[0]
	return v
}

// ApplyTransform runs t over every grid cell, writing each destination
// slot exactly once. It is the CPU mirror of the GPU mesh compute stage
// and uses the same flat indexing; the two must stay in agreement.
func ApplyTransform(g VertexGrid, src, dst []Vertex, t VertexTransform) error {
	if need := g.MinBufferLen(); len(src) < need || len(dst) < need {
		return fmt.Errorf("apply transform: grid needs %d vertices, src has %d, dst has %d",
			need, len(src), len(dst))
	}
	for x := 0; x < g.Cols; x++ {
		for y := 0; y < g.Rows; y++ {
			i := g.Index(x, y)
			dst[i] = t.Transform(src[i], GridIndex{X: x, Y: y})
		}
	}
	return nil
}
