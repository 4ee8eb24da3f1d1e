package core

import "github.com/go-gl/mathgl/mgl32"

// VertexSize is the packed byte size of one Vertex as it lives in GPU
// buffers: nine float32 fields, no padding. The WGSL side declares the
// struct with scalar fields so storage-buffer layout matches exactly.
const VertexSize = 36

// Vertex is one terrain mesh vertex. The layout is shared between the
// CPU mesh generators, the compute stage buffers, and the render passes.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	Normal   [3]float32
}

func (v Vertex) Pos() mgl32.Vec3 {
	return mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]}
}
