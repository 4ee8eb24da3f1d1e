package terrain

import "github.com/groundwork3d/groundwork/core"

// WaterSheet is a single quad spanning [0, size] on both ground axes at
// the given water level.
func WaterSheet(size, height float32) ([]core.Vertex, []uint32) {
	vertices := []core.Vertex{
		{Position: [3]float32{size, height, 0}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{size, height, size}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{0, height, size}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{0, height, 0}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}},
	}
	indices := []uint32{0, 3, 2, 1, 0, 2}
	return vertices, indices
}
