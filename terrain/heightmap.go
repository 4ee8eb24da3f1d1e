// Package terrain builds terrain geometry from grayscale height images:
// chunked CPU meshes for direct rendering and flat vertex grids for the
// GPU mesh compute path.
package terrain

import (
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/groundwork3d/groundwork/core"
)

var (
	grassColor = [3]float32{17.0 / 255.0, 124.0 / 255.0, 19.0 / 255.0}
	snowColor  = [3]float32{0.9, 0.9, 0.9}
	shoreColor = [3]float32{0.3, 0.3, 0.3}
	dirtColor  = [3]float32{165.0 / 255.0, 42.0 / 255.0, 42.0 / 255.0}
)

// Height bands as fractions of the height multiplier: snow above, shore
// rock below.
const (
	snowFraction  = 0.7
	shoreFraction = 0.1439215686
)

type Config struct {
	Res        int     // resolution divisor applied to the source image
	Size       float32 // world units per source pixel
	Chunks     int     // chunk count per side
	HeightMult float32 // world height of a full-white pixel
	GenNormals bool
}

// Chunk is one generated terrain tile, identified so the host can track
// uploads per tile.
type Chunk struct {
	ID       string
	CX, CY   int
	Vertices []core.Vertex
	Indices  []uint32
}

// HeightMap holds the source elevation data and the meshes generated
// from it. Width and Height are the full-resolution pixel dimensions,
// which also set the terrain's world extent (times Size).
type HeightMap struct {
	Width      int
	Height     int
	Size       float32
	HeightMult float32
	Chunks     []Chunk

	gray *image.Gray
}

// New generates chunked terrain meshes from a height image. Adjacent
// chunks share their border row/column so the surface stays watertight.
func New(src image.Image, cfg Config) (*HeightMap, error) {
	if cfg.Res <= 0 {
		return nil, fmt.Errorf("height map: resolution divisor %d must be positive", cfg.Res)
	}
	if cfg.Chunks <= 0 {
		return nil, fmt.Errorf("height map: chunk count %d must be positive", cfg.Chunks)
	}
	bounds := src.Bounds()
	fullW, fullH := bounds.Dx(), bounds.Dy()
	width, height := fullW/cfg.Res, fullH/cfg.Res
	if width/cfg.Chunks < 2 || height/cfg.Chunks < 2 {
		return nil, fmt.Errorf("height map: %dx%d at res %d is too small for %d chunks",
			fullW, fullH, cfg.Res, cfg.Chunks)
	}

	gray := toGray(src)
	sampled := gray
	if cfg.Res > 1 {
		sampled = image.NewGray(image.Rect(0, 0, width, height))
		xdraw.NearestNeighbor.Scale(sampled, sampled.Bounds(), gray, gray.Bounds(), xdraw.Src, nil)
	}

	hm := &HeightMap{
		Width:      fullW,
		Height:     fullH,
		Size:       cfg.Size,
		HeightMult: cfg.HeightMult,
		gray:       gray,
	}

	for cx := 0; cx < cfg.Chunks; cx++ {
		for cy := 0; cy < cfg.Chunks; cy++ {
			hm.Chunks = append(hm.Chunks, buildChunk(sampled, cx, cy, cfg))
		}
	}
	return hm, nil
}

func buildChunk(sampled *image.Gray, cx, cy int, cfg Config) Chunk {
	width := sampled.Bounds().Dx()
	height := sampled.Bounds().Dy()

	// Interior chunks extend one row/column into the neighbor so the
	// seam triangles exist on one side.
	extraX, extraY := 1, 1
	if cx == cfg.Chunks-1 {
		extraX = 0
	}
	if cy == cfg.Chunks-1 {
		extraY = 0
	}
	chunkW := width/cfg.Chunks + extraX
	chunkH := height/cfg.Chunks + extraY

	var vertices []core.Vertex
	var indices []uint32
	for x := 0; x < chunkW; x++ {
		for y := 0; y < chunkH; y++ {
			px := x + (width/cfg.Chunks)*cx
			py := y + (height/cfg.Chunks)*cy
			h := float32(sampled.GrayAt(px, py).Y) / 255.0 * cfg.HeightMult

			color := grassColor
			if h > snowFraction*cfg.HeightMult {
				color = snowColor
			}
			if h <= shoreFraction*cfg.HeightMult {
				color = shoreColor
			}

			vertices = append(vertices, core.Vertex{
				Position: [3]float32{float32(px*cfg.Res) * cfg.Size, h, float32(py*cfg.Res) * cfg.Size},
				Color:    color,
				Normal:   [3]float32{0, 1, 0},
			})
			if x < chunkW-1 && y < chunkH-1 {
				i := uint32(x*chunkH + y)
				ch := uint32(chunkH)
				indices = append(indices, i, i+1, i+ch+1, i, i+ch+1, i+ch)
			}
		}
	}

	if cfg.GenNormals {
		generateNormals(vertices, indices)
	}

	return Chunk{ID: uuid.NewString(), CX: cx, CY: cy, Vertices: vertices, Indices: indices}
}

// generateNormals assigns each face normal to its three corners and
// recolors steep ground as dirt, leaving snow caps alone.
func generateNormals(vertices []core.Vertex, indices []uint32) {
	for i := 0; i < len(indices)/3; i++ {
		v1 := indices[i*3]
		v2 := indices[i*3+1]
		v3 := indices[i*3+2]

		u := vertices[v2].Pos().Sub(vertices[v1].Pos())
		w := vertices[v3].Pos().Sub(vertices[v1].Pos())
		normal := u.Cross(w)
		if normal.Len() < 1e-12 {
			continue
		}
		normal = normal.Normalize()

		n := [3]float32{normal.X(), normal.Y(), normal.Z()}
		vertices[v1].Normal = n
		vertices[v2].Normal = n
		vertices[v3].Normal = n

		if normal.Y() < 0.5 {
			for _, vi := range []uint32{v1, v2, v3} {
				if vertices[vi].Color != snowColor {
					vertices[vi].Color = dirtColor
				}
			}
		}
	}
}

// HeightAt bilinearly samples the full-resolution elevation at world
// position (x, z). Coordinates outside the map clamp to the border.
func (h *HeightMap) HeightAt(x, z float32) float32 {
	fx := clampF(x/h.Size, 0, float32(h.Width)-2)
	fz := clampF(z/h.Size, 0, float32(h.Height)-2)
	ix, iz := int(fx), int(fz)
	xFract := fx - float32(math.Floor(float64(fx)))
	zFract := fz - float32(math.Floor(float64(fz)))

	at := func(px, py int) float32 {
		return float32(h.gray.GrayAt(px, py).Y) / 255.0 * h.HeightMult
	}
	h0 := at(ix, iz)
	h1 := at(ix, iz+1)
	h2 := at(ix+1, iz)
	h3 := at(ix+1, iz+1)

	hx1 := h0 + (h1-h0)*xFract
	hx2 := h2 + (h3-h2)*xFract
	return hx1 + (hx2-hx1)*zFract
}

// WorldExtent is the terrain's footprint in world units.
func (h *HeightMap) WorldExtent() (w, d float32) {
	return float32(h.Width) * h.Size, float32(h.Height) * h.Size
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	g := image.NewGray(src.Bounds())
	xdraw.Draw(g, g.Bounds(), src, src.Bounds().Min, xdraw.Src)
	return g
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
