package terrain

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatImage(size int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return img
}

func TestNew_Validation(t *testing.T) {
	img := flatImage(16, 128)

	_, err := New(img, Config{Res: 0, Size: 1, Chunks: 2, HeightMult: 100})
	assert.Error(t, err)

	_, err = New(img, Config{Res: 1, Size: 1, Chunks: 0, HeightMult: 100})
	assert.Error(t, err)

	// 16px at res 4 gives 4 samples; 4 chunks leaves one sample per
	// chunk, not enough for a quad.
	_, err = New(img, Config{Res: 4, Size: 1, Chunks: 4, HeightMult: 100})
	assert.Error(t, err)
}

func TestNew_ChunkLayout(t *testing.T) {
	hm, err := New(flatImage(16, 128), Config{Res: 1, Size: 2, Chunks: 2, HeightMult: 100})
	require.NoError(t, err)

	require.Len(t, hm.Chunks, 4)
	seen := map[[2]int]bool{}
	for _, c := range hm.Chunks {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Vertices)
		assert.NotEmpty(t, c.Indices)
		assert.Zero(t, len(c.Indices)%3)
		seen[[2]int{c.CX, c.CY}] = true

		for _, idx := range c.Indices {
			assert.Less(t, int(idx), len(c.Vertices))
		}
	}
	assert.Len(t, seen, 4, "every chunk coordinate appears once")

	w, d := hm.WorldExtent()
	assert.Equal(t, float32(32), w)
	assert.Equal(t, float32(32), d)
}

// Interior chunks carry one extra row and column so seams between
// neighbors are covered by exactly one side.
func TestNew_SeamOverlap(t *testing.T) {
	hm, err := New(flatImage(16, 128), Config{Res: 1, Size: 1, Chunks: 2, HeightMult: 100})
	require.NoError(t, err)

	counts := map[[2]int]int{}
	for _, c := range hm.Chunks {
		counts[[2]int{c.CX, c.CY}] = len(c.Vertices)
	}
	assert.Equal(t, 9*9, counts[[2]int{0, 0}])
	assert.Equal(t, 9*8, counts[[2]int{0, 1}])
	assert.Equal(t, 8*9, counts[[2]int{1, 0}])
	assert.Equal(t, 8*8, counts[[2]int{1, 1}])
}

func TestNew_ColorBands(t *testing.T) {
	tests := []struct {
		name  string
		pixel uint8
		want  [3]float32
	}{
		{name: "mid height is grass", pixel: 128, want: grassColor},
		{name: "high ground is snow", pixel: 250, want: snowColor},
		{name: "sea level is shore", pixel: 10, want: shoreColor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hm, err := New(flatImage(8, tc.pixel), Config{Res: 1, Size: 1, Chunks: 1, HeightMult: 100})
			require.NoError(t, err)
			for _, v := range hm.Chunks[0].Vertices {
				assert.Equal(t, tc.want, v.Color)
			}
		})
	}
}

func TestGenerateNormals_FlatGroundStaysUp(t *testing.T) {
	hm, err := New(flatImage(8, 128), Config{Res: 1, Size: 1, Chunks: 1, HeightMult: 100, GenNormals: true})
	require.NoError(t, err)

	for _, v := range hm.Chunks[0].Vertices {
		assert.InDelta(t, 1.0, v.Normal[1], 1e-5)
		assert.Equal(t, grassColor, v.Color, "flat ground keeps its band color")
	}
}

func TestGenerateNormals_SteepGroundTurnsDirt(t *testing.T) {
	// A cliff: left half black, right half white. With HeightMult far
	// above the pixel spacing, the wall faces are nearly horizontal.
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	hm, err := New(img, Config{Res: 1, Size: 1, Chunks: 1, HeightMult: 200, GenNormals: true})
	require.NoError(t, err)

	dirt := 0
	for _, v := range hm.Chunks[0].Vertices {
		if v.Color == dirtColor {
			dirt++
		}
	}
	assert.Positive(t, dirt, "cliff vertices recolored as dirt")
}

func TestHeightAt_Bilinear(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(1, 1, color.Gray{Y: 100})
	img.SetGray(1, 2, color.Gray{Y: 160})
	img.SetGray(2, 1, color.Gray{Y: 160})
	img.SetGray(2, 2, color.Gray{Y: 220})
	hm, err := New(img, Config{Res: 1, Size: 2, Chunks: 1, HeightMult: 255})
	require.NoError(t, err)

	// Exactly on the samples.
	assert.InDelta(t, 100, hm.HeightAt(2, 2), 1e-3)
	assert.InDelta(t, 220, hm.HeightAt(4, 4), 1e-3)
	// Center of the quad blends all four corners.
	assert.InDelta(t, 160, hm.HeightAt(3, 3), 1e-3)
	// Far outside clamps instead of failing.
	assert.NotPanics(t, func() { hm.HeightAt(-100, 1e6) })
}
