package core

import "github.com/go-gl/mathgl/mgl32"

// degenerateW is the cutoff below which a homogeneous w is treated as a
// point at or behind the eye. Such samples carry no usable shadow data.
const degenerateW = 1e-6

// DepthBuffer is a CPU-side single-channel depth grid, addressed by
// integer pixel coordinate. It mirrors the depth textures the GPU passes
// sample and backs the pure-Go reprojection path.
type DepthBuffer struct {
	Width  int
	Height int
	Pix    []float32
}

func NewDepthBuffer(width, height int) *DepthBuffer {
	return &DepthBuffer{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At reads the depth at (x, y), clamping coordinates to the buffer rect.
// Clamping, not wrapping: a point outside the sun frustum resolves to the
// border depth instead of an undefined fetch.
func (d *DepthBuffer) At(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= d.Width {
		x = d.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= d.Height {
		y = d.Height - 1
	}
	return d.Pix[y*d.Width+x]
}

func (d *DepthBuffer) Set(x, y int, v float32) {
	d.Pix[y*d.Width+x] = v
}

// ReconstructWorldPos rebuilds the world-space position of the surface
// visible at normalized screen coordinate (u, v) with device depth depth.
// inv must be the inverse of the camera's projection*view matrix. The
// second return is false when the perspective divide degenerates.
func ReconstructWorldPos(u, v, depth float32, inv mgl32.Mat4) (mgl32.Vec3, bool) {
	clip := mgl32.Vec4{2*u - 1, -2*v + 1, depth, 1}
	h := inv.Mul4x1(clip)
	if h.W() > -degenerateW && h.W() < degenerateW {
		return mgl32.Vec3{}, false
	}
	return h.Vec3().Mul(1 / h.W()), true
}

// ShadowScreenPos maps a world position into the sun's normalized screen
// space using the mapping the shipped shader uses: both components are
// derived from the post-divide clip x. The y term looks like a slip of
// the pen, but the tuned shadow output depends on it, so it stays.
// ShadowScreenPosCorrected has the conventional mapping.
func ShadowScreenPos(world mgl32.Vec3, sunProj mgl32.Mat4) (mgl32.Vec2, bool) {
	h := sunProj.Mul4x1(world.Vec4(1))
	if h.W() > -degenerateW && h.W() < degenerateW {
		return mgl32.Vec2{}, false
	}
	x := h.X() / h.W()
	return mgl32.Vec2{x/2 + 0.5, x/2 - 0.5}, true
}

// ShadowScreenPosCorrected maps clip y to screen y with the usual flip.
func ShadowScreenPosCorrected(world mgl32.Vec3, sunProj mgl32.Mat4) (mgl32.Vec2, bool) {
	h := sunProj.Mul4x1(world.Vec4(1))
	if h.W() > -degenerateW && h.W() < degenerateW {
		return mgl32.Vec2{}, false
	}
	x := h.X() / h.W()
	y := h.Y() / h.W()
	return mgl32.Vec2{x/2 + 0.5, 0.5 - y/2}, true
}

// SampleShadow is the CPU mirror of the depth sampler fragment stage:
// read the main depth under (u, v), reconstruct the world position,
// reproject it into the sun camera and return the shadow map depth at
// the resulting pixel. Degenerate reprojections return 1.0, the
// far-plane value, which downstream shading reads as unshadowed.
func SampleShadow(u, v float32, screen ScreenInfo, mainDepth, shadowDepth *DepthBuffer, cam, sun FrameCamera) float32 {
	px := int(u * screen.Width)
	py := int(v * screen.Height)
	d := mainDepth.At(px, py)

	world, ok := ReconstructWorldPos(u, v, d, cam.Inverse)
	if !ok {
		return 1.0
	}
	sp, ok := ShadowScreenPos(world, sun.Projection)
	if !ok {
		return 1.0
	}
	return shadowDepth.At(int(sp.X()*screen.Width), int(sp.Y()*screen.Height))
}
