package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a mutable first-person camera: position plus yaw/pitch angles
// and a perspective projection. It is host-side state; per frame it is
// snapshotted into an immutable FrameCamera for the pipelines.
type Camera struct {
	Eye    mgl32.Vec3
	Yaw    float32 // radians around Y, 0 looks down +X
	Pitch  float32 // radians, positive looks up
	Fovy   float32 // degrees
	Aspect float32
	Znear  float32
	Zfar   float32
}

func (c *Camera) Forward() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		cp * float32(math.Cos(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Sin(float64(c.Yaw))),
	}
}

// WalkVector is the forward direction projected onto the ground plane,
// used for WASD-style movement.
func (c *Camera) WalkVector() mgl32.Vec3 {
	f := c.Forward()
	f[1] = 0
	if f.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return f.Normalize()
}

func (c *Camera) RightVector() mgl32.Vec3 {
	return c.WalkVector().Cross(mgl32.Vec3{0, 1, 0}).Mul(-1)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Eye.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fovy), c.Aspect, c.Znear, c.Zfar)
}

// Frame snapshots the camera into the per-frame uniform value.
func (c *Camera) Frame() FrameCamera {
	pv := c.Projection().Mul4(c.View())
	return FrameCamera{Projection: pv, Inverse: pv.Inv()}
}

// FrameCamera is the uniform payload both depth-aware stages consume:
// the combined projection*view matrix and its exact inverse. Values are
// passed by value and never mutated during a dispatch. A stale Inverse
// does not crash anything, it silently reprojects to the wrong place.
type FrameCamera struct {
	Projection mgl32.Mat4
	Inverse    mgl32.Mat4
}

// IdentityFrameCamera is useful as a neutral binding before the first
// real camera update lands.
func IdentityFrameCamera() FrameCamera {
	return FrameCamera{Projection: mgl32.Ident4(), Inverse: mgl32.Ident4()}
}
