package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraFrame_InverseRoundTrip(t *testing.T) {
	cam := Camera{
		Eye:    mgl32.Vec3{100, 250, 40},
		Yaw:    1.2,
		Pitch:  -0.4,
		Fovy:   70,
		Aspect: 16.0 / 9.0,
		Znear:  0.1,
		Zfar:   1000,
	}
	frame := cam.Frame()

	prod := frame.Projection.Mul4(frame.Inverse)
	ident := mgl32.Ident4()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, ident[i], prod[i], 1e-3, "element %d", i)
	}
}

func TestCameraWalkVector_IgnoresPitch(t *testing.T) {
	cam := Camera{Yaw: 0.9, Pitch: -1.2}
	walk := cam.WalkVector()
	assert.InDelta(t, 0, walk.Y(), 1e-6)
	assert.InDelta(t, 1, walk.Len(), 1e-6)

	right := cam.RightVector()
	assert.InDelta(t, 0, walk.Dot(right), 1e-6)
}

func TestCameraWalkVector_StraightDown(t *testing.T) {
	cam := Camera{Pitch: -mgl32.DegToRad(90)}
	assert.Equal(t, mgl32.Vec3{}, cam.WalkVector())
}

func TestSunCamera_AimsAtTerrainCenter(t *testing.T) {
	sun := SunCamera(512, 512, 1.0)
	require.Equal(t, float32(900), sun.Eye.Y())

	forward := sun.Forward()
	// The eye sits past the far corner on both ground axes, high above
	// the island, so the view direction points down and back toward the
	// center on x and z.
	assert.Negative(t, forward.X())
	assert.Negative(t, forward.Y())
	assert.Negative(t, forward.Z())

	// Walking the forward ray for the ground distance to the center must
	// land on the center's ground coordinates.
	toCenter := mgl32.Vec3{256, 0, 256}.Sub(sun.Eye)
	groundDist := mgl32.Vec3{toCenter.X(), 0, toCenter.Z()}.Len()
	cp := forward
	scale := groundDist / mgl32.Vec3{cp.X(), 0, cp.Z()}.Len()
	hit := sun.Eye.Add(forward.Mul(scale))
	assert.InDelta(t, 256, hit.X(), 0.5)
	assert.InDelta(t, 256, hit.Z(), 0.5)
	assert.InDelta(t, 0, hit.Y(), 1.0)
}

func TestIdentityFrameCamera(t *testing.T) {
	frame := IdentityFrameCamera()
	assert.Equal(t, mgl32.Ident4(), frame.Projection)
	assert.Equal(t, mgl32.Ident4(), frame.Inverse)
}
