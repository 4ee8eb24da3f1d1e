package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunCamera places the directional light camera above the far corner of
// a terrain of the given world dimensions, aimed at its center. The wide
// field of view keeps the whole island inside the shadow frustum.
func SunCamera(terrainWidth, terrainHeight float32, aspect float32) Camera {
	eye := mgl32.Vec3{terrainWidth * 1.01, 900.0, terrainWidth * 1.01}
	toCenter := mgl32.Vec3{terrainWidth * 0.5, 0, terrainHeight * 0.5}.Sub(eye)
	dist := float32(math.Hypot(float64(toCenter.X()), float64(toCenter.Z())))

	return Camera{
		Eye:    eye,
		Yaw:    float32(math.Atan2(float64(toCenter.Z()), float64(toCenter.X()))),
		Pitch:  float32(math.Atan(float64(toCenter.Y() / dist))),
		Fovy:   100.0,
		Aspect: aspect,
		Znear:  1.0,
		Zfar:   1000.0,
	}
}
