package core

// ScreenInfo is the process-wide per-frame uniform: surface size in
// pixels plus elapsed time in seconds. Updated once per frame by the
// host, read-only to the shading stages. Packs to 16 bytes
// (vec2<f32> + f32 + pad).
type ScreenInfo struct {
	Width  float32
	Height float32
	Time   float32
}
