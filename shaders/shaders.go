package shaders

import (
	_ "embed"
)

//go:embed depth_sampler.wgsl
var DepthSamplerWGSL string

//go:embed mesh_compute.wgsl
var MeshComputeWGSL string

//go:embed ground.wgsl
var GroundWGSL string

//go:embed water.wgsl
var WaterWGSL string
