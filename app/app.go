// Package app wires the rendering core into a frame loop: GPU state,
// terrain upload, and the per-frame pass sequence. Everything here is
// glue; the algorithmic content lives in core and gpu.
package app

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/groundwork3d/groundwork/core"
	"github.com/groundwork3d/groundwork/gpu"
	"github.com/groundwork3d/groundwork/terrain"
)

type Config struct {
	// ShadowVis replaces the final image with the reprojected shadow
	// map depth, the depth sampler's visualization output.
	ShadowVis bool
	// UseComputeMesh renders the grid produced by the mesh compute
	// stage instead of the CPU-generated chunk meshes.
	UseComputeMesh bool
	// WaterLevel in world units.
	WaterLevel float32
}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Conf     *wgpu.SurfaceConfiguration

	Ground       *gpu.GroundPass
	Water        *gpu.WaterPass
	DepthSampler *gpu.DepthSamplerPass
	MeshCompute  *gpu.MeshComputePass

	MainDepth   *gpu.DepthTexture
	ShadowDepth *gpu.DepthTexture

	CameraUB *gpu.CameraBinding
	SunUB    *gpu.CameraBinding
	ScreenUB *gpu.ScreenInfoBinding

	TerrainMeshes []*gpu.Mesh
	ComputeMesh   *gpu.Mesh
	WaterMesh     *gpu.Mesh

	Camera    *core.Camera
	HeightMap *terrain.HeightMap

	Cfg       Config
	Log       core.Logger
	StartTime float64
}

func New(window *glfw.Window, cfg Config, log core.Logger) *App {
	if log == nil {
		log = core.NewNopLogger()
	}
	return &App{
		Window: window,
		Cfg:    cfg,
		Log:    log,
		Camera: &core.Camera{
			Eye:   [3]float32{0, 120, 0},
			Fovy:  70,
			Znear: 0.1,
			Zfar:  1000,
		},
	}
}

// Init brings up the device, builds the terrain from the height image
// and creates every pipeline. The mesh compute dispatch for the grid
// path is submitted here, once, before the first frame reads its output.
func (a *App) Init(heightImage image.Image) error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	// The depth sampler binds five groups; the spec default is four.
	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 6
	a.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Conf = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Conf)

	a.CameraUB, err = gpu.NewCameraBinding(a.Device, "CameraUB")
	if err != nil {
		return err
	}
	a.SunUB, err = gpu.NewCameraBinding(a.Device, "SunCameraUB")
	if err != nil {
		return err
	}
	a.ScreenUB, err = gpu.NewScreenInfoBinding(a.Device)
	if err != nil {
		return err
	}

	a.Ground, err = gpu.NewGroundPass(a.Device, a.Conf.Format)
	if err != nil {
		return err
	}
	a.Water, err = gpu.NewWaterPass(a.Device, a.Conf.Format, a.Ground)
	if err != nil {
		return err
	}
	a.DepthSampler, err = gpu.NewDepthSamplerPass(a.Device, a.Conf.Format)
	if err != nil {
		return err
	}

	if err := a.buildTerrain(heightImage); err != nil {
		return err
	}
	if err := a.createSizedResources(width, height); err != nil {
		return err
	}
	if err := a.Ground.CreateBindGroups(a.ScreenUB, a.CameraUB, a.SunUB); err != nil {
		return err
	}

	// Start above the middle of the island.
	w, d := a.HeightMap.WorldExtent()
	a.Camera.Eye = [3]float32{w / 2, a.HeightMap.HeightAt(w/2, d/2) + 30, d / 2}
	a.Camera.Aspect = float32(width) / float32(height)

	a.StartTime = glfw.GetTime()
	a.Log.Infof("renderer up: %dx%d, %d terrain chunks", width, height, len(a.TerrainMeshes))
	return nil
}

func (a *App) buildTerrain(heightImage image.Image) error {
	hm, err := terrain.New(heightImage, terrain.Config{
		Res:        2,
		Size:       1.0,
		Chunks:     5,
		HeightMult: 250.0,
		GenNormals: true,
	})
	if err != nil {
		return err
	}
	a.HeightMap = hm

	for _, chunk := range hm.Chunks {
		mesh, err := gpu.NewMesh(a.Device, "TerrainChunk", chunk.Vertices, chunk.Indices)
		if err != nil {
			return err
		}
		a.TerrainMeshes = append(a.TerrainMeshes, mesh)
		a.Log.Debugf("uploaded chunk %s (%d,%d): %d vertices", chunk.ID, chunk.CX, chunk.CY, len(chunk.Vertices))
	}

	w, d := hm.WorldExtent()
	size := w
	if d > size {
		size = d
	}
	waterVerts, waterIdx := terrain.WaterSheet(size, a.Cfg.WaterLevel)
	a.WaterMesh, err = gpu.NewMesh(a.Device, "Water", waterVerts, waterIdx)
	if err != nil {
		return err
	}

	// Grid path: build the flat source grid, run the per-vertex
	// transform on the GPU, and keep the destination buffer as a
	// drawable mesh. One dispatch, submitted before any frame work.
	gridVerts, gridIdx, grid, err := terrain.FlatGrid(hm.Width/2, hm.Height/2, 2, hm.Size)
	if err != nil {
		return err
	}
	a.MeshCompute, err = gpu.NewMeshComputePass(a.Device, grid, gridVerts)
	if err != nil {
		return err
	}
	a.ComputeMesh, err = gpu.NewMeshFromBuffer(a.Device, "ComputeGrid", a.MeshCompute.DstBuf, gridIdx)
	if err != nil {
		return err
	}

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	if err := a.MeshCompute.Dispatch(encoder); err != nil {
		return err
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	a.Queue.Submit(cmd)
	a.Log.Debugf("mesh compute dispatched: %dx%d grid, stride %d", grid.Cols, grid.Rows, grid.Stride)
	return nil
}

func (a *App) createSizedResources(width, height int) error {
	a.MainDepth.Release()
	a.ShadowDepth.Release()

	var err error
	a.MainDepth, err = gpu.NewDepthTexture(a.Device, uint32(width), uint32(height), "MainDepth")
	if err != nil {
		return err
	}
	a.ShadowDepth, err = gpu.NewDepthTexture(a.Device, uint32(width), uint32(height), "ShadowDepth")
	if err != nil {
		return err
	}
	return a.DepthSampler.CreateBindGroups(
		a.ShadowDepth.View, a.MainDepth.View, a.ScreenUB, a.CameraUB, a.SunUB)
}

func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.Conf.Width = uint32(width)
	a.Conf.Height = uint32(height)
	a.Surface.Configure(a.Adapter, a.Device, a.Conf)
	a.Camera.Aspect = float32(width) / float32(height)
	if err := a.createSizedResources(width, height); err != nil {
		a.Log.Errorf("resize to %dx%d failed: %v", width, height, err)
	}
}

// Update refreshes the per-frame uniforms. The FrameCamera snapshots are
// taken here and not touched again until the next Update, so every pass
// in the frame sees one consistent camera.
func (a *App) Update() {
	w, d := a.HeightMap.WorldExtent()
	sun := core.SunCamera(w, d, a.Camera.Aspect)

	a.CameraUB.Set(a.Queue, a.Camera.Frame())
	a.SunUB.Set(a.Queue, sun.Frame())
	a.ScreenUB.Set(a.Queue, core.ScreenInfo{
		Width:  float32(a.Conf.Width),
		Height: float32(a.Conf.Height),
		Time:   float32(glfw.GetTime() - a.StartTime),
	})
}

// Render records and submits one frame: sun shadow depth pass, main
// pass (which also fills the player depth buffer), then the depth
// sampler post pass that consumes both depth textures.
func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	meshes := a.TerrainMeshes
	if a.Cfg.UseComputeMesh {
		meshes = []*gpu.Mesh{a.ComputeMesh}
	}

	// Shadow depth pre-pass: terrain from the sun's viewpoint, depth only.
	shadowPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ShadowDepthPass",
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.ShadowDepth.View,
			DepthClearValue: 1.0,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		},
	})
	a.Ground.DrawDepthOnly(shadowPass, meshes)
	if err := shadowPass.End(); err != nil {
		a.Log.Errorf("shadow pass End failed: %v", err)
	}

	// Main pass: lit terrain and water, filling the main depth buffer.
	mainPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "MainPass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0.53, G: 0.77, B: 0.92, A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.MainDepth.View,
			DepthClearValue: 1.0,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		},
	})
	a.Ground.Draw(mainPass, meshes)
	a.Water.Draw(mainPass, a.Ground, a.WaterMesh)
	if err := mainPass.End(); err != nil {
		a.Log.Errorf("main pass End failed: %v", err)
	}

	// Post pass: both depth buffers are complete, reproject and sample.
	if a.Cfg.ShadowVis {
		postPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "DepthSamplerPass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    view,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			}},
		})
		a.DepthSampler.Draw(postPass)
		if err := postPass.End(); err != nil {
			a.Log.Errorf("depth sampler pass End failed: %v", err)
		}
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()
}
