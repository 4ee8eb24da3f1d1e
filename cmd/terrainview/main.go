package main

import (
	"flag"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/image/draw"

	"github.com/groundwork3d/groundwork/app"
	"github.com/groundwork3d/groundwork/core"
)

func init() {
	runtime.LockOSThread()
}

const mouseSensitivity = 0.0025

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	shadowVis := flag.Bool("shadowvis", false, "Show the reprojected shadow map depth instead of the lit scene")
	gpuMesh := flag.Bool("gpumesh", false, "Render the compute-generated vertex grid instead of the chunked terrain")
	heightPath := flag.String("heightmap", "", "Grayscale height image; a procedural island is used when empty")
	flag.Parse()

	logger := core.NewDefaultLogger("terrainview", *debug)

	heightImage, err := loadHeightImage(*heightPath)
	if err != nil {
		logger.Errorf("loading height map %q: %v", *heightPath, err)
		os.Exit(1)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Terrain View", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	a := app.New(window, app.Config{
		ShadowVis:      *shadowVis,
		UseComputeMesh: *gpuMesh,
		WaterLevel:     35,
	}, logger)
	if err := a.Init(heightImage); err != nil {
		panic(err)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.Resize(width, height)
	})

	mouseCaptured := false
	var lastX, lastY float64
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if mouseCaptured {
			a.Camera.Yaw += float32(xpos-lastX) * mouseSensitivity
			a.Camera.Pitch -= float32(ypos-lastY) * mouseSensitivity
			if a.Camera.Pitch > 1.5 {
				a.Camera.Pitch = 1.5
			}
			if a.Camera.Pitch < -1.5 {
				a.Camera.Pitch = -1.5
			}
		}
		lastX, lastY = xpos, ypos
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyTab && action == glfw.Press {
			mouseCaptured = !mouseCaptured
			if mouseCaptured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	lastFrame := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - lastFrame)
		lastFrame = now
		moveCamera(window, a.Camera, dt)

		a.Update()
		a.Render()
	}
}

func moveCamera(window *glfw.Window, cam *core.Camera, dt float32) {
	const speed = 60.0
	step := speed * dt
	walk := cam.WalkVector()
	right := cam.RightVector()

	if window.GetKey(glfw.KeyW) == glfw.Press {
		cam.Eye = cam.Eye.Add(walk.Mul(step))
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		cam.Eye = cam.Eye.Sub(walk.Mul(step))
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		cam.Eye = cam.Eye.Sub(right.Mul(step))
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		cam.Eye = cam.Eye.Add(right.Mul(step))
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		cam.Eye[1] += step
	}
	if window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		cam.Eye[1] -= step
	}
}

func loadHeightImage(path string) (image.Image, error) {
	if path == "" {
		return proceduralIsland(512), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return gray, nil
}

// proceduralIsland is the fallback height field: a radial island with a
// few sine ridges so every color band shows up without an asset file.
func proceduralIsland(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) - center) / center
			dy := (float64(y) - center) / center
			dist := math.Sqrt(dx*dx + dy*dy)
			h := math.Max(0, 1-dist)
			ridge := 0.15 * math.Sin(float64(x)/17.0) * math.Sin(float64(y)/23.0)
			v := math.Max(0, math.Min(1, h*h+ridge*h))
			img.SetGray(x, y, color.Gray{Y: uint8(v * 255)})
		}
	}
	return img
}
