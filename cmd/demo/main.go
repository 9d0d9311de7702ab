// Demo host: a glfw window with a few particle systems ticked per frame and
// drawn through the render package. Set CINDER_SEED for a reproducible run.
package main

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"cinder"
	"cinder/render"
)

const (
	windowWidth  = 1024
	windowHeight = 768
)

func initWindow() (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "Cinder", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

func buildSystems(seed uint64) (fountain, ring, snow *cinder.System, err error) {
	fountain, err = cinder.New(cinder.Config{
		MaxParticles:  4000,
		SpawnRate:     cinder.Value(600),
		InitialSpeed:  cinder.Jittered(5.0, -1.0, 1.5),
		Drag:          0.4,
		Lifetime:      cinder.Jittered(2.2, -0.5, 0.8),
		RotationSpeed: cinder.Jittered(0, -2, 2),
		Scale:         cinder.Ramp(0.25, 0.05),
		Color: cinder.Gradient{
			{At: 0.0, Color: cinder.RGBA{1.0, 0.85, 0.3, 1.0}},
			{At: 0.4, Color: cinder.RGBA{1.0, 0.4, 0.1, 0.9}},
			{At: 1.0, Color: cinder.RGBA{0.4, 0.05, 0.02, 0.0}},
		},
		Shape:     cinder.ConeShape{HalfAngle: 0.35},
		Alignment: cinder.FaceCamera{},
		Looping:   true,
		Duration:  4,
	}, seed^0xF0A7)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fountain: %w", err)
	}

	ring, err = cinder.New(cinder.Config{
		MaxParticles: 1200,
		InitialSpeed: cinder.Jittered(7.0, -0.5, 0.5),
		Drag:         1.1,
		Lifetime:     cinder.Jittered(1.4, -0.2, 0.4),
		Scale:        cinder.Ramp(0.35, 0.0),
		Color: cinder.Gradient{
			{At: 0.0, Color: cinder.RGBA{0.6, 0.85, 1.0, 1.0}},
			{At: 1.0, Color: cinder.RGBA{0.1, 0.25, 0.8, 0.0}},
		},
		Shape:     cinder.CircleShape{Radius: cinder.Jittered(0.5, -0.1, 0.1)},
		Alignment: cinder.VelocityAligned{},
		Duration:  0.5,
		Bursts:    []cinder.Burst{{Time: 0, Count: 800}},
	}, seed^0x21D6)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ring: %w", err)
	}

	snow, err = cinder.New(cinder.Config{
		MaxParticles: 2500,
		SpawnRate:    cinder.Jittered(120, -30, 30),
		InitialSpeed: cinder.Jittered(0.7, -0.3, 0.3),
		Lifetime:     cinder.Jittered(6, -1, 2),
		Scale:        cinder.Constant(0.08),
		Color:        cinder.Solid(cinder.RGBA{0.92, 0.95, 1.0, 0.85}),
		Shape:        cinder.RectShape{W: 24, H: 1, Angle: math.Pi},
		Alignment:    cinder.ScreenLocked{},
		Looping:      true,
		Duration:     10,
	}, seed^0x5104)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("snow: %w", err)
	}
	snow.SetOrigin(mgl64.Vec3{0, 8, 0})

	return fountain, ring, snow, nil
}

func main() {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("CINDER_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	rend, err := render.NewRenderer()
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	fountain, ring, snow, err := buildSystems(seed)
	if err != nil {
		panic(err)
	}
	fountain.Play()
	ring.Play()
	snow.Play()

	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0.03, 0.03, 0.05, 1.0)

	proj := mgl64.Perspective(
		mgl64.DegToRad(55), float64(windowWidth)/float64(windowHeight), 0.1, 200)

	var angle, ringTimer float64
	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		// Orbit camera around the scene.
		angle += dt * 0.25
		eye := mgl64.Vec3{math.Cos(angle) * 14, 5, math.Sin(angle) * 14}
		up := mgl64.Vec3{0, 1, 0}
		view := mgl64.LookAtV(eye, mgl64.Vec3{0, 2, 0}, up)
		cam := cinder.NewCameraBasis(eye, up, proj.Mul4(view))

		// Re-fire the ring burst once it has fully played out.
		ringTimer += dt
		if ring.Done() && ringTimer > 2.5 {
			ringTimer = 0
			ring.Play()
		}

		fountain.Tick(dt, cam)
		ring.Tick(dt, cam)
		snow.Tick(dt, cam)

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		rend.Draw(fountain.Instances(), cam, render.DrawOptions{Additive: true})
		rend.Draw(ring.Instances(), cam, render.DrawOptions{Additive: true})
		rend.Draw(snow.Instances(), cam, render.DrawOptions{})

		window.SwapBuffers()
	}
}
