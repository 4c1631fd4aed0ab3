package app

import (
	"context"
	"time"

	"volray/internal/camera"
	"volray/internal/config"
	"volray/internal/graphics"
	"volray/internal/graphics/renderer"
	"volray/internal/input"
	"volray/internal/profiling"
	"volray/internal/volumegen"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Frames slower than this are logged with their most expensive sections.
const slowFrame = 33 * time.Millisecond

// transferWidth is the width of the generated fallback transfer function.
const transferWidth = 256

// App owns the window and every GPU resource, and runs the main loop.
type App struct {
	settings config.Settings
	log      *zap.Logger

	window *glfw.Window
	input  *input.InputManager
	dev    graphics.Device

	programs *graphics.Programs
	cube     *graphics.Mesh
	plane    *graphics.Mesh
	volume   *graphics.VolumeTexture
	transfer *graphics.Texture
	renderer *renderer.Renderer
	camera   *camera.Camera

	prof       *profiling.Frame
	fpsLimiter *FPSLimiter
	lastTime   time.Time

	// framebuffer size
	width, height int
}

// New opens the window and loads every resource. Only window, context or
// target creation errors are returned; shaders, volume and transfer function
// that fail to load are logged and the app starts without them.
func New(settings config.Settings, log *zap.Logger) (*App, error) {
	window, err := SetupWindow(settings.Window)
	if err != nil {
		return nil, err
	}
	log.Info("OpenGL context ready", zap.String("version", glVersion()))

	a := &App{
		settings: settings,
		log:      log,
		window:   window,
		input:    input.NewInputManager(),
		dev:      graphics.NewGLDevice(),
		camera:   camera.New(settings.Camera),
		prof:     profiling.NewFrame(),
		lastTime: time.Now(),
	}
	if !settings.Window.VSync {
		a.fpsLimiter = NewFPSLimiter(settings.Window.FPSLimit)
	}
	a.width, a.height = window.GetFramebufferSize()

	a.programs = graphics.NewPrograms(a.dev, log.Named("shaders"))
	a.registerPrograms()
	if err := a.programs.Reload(); err != nil {
		log.Warn("starting with missing shader programs, press R to retry")
	}

	a.cube = graphics.NewCube(a.dev)
	a.plane = graphics.NewPlane(a.dev)
	a.loadVolume()
	a.loadTransfer()

	scene := &renderer.Scene{
		Programs: a.programs,
		Cube:     a.cube,
		Plane:    a.plane,
		Volume:   a.volume,
		Transfer: a.transfer,
		StepSize: settings.Raycast.StepSize,
	}
	a.renderer, err = renderer.NewRenderer(a.dev, scene, log, a.prof, renderer.Options{
		Width:      a.width,
		Height:     a.height,
		ClearColor: settings.Raycast.ClearColor,
	})
	if err != nil {
		a.Dispose()
		return nil, err
	}

	SetupInputHandlers(a)
	return a, nil
}

func (a *App) registerPrograms() {
	pairs := []struct {
		name string
		pair config.ShaderPair
	}{
		{renderer.ProgramPositionMap, a.settings.Shaders.PositionMap},
		{renderer.ProgramRaycast, a.settings.Shaders.Raycast},
		{renderer.ProgramDebugPositionMap, a.settings.Shaders.DebugPositionMap},
	}
	for _, p := range pairs {
		a.programs.Register(p.name, graphics.ProgramSource{
			Vertex:   p.pair.Vertex,
			Fragment: p.pair.Fragment,
			Geometry: p.pair.Geometry,
		})
	}
}

func (a *App) loadVolume() {
	s := a.settings.Volume
	if s.Procedural {
		start := time.Now()
		v, err := volumegen.Generate(context.Background(), s.Width, s.Height, s.Depth, volumegen.DefaultParams(s.Seed))
		if err != nil {
			a.log.Error("volume not generated, raycast pass disabled", zap.Error(err))
			return
		}
		a.volume = graphics.UploadVolume(a.dev, v)
		a.log.Info("volume generated",
			zap.Int64("seed", s.Seed),
			zap.Int("width", v.Width),
			zap.Int("height", v.Height),
			zap.Int("depth", v.Depth),
			zap.Duration("took", time.Since(start)))
		return
	}

	v, err := graphics.ReadVolume(s.Path, s.Width, s.Height, s.Depth)
	if err != nil {
		a.log.Error("volume not loaded, raycast pass disabled", zap.Error(err))
		return
	}
	if v.Trailing > 0 {
		a.log.Warn("volume file larger than its dimensions, extra bytes ignored",
			zap.String("path", s.Path),
			zap.Int64("extra_bytes", v.Trailing))
	}
	a.volume = graphics.UploadVolume(a.dev, v)
	a.log.Info("volume loaded",
		zap.String("path", s.Path),
		zap.Int("width", v.Width),
		zap.Int("height", v.Height),
		zap.Int("depth", v.Depth))
}

func (a *App) loadTransfer() {
	if path := a.settings.Volume.Transfer; path != "" {
		tex, err := graphics.LoadTexture(a.dev, path)
		if err == nil {
			a.transfer = tex
			return
		}
		a.log.Warn("transfer function not loaded, using grayscale ramp", zap.Error(err))
	}
	a.transfer = graphics.NewTexture(a.dev, graphics.RampTransferFunction(transferWidth))
}

// ReloadShaders rebuilds every program. Programs that fail keep their last
// good build.
func (a *App) ReloadShaders() {
	start := time.Now()
	if err := a.programs.Reload(); err != nil {
		a.log.Warn("shader reload incomplete")
		return
	}
	a.log.Info("shaders reloaded", zap.Duration("took", time.Since(start)))
}

// Run loops until the window is asked to close.
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	a.prof.Reset()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	func() { defer a.prof.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	a.handleActions()
	func() { defer a.prof.Track("camera.Update")(); a.updateCamera(dt) }()

	a.renderFrame(dt)
	func() { defer a.prof.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	if d := time.Since(start); d > slowFrame {
		a.log.Debug("slow frame",
			zap.Duration("duration", d),
			zap.Duration("passes", a.prof.SumWithPrefix("pass.")),
			zap.String("top", a.prof.TopN(5)))
	}

	a.input.PostUpdate()

	if a.fpsLimiter != nil {
		a.fpsLimiter.Wait()
	}
}

func (a *App) renderFrame(dt float64) {
	a.renderer.Render(renderer.RenderContext{
		Model: mgl32.Ident4(),
		View:  a.camera.View(),
		Proj:  a.camera.Projection(a.width, a.height),
		DT:    dt,
	})
}

// Dispose releases every resource in reverse creation order. It must run on
// the thread that owns the context.
func (a *App) Dispose() {
	if a.renderer != nil {
		a.renderer.Dispose()
		a.renderer = nil
	}
	if a.transfer != nil {
		a.transfer.Delete()
		a.transfer = nil
	}
	if a.volume != nil {
		a.volume.Delete()
		a.volume = nil
	}
	if a.plane != nil {
		a.plane.Delete()
		a.plane = nil
	}
	if a.cube != nil {
		a.cube.Delete()
		a.cube = nil
	}
	if a.programs != nil {
		a.programs.Delete()
		a.programs = nil
	}
	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}
}
