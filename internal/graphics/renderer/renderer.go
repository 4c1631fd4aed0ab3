package renderer

import (
	"volray/internal/graphics"
	"volray/internal/profiling"

	"go.uber.org/zap"
)

// ViewMode selects what the second pass shows.
type ViewMode int

const (
	ViewRaycast ViewMode = iota
	ViewPositionMap
)

func (m ViewMode) String() string {
	switch m {
	case ViewPositionMap:
		return "position-map"
	default:
		return "raycast"
	}
}

// Options sizes the passes at creation.
type Options struct {
	Width, Height int        // framebuffer size
	ClearColor    [3]float32 // background
}

// Renderer orchestrates the frame: the position-map pass, then either the
// raycast pass or the position-map debug view, in one command stream.
type Renderer struct {
	dev   graphics.Device
	log   *zap.Logger
	prof  *profiling.Frame
	clear [3]float32
	mode  ViewMode

	positionMap *PositionMapPass
	raycast     *RaycastPass
	debug       *DebugView
	renderables []Renderable
}

// NewRenderer creates the passes over scene and initializes them. On error
// the passes already initialized are disposed.
func NewRenderer(dev graphics.Device, scene *Scene, log *zap.Logger, prof *profiling.Frame, opts Options) (*Renderer, error) {
	dev.SetDepthTest(true)

	warn := newWarnings(log)
	pm := newPositionMapPass(dev, scene, warn, opts.Width, opts.Height)
	rc := newRaycastPass(dev, scene, warn, pm, opts.Width, opts.Height)
	dv := newDebugView(dev, scene, warn, pm, opts.Width, opts.Height)

	r := &Renderer{
		dev:         dev,
		log:         log,
		prof:        prof,
		clear:       opts.ClearColor,
		positionMap: pm,
		raycast:     rc,
		debug:       dv,
	}

	for _, rb := range []Renderable{pm, rc, dv} {
		if err := rb.Init(); err != nil {
			r.Dispose()
			return nil, err
		}
		r.renderables = append(r.renderables, rb)
	}
	return r, nil
}

// Render records both passes for one frame. The caller presents afterwards.
func (r *Renderer) Render(ctx RenderContext) {
	r.dev.ClearColor(r.clear[0], r.clear[1], r.clear[2])

	func() {
		defer r.prof.Track("pass.positionMap")()
		r.positionMap.Render(ctx)
	}()

	switch r.mode {
	case ViewPositionMap:
		defer r.prof.Track("pass.debugView")()
		r.debug.Render(ctx)
	default:
		defer r.prof.Track("pass.raycast")()
		r.raycast.Render(ctx)
	}
}

// SetViewport propagates a framebuffer resize to every pass, including the
// position-map target.
func (r *Renderer) SetViewport(width, height int) {
	for _, rb := range r.renderables {
		rb.SetViewport(width, height)
	}
}

func (r *Renderer) Mode() ViewMode { return r.mode }

// ToggleMode switches between the raycast and the position-map debug view.
func (r *Renderer) ToggleMode() ViewMode {
	if r.mode == ViewRaycast {
		r.mode = ViewPositionMap
	} else {
		r.mode = ViewRaycast
	}
	r.log.Info("view mode changed", zap.Stringer("mode", r.mode))
	return r.mode
}

// Target returns the position-map target.
func (r *Renderer) Target() *graphics.Target {
	return r.positionMap.Target()
}

// Dispose cleans up all passes in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.renderables = nil
}
