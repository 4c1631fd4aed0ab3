package renderer

import (
	"fmt"

	"volray/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// warnings logs each distinct problem once until it clears.
type warnings struct {
	log    *zap.Logger
	active map[string]bool
}

func newWarnings(log *zap.Logger) *warnings {
	return &warnings{log: log, active: make(map[string]bool)}
}

func (w *warnings) once(key, msg string, fields ...zap.Field) {
	if w.active[key] {
		return
	}
	w.active[key] = true
	w.log.Warn(msg, fields...)
}

func (w *warnings) clear(key string) {
	delete(w.active, key)
}

// program returns the named program, or nil after warning once that the pass
// is skipped.
func (w *warnings) program(set *graphics.Programs, name string) *graphics.Program {
	p := set.Get(name)
	if p == nil {
		w.once("program:"+name, "shader program missing, skipping pass", zap.String("program", name))
		return nil
	}
	w.clear("program:" + name)
	return p
}

// PositionMapPass renders the back faces of the bounding cube into an
// off-screen target, storing each fragment's object-space position. The
// raycast pass reads it as the ray exit point.
type PositionMapPass struct {
	dev    graphics.Device
	scene  *Scene
	warn   *warnings
	target *graphics.Target
	width  int
	height int
}

func newPositionMapPass(dev graphics.Device, scene *Scene, warn *warnings, width, height int) *PositionMapPass {
	return &PositionMapPass{dev: dev, scene: scene, warn: warn, width: width, height: height}
}

func (p *PositionMapPass) Init() error {
	target, err := graphics.NewTarget(p.dev, p.width, p.height)
	if err != nil {
		return fmt.Errorf("failed to create position map target: %w", err)
	}
	p.target = target
	return nil
}

// Target returns the off-screen target, nil before Init.
func (p *PositionMapPass) Target() *graphics.Target {
	return p.target
}

func (p *PositionMapPass) Render(ctx RenderContext) {
	p.dev.SetCulling(graphics.CullFront)
	p.target.Bind()
	p.dev.Clear()
	defer p.target.Unbind()

	prog := p.warn.program(p.scene.Programs, ProgramPositionMap)
	if prog == nil {
		return
	}
	prog.Use()
	setTransforms(prog, ctx)
	p.scene.Cube.Draw()
}

func (p *PositionMapPass) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.width, p.height = width, height
	if p.target != nil {
		p.target.Resize(width, height)
	}
}

func (p *PositionMapPass) Dispose() {
	if p.target != nil {
		p.target.Delete()
		p.target = nil
	}
}

// RaycastPass draws the front faces of the cube to the default framebuffer
// and marches each ray from the entry face to the exit point read from the
// position map, accumulating samples of the volume.
type RaycastPass struct {
	dev         graphics.Device
	scene       *Scene
	warn        *warnings
	positionMap *PositionMapPass
	width       int
	height      int
}

func newRaycastPass(dev graphics.Device, scene *Scene, warn *warnings, positionMap *PositionMapPass, width, height int) *RaycastPass {
	return &RaycastPass{dev: dev, scene: scene, warn: warn, positionMap: positionMap, width: width, height: height}
}

func (r *RaycastPass) Init() error { return nil }

func (r *RaycastPass) Render(ctx RenderContext) {
	r.dev.SetCulling(graphics.CullBack)
	r.dev.BindFramebuffer(0)
	r.dev.Viewport(r.width, r.height)
	r.dev.Clear()

	prog := r.warn.program(r.scene.Programs, ProgramRaycast)
	if prog == nil {
		return
	}
	if r.scene.Volume == nil {
		r.warn.once("volume", "no volume loaded, skipping raycast pass")
		return
	}

	prog.Use()
	setTransforms(prog, ctx)
	prog.SetVec2("windowSize", mgl32.Vec2{float32(r.width), float32(r.height)})
	prog.SetFloat("stepSize", r.scene.StepSize)

	r.dev.BindTexture(UnitPositionMap, graphics.Texture2D, r.positionMap.Target().Texture)
	prog.SetInt("positionMap", int32(UnitPositionMap))
	r.dev.BindTexture(UnitVolume, graphics.Texture3D, r.scene.Volume.ID)
	prog.SetInt("volume", int32(UnitVolume))
	if r.scene.Transfer != nil {
		r.dev.BindTexture(UnitTransfer, graphics.Texture2D, r.scene.Transfer.ID)
		prog.SetInt("transfer", int32(UnitTransfer))
	}

	r.scene.Cube.Draw()
}

func (r *RaycastPass) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
}

func (r *RaycastPass) Dispose() {}

// DebugView replaces the raycast pass with a full-screen quad showing the
// position map as color.
type DebugView struct {
	dev         graphics.Device
	scene       *Scene
	warn        *warnings
	positionMap *PositionMapPass
	width       int
	height      int
}

func newDebugView(dev graphics.Device, scene *Scene, warn *warnings, positionMap *PositionMapPass, width, height int) *DebugView {
	return &DebugView{dev: dev, scene: scene, warn: warn, positionMap: positionMap, width: width, height: height}
}

func (d *DebugView) Init() error { return nil }

func (d *DebugView) Render(ctx RenderContext) {
	d.dev.SetCulling(graphics.CullNone)
	d.dev.BindFramebuffer(0)
	d.dev.Viewport(d.width, d.height)
	d.dev.Clear()

	prog := d.warn.program(d.scene.Programs, ProgramDebugPositionMap)
	if prog == nil {
		return
	}
	prog.Use()
	d.dev.BindTexture(UnitPositionMap, graphics.Texture2D, d.positionMap.Target().Texture)
	prog.SetInt("positionMap", int32(UnitPositionMap))
	d.scene.Plane.Draw()
}

func (d *DebugView) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.width, d.height = width, height
}

func (d *DebugView) Dispose() {}
