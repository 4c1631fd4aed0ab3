package renderer

import (
	"volray/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared per-frame state for all passes
type RenderContext struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
	DT    float64
}

// Renderable defines the lifecycle of a render pass
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}

// Names under which the App registers its programs.
const (
	ProgramPositionMap      = "posMap"
	ProgramRaycast          = "raycast"
	ProgramDebugPositionMap = "debugPosMap"
)

// Texture units of the raycast samplers.
const (
	UnitPositionMap uint32 = 0
	UnitVolume      uint32 = 1
	UnitTransfer    uint32 = 2
)

// Scene holds the GPU resources the passes draw with. The App owns them;
// Volume and Transfer may be nil when loading failed.
type Scene struct {
	Programs *graphics.Programs
	Cube     *graphics.Mesh
	Plane    *graphics.Mesh
	Volume   *graphics.VolumeTexture
	Transfer *graphics.Texture
	StepSize float32
}

func setTransforms(p *graphics.Program, ctx RenderContext) {
	p.SetMat4("model", ctx.Model)
	p.SetMat4("view", ctx.View)
	p.SetMat4("projection", ctx.Proj)
}
