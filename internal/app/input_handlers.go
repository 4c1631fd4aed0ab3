package app

import (
	"volray/internal/camera"
	"volray/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// SetupInputHandlers wires the window callbacks to the app.
func SetupInputHandlers(a *App) {
	a.input.SetCallbacks(a.window)

	a.window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		a.resize(fbWidth, fbHeight)
	})

	// Repaint while the OS blocks the loop during a live resize
	a.window.SetRefreshCallback(func(w *glfw.Window) {
		a.renderFrame(0)
		w.SwapBuffers()
	})
}

// handleActions applies the one-shot actions of the frame.
func (a *App) handleActions() {
	if a.input.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if a.input.JustPressed(input.ActionReload) {
		a.ReloadShaders()
	}
	if a.input.JustPressed(input.ActionToggleView) {
		a.renderer.ToggleMode()
	}
}

// movementControls samples the held actions. Cursor fields are filled by
// the caller while looking.
func movementControls(im *input.InputManager) camera.Controls {
	return camera.Controls{
		Forward:  im.IsActive(input.ActionMoveForward),
		Backward: im.IsActive(input.ActionMoveBackward),
		Left:     im.IsActive(input.ActionMoveLeft),
		Right:    im.IsActive(input.ActionMoveRight),
		Look:     im.IsActive(input.ActionLook),
	}
}

// updateCamera reads the cursor relative to the window centre while looking
// and recentres it for the next frame.
func (a *App) updateCamera(dt float64) {
	c := movementControls(a.input)
	if c.Look {
		w, h := a.window.GetSize()
		c.CenterX, c.CenterY = float64(w)/2, float64(h)/2
		c.CursorX, c.CursorY = a.window.GetCursorPos()
		a.window.SetCursorPos(c.CenterX, c.CenterY)
	}
	a.camera.Update(dt, c)
}

func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.dev.Viewport(width, height)
	a.renderer.SetViewport(width, height)
	a.log.Debug("framebuffer resized", zap.Int("width", width), zap.Int("height", height))
}
