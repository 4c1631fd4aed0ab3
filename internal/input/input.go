package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical control of the viewer, independent of the physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionLook       // held: mouse movement turns the camera
	ActionReload     // rebuild every shader program
	ActionToggleView // raycast / position-map debug view
	ActionQuit
	ActionCount // sentinel for array sizing
)

var actionNames = [ActionCount]string{
	ActionMoveForward:  "move_forward",
	ActionMoveBackward: "move_backward",
	ActionMoveLeft:     "move_left",
	ActionMoveRight:    "move_right",
	ActionLook:         "look",
	ActionReload:       "reload",
	ActionToggleView:   "toggle_view",
	ActionQuit:         "quit",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// InputManager maps physical keys and mouse buttons to actions and tracks
// their state with per-frame edge detection. Event handlers may run on any
// goroutine; queries are safe concurrently with them.
type InputManager struct {
	mu sync.RWMutex

	keyToActions         map[glfw.Key][]Action
	mouseButtonToActions map[glfw.MouseButton][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewInputManager creates an InputManager with the default bindings:
// WASD to move, right mouse button to look, R to reload shaders, V to toggle
// the debug view and Escape to quit.
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	im.BindKey(glfw.KeyW, ActionMoveForward)
	im.BindKey(glfw.KeyS, ActionMoveBackward)
	im.BindKey(glfw.KeyA, ActionMoveLeft)
	im.BindKey(glfw.KeyD, ActionMoveRight)
	im.BindKey(glfw.KeyR, ActionReload)
	im.BindKey(glfw.KeyV, ActionToggleView)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	im.BindMouseButton(glfw.MouseButtonRight, ActionLook)

	return im
}

// BindKey adds an action to a key. Several keys may share an action.
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.keyToActions[key] = append(im.keyToActions[key], action)
}

func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.keyToActions, key)
}

func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// HandleKeyEvent updates the actions bound to key. Key repeat counts as held.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.keyToActions[key], action == glfw.Press || action == glfw.Repeat)
}

func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.mouseButtonToActions[button], action == glfw.Press)
}

// apply sets the state of actions and records edges. Caller holds mu.
func (im *InputManager) apply(actions []Action, pressed bool) {
	for _, a := range actions {
		if pressed && !im.current[a] {
			im.justPressed[a] = true
		}
		if !pressed && im.current[a] {
			im.justReleased[a] = true
		}
		im.current[a] = pressed
	}
}

// ReleaseAll releases every held action, e.g. when the window loses focus
// and release events will not arrive.
func (im *InputManager) ReleaseAll() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for a := range ActionCount {
		if im.current[a] {
			im.justReleased[a] = true
		}
		im.current[a] = false
	}
}

// SetCallbacks routes the window's key, mouse button and focus events to
// the manager. Call once during initialization.
func (im *InputManager) SetCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			im.ReleaseAll()
		}
	})
}

// PostUpdate clears the edge flags. Call at the end of each frame, after all
// queries.
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	clear(im.justPressed[:])
	clear(im.justReleased[:])
}

// IsActive reports whether the action is held
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.current[action]
}

// JustPressed reports whether the action was pressed since the last PostUpdate
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justPressed[action]
}

// JustReleased reports whether the action was released since the last PostUpdate
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justReleased[action]
}
