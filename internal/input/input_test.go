package input

import (
	"sync"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestDefaultBindings(t *testing.T) {
	tests := []struct {
		key    glfw.Key
		action Action
	}{
		{glfw.KeyW, ActionMoveForward},
		{glfw.KeyS, ActionMoveBackward},
		{glfw.KeyA, ActionMoveLeft},
		{glfw.KeyD, ActionMoveRight},
		{glfw.KeyR, ActionReload},
		{glfw.KeyV, ActionToggleView},
		{glfw.KeyEscape, ActionQuit},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			im := NewInputManager()
			im.HandleKeyEvent(tt.key, glfw.Press)
			if !im.IsActive(tt.action) {
				t.Errorf("key %v should activate %v", tt.key, tt.action)
			}
			im.HandleKeyEvent(tt.key, glfw.Release)
			if im.IsActive(tt.action) {
				t.Errorf("release of %v should deactivate %v", tt.key, tt.action)
			}
		})
	}

	im := NewInputManager()
	im.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Press)
	if !im.IsActive(ActionLook) {
		t.Error("right mouse button should activate look")
	}
	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	if im.IsActive(ActionMoveForward) || im.JustPressed(ActionReload) {
		t.Error("unbound button should not change any action")
	}
}

func TestJustPressedOncePerHold(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyR, glfw.Press)
	if !im.JustPressed(ActionReload) {
		t.Fatal("expected JustPressed on the frame of the press")
	}
	im.PostUpdate()

	// Holding the key produces repeat events on following frames
	for frame := 0; frame < 3; frame++ {
		im.HandleKeyEvent(glfw.KeyR, glfw.Repeat)
		if im.JustPressed(ActionReload) {
			t.Fatalf("frame %d: repeat must not count as a new press", frame)
		}
		if !im.IsActive(ActionReload) {
			t.Fatalf("frame %d: key should still be held", frame)
		}
		im.PostUpdate()
	}

	im.HandleKeyEvent(glfw.KeyR, glfw.Release)
	if !im.JustReleased(ActionReload) {
		t.Error("expected JustReleased on the frame of the release")
	}
	im.PostUpdate()
	if im.JustReleased(ActionReload) {
		t.Error("edge flags should clear after PostUpdate")
	}
}

func TestSharedActionBinding(t *testing.T) {
	im := NewInputManager()
	im.BindKey(glfw.KeyUp, ActionMoveForward)

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	if !im.IsActive(ActionMoveForward) {
		t.Error("extra binding should activate the action")
	}

	im.UnbindKey(glfw.KeyW)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Release)
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	if im.IsActive(ActionMoveForward) {
		t.Error("unbound key should not activate the action")
	}
}

func TestReleaseAll(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	im.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Press)
	im.PostUpdate()

	im.ReleaseAll()
	if im.IsActive(ActionMoveForward) || im.IsActive(ActionLook) {
		t.Error("ReleaseAll should release held actions")
	}
	if !im.JustReleased(ActionLook) {
		t.Error("ReleaseAll should report the release edge")
	}
	if im.JustReleased(ActionQuit) {
		t.Error("actions that were not held should not report a release")
	}
}

func TestInvalidActions(t *testing.T) {
	im := NewInputManager()
	im.BindKey(glfw.KeyQ, ActionCount)
	im.BindKey(glfw.KeyQ, Action(-1))
	im.HandleKeyEvent(glfw.KeyQ, glfw.Press)

	if im.IsActive(ActionCount) || im.JustPressed(Action(-1)) || im.JustReleased(ActionCount) {
		t.Error("out-of-range actions should never be active")
	}
	if Action(42).String() != "unknown" {
		t.Errorf("got %q", Action(42).String())
	}
}

func TestConcurrentEvents(t *testing.T) {
	im := NewInputManager()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				im.HandleKeyEvent(glfw.KeyW, glfw.Press)
				_ = im.IsActive(ActionMoveForward)
				im.HandleKeyEvent(glfw.KeyW, glfw.Release)
			}
		}()
	}
	wg.Wait()

	if im.IsActive(ActionMoveForward) {
		t.Error("every press was released")
	}
}
