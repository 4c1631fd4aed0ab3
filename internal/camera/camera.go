package camera

import (
	"math"

	"volray/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// Controls is the input sampled for one frame.
type Controls struct {
	Forward, Backward, Left, Right bool

	// Look is true while the look button is held. The cursor position is
	// only read then, relative to the window centre.
	Look             bool
	CursorX, CursorY float64
	CenterX, CenterY float64
}

// Camera is a free-fly camera driven by yaw and pitch angles in radians.
// Pitch is not clamped.
type Camera struct {
	Position  mgl32.Vec3
	Yaw       float64
	Pitch     float64
	Direction mgl32.Vec3
	Right     mgl32.Vec3
	Up        mgl32.Vec3

	FOV  float32 // degrees
	Near float32
	Far  float32

	Speed      float64 // units per second
	Boost      float64 // movement multiplier
	MouseSpeed float64 // radians per pixel
}

func New(s config.CameraSettings) *Camera {
	c := &Camera{
		Position:   mgl32.Vec3{s.Position[0], s.Position[1], s.Position[2]},
		Yaw:        s.Yaw,
		Pitch:      s.Pitch,
		FOV:        s.FOV,
		Near:       s.Near,
		Far:        s.Far,
		Speed:      s.Speed,
		Boost:      s.Boost,
		MouseSpeed: s.MouseSpeed,
	}
	c.updateVectors()
	return c
}

// Update advances the camera by dt seconds. Orientation changes first, so
// movement uses the new direction. Opposite keys cancel, perpendicular keys
// add up (diagonal movement is faster).
func (c *Camera) Update(dt float64, in Controls) {
	if in.Look {
		c.Yaw += c.MouseSpeed * (in.CenterX - in.CursorX)
		c.Pitch += c.MouseSpeed * (in.CenterY - in.CursorY)
		c.updateVectors()
	}

	step := float32(dt * c.Speed * c.Boost)
	if in.Forward {
		c.Position = c.Position.Add(c.Direction.Mul(step))
	}
	if in.Backward {
		c.Position = c.Position.Sub(c.Direction.Mul(step))
	}
	if in.Right {
		c.Position = c.Position.Add(c.Right.Mul(step))
	}
	if in.Left {
		c.Position = c.Position.Sub(c.Right.Mul(step))
	}
}

func (c *Camera) updateVectors() {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	c.Direction = mgl32.Vec3{float32(cp * sy), float32(sp), float32(cp * cy)}

	sr, cr := math.Sincos(c.Yaw - math.Pi/2)
	c.Right = mgl32.Vec3{float32(sr), 0, float32(cr)}
	c.Up = c.Right.Cross(c.Direction)
}

// View returns the look-at matrix from Position along Direction.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction), c.Up)
}

// Projection returns the perspective matrix for a framebuffer of the given size.
func (c *Camera) Projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
