package scene

import (
	"github.com/Versifine/walker/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

type Camera struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
	Pose   physics.CameraPose
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:    DefaultFOV,
		Aspect: 1,
		Near:   DefaultNear,
		Far:    DefaultFar,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport recomputes the aspect ratio. Non-positive sizes (minimized
// windows) keep the previous aspect.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// World is the camera's transform, rotations applied in X, Y, Z order.
func (c *Camera) World() mgl64.Mat4 {
	p := c.Pose.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl64.HomogRotate3DX(c.Pose.Pitch)).
		Mul4(mgl64.HomogRotate3DY(c.Pose.Yaw)).
		Mul4(mgl64.HomogRotate3DZ(c.Pose.Roll))
}

func (c *Camera) View() mgl64.Mat4 {
	return c.World().Inv()
}
