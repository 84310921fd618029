// Package camera provides the first-person fly camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/archsim/pkg/math"
	"github.com/chewxy/math32"
)

// Movement is a keyboard movement direction.
type Movement int

// Movement directions.
const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

// Default fly camera settings.
const (
	DefaultYaw         = -90
	DefaultPitch       = 0
	DefaultSpeed       = 300
	DefaultSensitivity = 0.3
	maxPitch           = 89
)

var worldUp = math.Vec3{Y: 1}

// FlyCamera is a free-flying camera steered by yaw and pitch in degrees.
type FlyCamera struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32

	Speed       float32 // units per second
	Sensitivity float32 // degrees per pixel
}

// NewFlyCamera creates a camera at pos looking down -Z.
func NewFlyCamera(pos math.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:    pos,
		Yaw:         DefaultYaw,
		Pitch:       DefaultPitch,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
	}
}

// Front returns the unit view direction. The angles are expanded in float64
// so that Front inverts LookAt to within float32 rounding.
func (c *FlyCamera) Front() math.Vec3 {
	yaw := float64(c.Yaw) * gomath.Pi / 180
	pitch := float64(c.Pitch) * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
}

// Right returns the unit right vector on the horizontal plane.
func (c *FlyCamera) Right() math.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Front()), worldUp)
}

// Move translates the camera for dt seconds. Up and Down follow the world
// vertical axis.
func (c *FlyCamera) Move(dir Movement, dt float32) {
	step := c.Speed * dt
	var delta math.Vec3
	switch dir {
	case Forward:
		delta = c.Front()
	case Backward:
		delta = c.Front().Neg()
	case Left:
		delta = c.Right().Neg()
	case Right:
		delta = c.Right()
	case Up:
		delta = worldUp
	case Down:
		delta = worldUp.Neg()
	}
	c.Position = c.Position.Add(delta.Scale(step))
}

// Look turns the camera by a mouse delta in pixels. Positive dy looks up.
// Pitch is clamped short of vertical so the view never flips.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch += dy * c.Sensitivity
	c.Pitch = clamp(c.Pitch, -maxPitch, maxPitch)
}

// LookAt turns the camera toward target. It is a no-op when target is the
// camera position.
func (c *FlyCamera) LookAt(target math.Vec3) {
	d := target.Sub(c.Position)
	if d.IsZero() {
		return
	}
	x, y, z := float64(d.X), float64(d.Y), float64(d.Z)
	pitch := gomath.Atan2(y, gomath.Hypot(x, z)) * 180 / gomath.Pi
	c.Pitch = clamp(float32(pitch), -maxPitch, maxPitch)
	c.Yaw = float32(gomath.Atan2(z, x) * 180 / gomath.Pi)
}

// FitToBounds places the camera in front of a bounding box, far enough back
// for a vertical field of view of fovDeg to contain it, and aims at its
// center.
func (c *FlyCamera) FitToBounds(min, max [3]float32, fovDeg float32) {
	lo, hi := math.V3(min), math.V3(max)
	center := lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length() / 2
	if radius <= 0 {
		radius = 1
	}
	dist := radius / math32.Tan(math.Radians(fovDeg)/2)
	c.Position = center.Add(math.Vec3{Y: radius * 0.25, Z: dist})
	c.LookAt(center)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
