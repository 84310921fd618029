package scene

import (
	"github.com/Faultbox/archsim/internal/engine/camera"
	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/pkg/math"
)

// Default view settings.
const (
	DefaultFOV  = 45
	DefaultNear = 0.1
	DefaultFar  = 3000
)

// DefaultClearColor is the background color.
var DefaultClearColor = [3]float32{0.45, 0.55, 0.60}

// State is everything the user edits between frames. The UI writes it, the
// scene reads it; nothing else holds per-frame settings.
type State struct {
	Camera *camera.FlyCamera
	Light  lighting.Light

	FOV       float32 // vertical, degrees
	NearPlane float32
	FarPlane  float32

	Wireframe      bool
	UseTextures    bool
	ShadowsEnabled bool
	ShowBounds     bool
	ClearColor     [3]float32
}

// NewState returns the startup state: camera at pos, default point light.
func NewState(pos math.Vec3) *State {
	return &State{
		Camera:         camera.NewFlyCamera(pos),
		Light:          lighting.DefaultLight(),
		FOV:            DefaultFOV,
		NearPlane:      DefaultNear,
		FarPlane:       DefaultFar,
		UseTextures:    true,
		ShadowsEnabled: true,
		ClearColor:     DefaultClearColor,
	}
}

// Projection returns the camera projection for a viewport aspect ratio.
// A non-positive FOV is clamped to one degree.
func (s *State) Projection(aspect float32) math.Mat4 {
	fov := s.FOV
	if fov < 1 {
		fov = 1
	}
	if fov > 179 {
		fov = 179
	}
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(fov), aspect, s.NearPlane, s.FarPlane)
}
