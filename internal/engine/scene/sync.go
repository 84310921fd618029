package scene

import (
	stdmath "math"

	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/internal/engine/shadow"
	"github.com/Faultbox/archsim/pkg/math"
)

type directionalPass interface {
	Rebuild(dir math.Vec3, geometry shadow.GeometryRenderer) error
}

type pointPass interface {
	Rebuild(pos math.Vec3, geometry shadow.GeometryRenderer) error
}

// ShadowSync re-renders the shadow map of the active light only when the
// light has moved since the last rebuild.
type ShadowSync struct {
	directional directionalPass
	point       pointPass

	lastDir  math.Vec3
	lastPos  math.Vec3
	dirValid bool
	posValid bool
}

// NewShadowSync creates a sync for the two passes. Either may be nil, in
// which case that light kind never casts shadows.
func NewShadowSync(directional directionalPass, point pointPass) *ShadowSync {
	return &ShadowSync{directional: directional, point: point}
}

// Invalidate forces the next Sync to rebuild, e.g. after the geometry changed.
func (s *ShadowSync) Invalidate() {
	s.dirValid = false
	s.posValid = false
}

// Sync rebuilds the pass for the active light kind if its parameter changed
// bit-exactly. It reports whether a rebuild ran. A failed rebuild still
// records the parameter so an incomplete target is not retried every frame.
func (s *ShadowSync) Sync(state *State, geometry shadow.GeometryRenderer) (bool, error) {
	if !state.ShadowsEnabled || geometry == nil {
		return false, nil
	}

	switch state.Light.Kind {
	case lighting.Directional:
		if s.directional == nil {
			return false, nil
		}
		dir := state.Light.Direction()
		if s.dirValid && sameBits(s.lastDir, dir) {
			return false, nil
		}
		s.lastDir, s.dirValid = dir, true
		return true, s.directional.Rebuild(dir, geometry)

	case lighting.Point:
		if s.point == nil {
			return false, nil
		}
		pos := state.Light.Position
		if s.posValid && sameBits(s.lastPos, pos) {
			return false, nil
		}
		s.lastPos, s.posValid = pos, true
		return true, s.point.Rebuild(pos, geometry)
	}
	return false, nil
}

func sameBits(a, b math.Vec3) bool {
	return stdmath.Float32bits(a.X) == stdmath.Float32bits(b.X) &&
		stdmath.Float32bits(a.Y) == stdmath.Float32bits(b.Y) &&
		stdmath.Float32bits(a.Z) == stdmath.Float32bits(b.Z)
}
