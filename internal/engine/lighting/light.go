// Package lighting holds the single scene light and its shading parameters.
package lighting

import (
	"fmt"
	"strings"

	"github.com/Faultbox/archsim/pkg/math"
)

// Kind selects which light is active. Exactly one kind is active at a time.
type Kind int

// Light kinds. The values are the lightType uniform of the main shader.
const (
	None Kind = iota
	Point
	Directional
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Point:
		return "point"
	case Directional:
		return "directional"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a kind name as written in config files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return None, nil
	case "point":
		return Point, nil
	case "directional", "sun":
		return Directional, nil
	default:
		return None, fmt.Errorf("unknown light type %q", s)
	}
}

// Attenuation holds the point light falloff coefficients.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// Factor returns the light multiplier at distance d.
func (a Attenuation) Factor(d float32) float32 {
	return 1 / (a.Constant + a.Linear*d + a.Quadratic*d*d)
}

// Light is the scene light. Position is used by point lights and Direction
// (always unit length) by directional lights; the other fields apply to both.
type Light struct {
	Kind        Kind
	Position    math.Vec3
	Color       [3]float32
	Intensity   float32
	Attenuation Attenuation
	Blinn       bool

	direction math.Vec3
}

// Default light parameters.
var (
	DefaultPosition    = math.Vec3{X: 0, Y: 200, Z: 0}
	DefaultDirection   = math.Vec3{X: 0, Y: -1, Z: 0}
	DefaultAttenuation = Attenuation{Constant: 1, Linear: 0.000009, Quadratic: 0.0000032}
)

// DefaultLight returns a white point light above the origin.
func DefaultLight() Light {
	return Light{
		Kind:        Point,
		Position:    DefaultPosition,
		Color:       [3]float32{1, 1, 1},
		Intensity:   0.5,
		Attenuation: DefaultAttenuation,
		direction:   DefaultDirection,
	}
}

// Direction returns the unit direction the directional light travels in.
func (l *Light) Direction() math.Vec3 {
	return l.direction
}

// SetDirection stores dir renormalized. A zero vector is rejected and the
// current direction kept.
func (l *Light) SetDirection(dir math.Vec3) bool {
	n := dir.Normalize()
	if n.IsZero() {
		return false
	}
	l.direction = n
	return true
}
