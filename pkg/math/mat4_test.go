package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	assert.Equal(t, m, m.Mul(Identity()), "M * I should equal M")
	assert.Equal(t, m, Identity().Mul(m), "I * M should equal M")
}

func TestProjectTranslateScale(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	assert.Equal(t, Vec3{12, 24, 36}, m.Project(Vec3{1, 2, 3}))
}

func TestOrthoMapsBoxToNDC(t *testing.T) {
	m := Ortho(-10, 10, -5, 5, 1, 101)

	near := m.Project(Vec3{-10, -5, -1})
	assert.True(t, near.ApproxEqual(Vec3{-1, -1, -1}, 1e-5), "near corner: %v", near)
	far := m.Project(Vec3{10, 5, -101})
	assert.True(t, far.ApproxEqual(Vec3{1, 1, 1}, 1e-5), "far corner: %v", far)
}

func TestPerspectiveCenterAxis(t *testing.T) {
	m := Perspective(Radians(90), 1, 1, 100)

	assert.Equal(t, float32(-1), m[11])
	assert.Equal(t, float32(0), m[15])

	// A point on the view axis lands at the center of the viewport.
	p := m.Project(Vec3{0, 0, -10})
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 0, p.Y, 1e-6)

	// 90 degrees: the frustum edge at distance d is at x=d.
	edge := m.Project(Vec3{10, 0, -10})
	assert.InDelta(t, 1, edge.X, 1e-5)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{3, 4, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	got := m.Project(eye)
	assert.True(t, got.ApproxEqual(Vec3{}, 1e-5), "eye in view space: %v", got)

	// The target is straight ahead on -Z.
	target := m.Project(Vec3{})
	assert.InDelta(t, 0, target.X, 1e-5)
	assert.InDelta(t, 0, target.Y, 1e-5)
	assert.Less(t, target.Z, float32(0))
}
