package shadow

import (
	"testing"

	"github.com/Faultbox/archsim/pkg/math"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finite(t *testing.T, m math.Mat4) {
	t.Helper()
	for i, v := range m {
		require.False(t, math32.IsNaN(v) || math32.IsInf(v, 0), "element %d is %v", i, v)
	}
}

func TestDirectionalLightMatrixDeterministic(t *testing.T) {
	dir := math.Vec3{X: -0.3, Y: -0.9, Z: 0.2}.Normalize()
	f := DefaultDirectionalFrustum()

	a := DirectionalLightMatrix(dir, f)
	b := DirectionalLightMatrix(dir, f)
	assert.Equal(t, a, b)
	finite(t, a)
}

func TestUpVector(t *testing.T) {
	tests := []struct {
		name string
		dir  math.Vec3
		want math.Vec3
	}{
		{"straight down", math.Vec3{Y: -1}, math.Vec3{Z: 1}},
		{"straight up", math.Vec3{Y: 1}, math.Vec3{Z: 1}},
		{"slanted", math.Vec3{X: 0.1, Y: -1}, math.Vec3{Y: 1}},
		{"horizontal", math.Vec3{Z: 1}, math.Vec3{Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpVector(tt.dir))
		})
	}
}

func TestDirectionalLightMatrixVertical(t *testing.T) {
	m := DirectionalLightMatrix(math.Vec3{Y: -1}, DefaultDirectionalFrustum())
	finite(t, m)

	// The origin sits on the light axis, in front of the near plane.
	o := m.Project(math.Vec3{})
	assert.InDelta(t, 0, o.X, 1e-5)
	assert.InDelta(t, 0, o.Y, 1e-5)
	assert.Greater(t, o.Z, float32(-1))
	assert.Less(t, o.Z, float32(1))

	// Horizontal offsets must still spread across the map.
	p := m.Project(math.Vec3{X: 500})
	q := m.Project(math.Vec3{Z: 500})
	assert.Greater(t, math32.Abs(p.X)+math32.Abs(p.Y), float32(0.1))
	assert.Greater(t, math32.Abs(q.X)+math32.Abs(q.Y), float32(0.1))
}

func TestDirectionalLightMatrixShrink(t *testing.T) {
	f := DefaultDirectionalFrustum()
	dir := math.Vec3{X: 1, Y: -1}.Normalize()
	p := DirectionalLightMatrix(dir, f).Project(math.Vec3{Z: 1000})

	// Z is perpendicular to the slanted light, so it maps onto the x axis at
	// 1000 * shrink / halfWidth.
	assert.InDelta(t, 1000*f.Shrink/f.HalfWidth, math32.Abs(p.X), 1e-4)
}

func TestFitFrustum(t *testing.T) {
	b := AABB{Min: [3]float32{-100, 0, -100}, Max: [3]float32{100, 50, 100}}
	f := FitFrustum(b)
	m := DirectionalLightMatrix(math.Vec3{X: 0.3, Y: -1, Z: 0.2}.Normalize(), f)

	for _, x := range []float32{b.Min[0], b.Max[0]} {
		for _, y := range []float32{b.Min[1], b.Max[1]} {
			for _, z := range []float32{b.Min[2], b.Max[2]} {
				p := m.Project(math.Vec3{X: x, Y: y, Z: z})
				assert.True(t, p.X > -1 && p.X < 1 && p.Y > -1 && p.Y < 1 && p.Z > -1 && p.Z < 1,
					"corner (%v,%v,%v) projects outside: %+v", x, y, z, p)
			}
		}
	}

	assert.Equal(t, DefaultDirectionalFrustum(), FitFrustum(AABB{}))
}

func TestCubeFaceMatricesCenter(t *testing.T) {
	pos := math.Vec3{X: 10, Y: 200, Z: -30}
	faces := CubeFaceMatrices(pos, DefaultPointNear, DefaultPointFar)

	for i, face := range CubeFaces {
		t.Run(face.Name, func(t *testing.T) {
			finite(t, faces[i])
			p := faces[i].Project(pos.Add(face.Dir.Scale(100)))
			assert.InDelta(t, 0, p.X, 1e-4)
			assert.InDelta(t, 0, p.Y, 1e-4)
			assert.Greater(t, p.Z, float32(-1))
			assert.Less(t, p.Z, float32(1))

			// Points behind the face project behind the eye (w < 0).
			behind := faces[i].MulVec4(math.Vec4{
				pos.X - face.Dir.X*100, pos.Y - face.Dir.Y*100, pos.Z - face.Dir.Z*100, 1,
			})
			assert.Less(t, behind[3], float32(0))
		})
	}
}

func TestCubeFaceOrientation(t *testing.T) {
	pos := math.Vec3{}
	faces := CubeFaceMatrices(pos, 1, 100)

	// On the +X face world -Y is screen up.
	p := faces[0].Project(math.Vec3{X: 10, Y: -2})
	assert.Greater(t, p.Y, float32(0))

	// On the +Y face world +Z is screen up.
	p = faces[2].Project(math.Vec3{Y: 10, Z: 2})
	assert.Greater(t, p.Y, float32(0))
}
