package shadow

import (
	"github.com/Faultbox/archsim/pkg/math"
	"github.com/chewxy/math32"
)

// DirectionalFrustum is the orthographic volume rendered by the directional
// pass. The volume is centred on the world origin and viewed from
// -dir*Distance.
type DirectionalFrustum struct {
	HalfWidth  float32
	HalfHeight float32
	Near       float32
	Far        float32
	Shrink     float32 // uniform scale applied to the scene before projection
	Distance   float32 // eye distance from the origin along -dir
}

// DefaultDirectionalFrustum covers a scene of roughly ±2000 units.
func DefaultDirectionalFrustum() DirectionalFrustum {
	return DirectionalFrustum{
		HalfWidth:  1300,
		HalfHeight: 1500,
		Near:       1,
		Far:        7000,
		Shrink:     0.6,
		Distance:   3000,
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the center point of the box.
func (b AABB) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Radius returns the distance from center to corner.
func (b AABB) Radius() float32 {
	return math.V3(b.Max).Sub(math.V3(b.Min)).Length() / 2
}

// FitFrustum sizes a frustum so that the box fits inside it from any light
// direction. The volume still looks at the origin.
func FitFrustum(b AABB) DirectionalFrustum {
	radius := b.Radius()
	if radius <= 0 {
		return DefaultDirectionalFrustum()
	}
	offset := b.Center().Length()
	half := (radius + offset) * 1.1
	distance := half * 2
	return DirectionalFrustum{
		HalfWidth:  half,
		HalfHeight: half,
		Near:       1,
		Far:        distance + half,
		Shrink:     1,
		Distance:   distance,
	}
}

// UpVector returns the up vector used to orient the light view. A light
// pointing straight up or down uses +Z, anything else uses +Y.
func UpVector(dir math.Vec3) math.Vec3 {
	if dir.X == 0 && dir.Z == 0 {
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return math.Vec3{X: 0, Y: 1, Z: 0}
}

// DirectionalLightMatrix returns the light-space matrix for a light
// travelling along dir. The result depends only on its arguments.
func DirectionalLightMatrix(dir math.Vec3, f DirectionalFrustum) math.Mat4 {
	proj := math.Ortho(-f.HalfWidth, f.HalfWidth, -f.HalfHeight, f.HalfHeight, f.Near, f.Far).
		Mul(math.Scale(f.Shrink, f.Shrink, f.Shrink))
	eye := dir.Scale(-f.Distance)
	view := math.LookAt(eye, math.Vec3{}, UpVector(dir))
	return proj.Mul(view)
}

// CubeFace describes one face of a point light's depth cube map, in
// GL_TEXTURE_CUBE_MAP_POSITIVE_X + i order.
type CubeFace struct {
	Name string
	Dir  math.Vec3
	Up   math.Vec3
}

// CubeFaces lists the six faces as +X, -X, +Y, -Y, +Z, -Z.
var CubeFaces = [6]CubeFace{
	{"+X", math.Vec3{X: 1}, math.Vec3{Y: -1}},
	{"-X", math.Vec3{X: -1}, math.Vec3{Y: -1}},
	{"+Y", math.Vec3{Y: 1}, math.Vec3{Z: 1}},
	{"-Y", math.Vec3{Y: -1}, math.Vec3{Z: -1}},
	{"+Z", math.Vec3{Z: 1}, math.Vec3{Y: -1}},
	{"-Z", math.Vec3{Z: -1}, math.Vec3{Y: -1}},
}

// CubeFaceMatrices returns the six view-projection matrices for a point light
// at pos, each with a 90 degree square frustum.
func CubeFaceMatrices(pos math.Vec3, near, far float32) [6]math.Mat4 {
	proj := math.Perspective(math32.Pi/2, 1, near, far)
	var out [6]math.Mat4
	for i, face := range CubeFaces {
		out[i] = proj.Mul(math.LookAt(pos, pos.Add(face.Dir), face.Up))
	}
	return out
}
