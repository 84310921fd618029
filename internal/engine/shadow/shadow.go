// Package shadow renders depth maps for directional and point lights.
package shadow

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/archsim/internal/engine/shader"
	"github.com/Faultbox/archsim/pkg/math"
)

// GeometryRenderer issues the draw calls for every shadow caster. Model
// matrices are identity; the pass has already bound its program.
type GeometryRenderer interface {
	RenderGeometry()
}

// Default target sizes.
const (
	DefaultDirectionalResolution = 4096
	DefaultPointResolution       = 2048
	DefaultPointNear             = 1
	DefaultPointFar              = 2500
)

// DirectionalConfig configures a Directional pass.
type DirectionalConfig struct {
	Resolution int32
	Frustum    DirectionalFrustum
}

// Directional renders the scene depth from a directional light.
type Directional struct {
	program *shader.DepthProgram
	target  *depthTarget
	frustum DirectionalFrustum
	matrix  math.Mat4
}

// NewDirectional allocates the depth target. If the target is incomplete the
// returned pass is still usable: Rebuild keeps the light matrix current and
// DepthTexture returns 0.
func NewDirectional(program *shader.DepthProgram, cfg DirectionalConfig) (*Directional, error) {
	if cfg.Resolution <= 0 {
		cfg.Resolution = DefaultDirectionalResolution
	}
	if cfg.Frustum == (DirectionalFrustum{}) {
		cfg.Frustum = DefaultDirectionalFrustum()
	}
	d := &Directional{program: program, frustum: cfg.Frustum, matrix: math.Identity()}
	t, err := newDepthTarget(cfg.Resolution)
	if err != nil {
		return d, err
	}
	d.target = t
	return d, nil
}

// SetFrustum replaces the frustum used by the next Rebuild.
func (d *Directional) SetFrustum(f DirectionalFrustum) { d.frustum = f }

// Frustum returns the current frustum.
func (d *Directional) Frustum() DirectionalFrustum { return d.frustum }

// Rebuild recomputes the light matrix for dir and re-renders the depth map.
func (d *Directional) Rebuild(dir math.Vec3, geometry GeometryRenderer) error {
	d.matrix = DirectionalLightMatrix(dir, d.frustum)
	if d.target == nil {
		return ErrIncompleteTarget
	}

	d.target.bind()
	d.program.Use()
	d.program.SetLightSpaceMatrix(d.matrix)
	d.program.SetModel(math.Identity())
	geometry.RenderGeometry()
	d.target.unbind()
	return nil
}

// LightSpaceMatrix returns the matrix used by the last Rebuild.
func (d *Directional) LightSpaceMatrix() math.Mat4 { return d.matrix }

// DepthTexture returns the depth texture name, or 0 if the target is invalid.
func (d *Directional) DepthTexture() uint32 {
	if d.target == nil {
		return 0
	}
	return d.target.texture
}

// Valid reports whether the depth target was allocated.
func (d *Directional) Valid() bool { return d.target != nil }

// Resolution returns the depth map edge length, or 0 if the target is invalid.
func (d *Directional) Resolution() int {
	if d.target == nil {
		return 0
	}
	return int(d.target.resolution)
}

// ReadDepth reads the depth map back as resolution*resolution floats,
// bottom row first.
func (d *Directional) ReadDepth() ([]float32, error) {
	if d.target == nil {
		return nil, ErrIncompleteTarget
	}
	n := int(d.target.resolution)
	depth := make([]float32, n*n)
	gl.BindTexture(gl.TEXTURE_2D, d.target.texture)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(depth))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return depth, nil
}

// Destroy releases the GPU resources.
func (d *Directional) Destroy() {
	if d.target != nil {
		d.target.destroy()
		d.target = nil
	}
}

// PointConfig configures a Point pass.
type PointConfig struct {
	Resolution int32
	Near       float32
	Far        float32
}

// Point renders linear distance from a point light into a depth cube map in a
// single draw, with the geometry shader routing triangles to each face.
type Point struct {
	program  *shader.CubeDepthProgram
	target   *cubeTarget
	near     float32
	far      float32
	matrices [6]math.Mat4
}

// NewPoint allocates the cube target. Like NewDirectional it returns a usable
// pass alongside an ErrIncompleteTarget error.
func NewPoint(program *shader.CubeDepthProgram, cfg PointConfig) (*Point, error) {
	if cfg.Resolution <= 0 {
		cfg.Resolution = DefaultPointResolution
	}
	if cfg.Near <= 0 {
		cfg.Near = DefaultPointNear
	}
	if cfg.Far <= cfg.Near {
		cfg.Far = DefaultPointFar
	}
	p := &Point{program: program, near: cfg.Near, far: cfg.Far}
	t, err := newCubeTarget(cfg.Resolution)
	if err != nil {
		return p, err
	}
	p.target = t
	return p, nil
}

// Rebuild recomputes the face matrices for pos and re-renders the cube map.
func (p *Point) Rebuild(pos math.Vec3, geometry GeometryRenderer) error {
	p.matrices = CubeFaceMatrices(pos, p.near, p.far)
	if p.target == nil {
		return ErrIncompleteTarget
	}

	p.target.bind()
	p.program.Use()
	p.program.SetShadowMatrices(p.matrices)
	p.program.SetFarPlane(p.far)
	p.program.SetLightPos(pos)
	p.program.SetModel(math.Identity())
	geometry.RenderGeometry()
	p.target.unbind()
	return nil
}

// Matrices returns the face matrices used by the last Rebuild.
func (p *Point) Matrices() [6]math.Mat4 { return p.matrices }

// FarPlane returns the far plane distance, which the lighting shader needs to
// rescale sampled depth.
func (p *Point) FarPlane() float32 { return p.far }

// CubeTexture returns the cube map name, or 0 if the target is invalid.
func (p *Point) CubeTexture() uint32 {
	if p.target == nil {
		return 0
	}
	return p.target.texture
}

// Valid reports whether the cube target was allocated.
func (p *Point) Valid() bool { return p.target != nil }

// Destroy releases the GPU resources.
func (p *Point) Destroy() {
	if p.target != nil {
		p.target.destroy()
		p.target = nil
	}
}
