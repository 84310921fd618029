package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/archsim/pkg/math"
)

// Texture units shared by the main program and the renderers that bind to it.
const (
	UnitDiffuse   = 1
	UnitSpecular  = 2
	UnitAlpha     = 3
	UnitNormal    = 4
	UnitDepthMap  = 5
	UnitDepthCube = 6
)

// Program is a linked GLSL program together with the resolved locations of
// its recognized uniforms.
type Program struct {
	ID      uint32
	names   []string
	locs    []int32
	missing []string
}

func newProgram(id uint32, names []string) Program {
	locs, missing := locate(id, names)
	return Program{ID: id, names: names, locs: locs, missing: missing}
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniforms returns the uniform names the program recognizes.
func (p *Program) Uniforms() []string {
	return append([]string(nil), p.names...)
}

// Missing returns recognized uniforms that are not active in the linked program.
func (p *Program) Missing() []string {
	return p.missing
}

// Destroy deletes the GL program.
func (p *Program) Destroy() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

func (p *Program) setMat4(u int, m math.Mat4) {
	gl.UniformMatrix4fv(p.locs[u], 1, false, m.Ptr())
}

func (p *Program) setVec3(u int, v [3]float32) {
	gl.Uniform3f(p.locs[u], v[0], v[1], v[2])
}

func (p *Program) setFloat(u int, f float32) {
	gl.Uniform1f(p.locs[u], f)
}

func (p *Program) setInt(u int, i int32) {
	gl.Uniform1i(p.locs[u], i)
}

func (p *Program) setBool(u int, b bool) {
	var i int32
	if b {
		i = 1
	}
	gl.Uniform1i(p.locs[u], i)
}

// Depth program (directional shadow pass).

// DepthUniforms lists the uniforms of the directional depth program.
var DepthUniforms = []string{"lightSpaceMatrix", "model"}

const (
	depthLightSpace = iota
	depthModel
)

// DepthProgram renders positions into a 2D depth target.
type DepthProgram struct{ Program }

// NewDepthProgram compiles the directional depth program.
func NewDepthProgram(vertexSrc, fragmentSrc string) (*DepthProgram, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("depth program: %w", err)
	}
	return &DepthProgram{newProgram(id, DepthUniforms)}, nil
}

// SetLightSpaceMatrix sets the light projection x view transform.
func (p *DepthProgram) SetLightSpaceMatrix(m math.Mat4) { p.setMat4(depthLightSpace, m) }

// SetModel sets the model transform.
func (p *DepthProgram) SetModel(m math.Mat4) { p.setMat4(depthModel, m) }

// Cube depth program (point shadow pass).

// CubeDepthUniforms lists the uniforms of the cube depth program.
var CubeDepthUniforms = []string{
	"shadowMatrices[0]", "shadowMatrices[1]", "shadowMatrices[2]",
	"shadowMatrices[3]", "shadowMatrices[4]", "shadowMatrices[5]",
	"far_plane", "lightPos", "model",
}

const (
	cubeShadowMatrices = iota // six consecutive entries
	cubeFarPlane              = iota + 5
	cubeLightPos
	cubeModel
)

// CubeDepthProgram renders distance-to-light into all six faces of a cube
// target in one draw, replicating triangles in its geometry stage.
type CubeDepthProgram struct{ Program }

// NewCubeDepthProgram compiles the cube depth program.
func NewCubeDepthProgram(vertexSrc, geometrySrc, fragmentSrc string) (*CubeDepthProgram, error) {
	id, err := CompileProgramWithGeometry(vertexSrc, geometrySrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("cube depth program: %w", err)
	}
	return &CubeDepthProgram{newProgram(id, CubeDepthUniforms)}, nil
}

// SetShadowMatrices sets the per-face projection x view transforms in cube face order.
func (p *CubeDepthProgram) SetShadowMatrices(faces [6]math.Mat4) {
	for i, m := range faces {
		p.setMat4(cubeShadowMatrices+i, m)
	}
}

// SetFarPlane sets the distance that maps to depth 1.
func (p *CubeDepthProgram) SetFarPlane(f float32) { p.setFloat(cubeFarPlane, f) }

// SetLightPos sets the light position in world space.
func (p *CubeDepthProgram) SetLightPos(v math.Vec3) { p.setVec3(cubeLightPos, v.Arr()) }

// SetModel sets the model transform.
func (p *CubeDepthProgram) SetModel(m math.Mat4) { p.setMat4(cubeModel, m) }

// Light cube program (point light marker).

// LightCubeUniforms lists the uniforms of the light marker program.
var LightCubeUniforms = []string{"model", "view", "projection", "lightColor"}

const (
	markerModel = iota
	markerView
	markerProjection
	markerColor
)

// LightCubeProgram draws the unlit point light marker.
type LightCubeProgram struct{ Program }

// NewLightCubeProgram compiles the light marker program.
func NewLightCubeProgram(vertexSrc, fragmentSrc string) (*LightCubeProgram, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("light cube program: %w", err)
	}
	return &LightCubeProgram{newProgram(id, LightCubeUniforms)}, nil
}

// SetTransforms sets the model, view and projection matrices.
func (p *LightCubeProgram) SetTransforms(model, view, projection math.Mat4) {
	p.setMat4(markerModel, model)
	p.setMat4(markerView, view)
	p.setMat4(markerProjection, projection)
}

// SetColor sets the marker color.
func (p *LightCubeProgram) SetColor(c [3]float32) { p.setVec3(markerColor, c) }
