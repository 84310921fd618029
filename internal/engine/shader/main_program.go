package shader

import (
	"fmt"

	"github.com/Faultbox/archsim/pkg/math"
)

// MainUniforms lists the uniforms of the forward shading program. The
// renderer and the GLSL source agree on exactly this set.
var MainUniforms = []string{
	"model", "view", "projection", "viewPos",
	"lightType", "light.position", "light.direction",
	"light.constant", "light.linear", "light.quadratic",
	"lightColor", "lightIntensity", "blinn",
	"lightSpaceMatrix", "far_plane", "shadowsEnabled",
	"material.diffuse", "material.specular", "material.alpha", "material.normal",
	"hasOpacityMask", "useNormalMap",
	"depthMap", "depthCubeMap",
}

const (
	mainModel = iota
	mainView
	mainProjection
	mainViewPos
	mainLightType
	mainLightPosition
	mainLightDirection
	mainLightConstant
	mainLightLinear
	mainLightQuadratic
	mainLightColor
	mainLightIntensity
	mainBlinn
	mainLightSpaceMatrix
	mainFarPlane
	mainShadowsEnabled
	mainMaterialDiffuse
	mainMaterialSpecular
	mainMaterialAlpha
	mainMaterialNormal
	mainHasOpacityMask
	mainUseNormalMap
	mainDepthMap
	mainDepthCubeMap
)

// MainProgram is the forward Phong/Blinn-Phong shading program.
type MainProgram struct{ Program }

// NewMainProgram compiles the forward shading program and points its
// samplers at the fixed texture units.
func NewMainProgram(vertexSrc, fragmentSrc string) (*MainProgram, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("main program: %w", err)
	}
	p := &MainProgram{newProgram(id, MainUniforms)}

	p.Use()
	p.setInt(mainMaterialDiffuse, UnitDiffuse)
	p.setInt(mainMaterialSpecular, UnitSpecular)
	p.setInt(mainMaterialAlpha, UnitAlpha)
	p.setInt(mainMaterialNormal, UnitNormal)
	p.setInt(mainDepthMap, UnitDepthMap)
	p.setInt(mainDepthCubeMap, UnitDepthCube)
	return p, nil
}

// SetTransforms sets the model, view and projection matrices.
func (p *MainProgram) SetTransforms(model, view, projection math.Mat4) {
	p.setMat4(mainModel, model)
	p.setMat4(mainView, view)
	p.setMat4(mainProjection, projection)
}

// SetViewPos sets the camera position used for specular highlights.
func (p *MainProgram) SetViewPos(v math.Vec3) { p.setVec3(mainViewPos, v.Arr()) }

// SetLightType selects the lighting branch: 0 none, 1 point, 2 directional.
func (p *MainProgram) SetLightType(t int32) { p.setInt(mainLightType, t) }

// SetPointLight sets the point light position and attenuation coefficients.
func (p *MainProgram) SetPointLight(pos math.Vec3, constant, linear, quadratic float32) {
	p.setVec3(mainLightPosition, pos.Arr())
	p.setFloat(mainLightConstant, constant)
	p.setFloat(mainLightLinear, linear)
	p.setFloat(mainLightQuadratic, quadratic)
}

// SetLightDirection sets the direction the directional light travels in.
func (p *MainProgram) SetLightDirection(dir math.Vec3) { p.setVec3(mainLightDirection, dir.Arr()) }

// SetLightColor sets the light color and intensity.
func (p *MainProgram) SetLightColor(color [3]float32, intensity float32) {
	p.setVec3(mainLightColor, color)
	p.setFloat(mainLightIntensity, intensity)
}

// SetBlinn switches between Phong (false) and Blinn-Phong (true) specular.
func (p *MainProgram) SetBlinn(b bool) { p.setBool(mainBlinn, b) }

// SetShadows sets the shadow sampling state. far is the point shadow far
// plane; lightSpace is the directional light transform.
func (p *MainProgram) SetShadows(enabled bool, lightSpace math.Mat4, far float32) {
	p.setBool(mainShadowsEnabled, enabled)
	p.setMat4(mainLightSpaceMatrix, lightSpace)
	p.setFloat(mainFarPlane, far)
}

// SetMaterialFlags sets the per-partition material switches.
func (p *MainProgram) SetMaterialFlags(hasOpacityMask, useNormalMap bool) {
	p.setBool(mainHasOpacityMask, hasOpacityMask)
	p.setBool(mainUseNormalMap, useNormalMap)
}
