// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MainVertexShader transforms mesh vertices and builds the tangent frame.
//
//go:embed main.vert
var MainVertexShader string

// MainFragmentShader shades with Phong/Blinn-Phong, normal maps and shadows.
//
//go:embed main.frag
var MainFragmentShader string

// DepthVertexShader projects positions into directional light space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// CubeDepthVertexShader transforms positions to world space.
//
//go:embed depth_cube.vert
var CubeDepthVertexShader string

// CubeDepthGeometryShader replicates each triangle into the six cube faces.
//
//go:embed depth_cube.geom
var CubeDepthGeometryShader string

// CubeDepthFragmentShader writes linear distance to the light.
//
//go:embed depth_cube.frag
var CubeDepthFragmentShader string

// LightCubeVertexShader draws the point light marker.
//
//go:embed light_cube.vert
var LightCubeVertexShader string

// LightCubeFragmentShader fills the marker with the light color.
//
//go:embed light_cube.frag
var LightCubeFragmentShader string
