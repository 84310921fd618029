package shaders

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/archsim/internal/engine/shader"
)

// declared reports whether a uniform (or a struct member / array element of
// one) is declared in the given sources.
func declared(name string, sources ...string) bool {
	all := strings.Join(sources, "\n")
	base := name
	if i := strings.IndexAny(base, ".["); i >= 0 {
		base = base[:i]
	}
	re := regexp.MustCompile(`uniform\s+\w+\s+` + regexp.QuoteMeta(base) + `\b`)
	if !re.MatchString(all) {
		return false
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		field := name[i+1:]
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(field) + `\s*;`).MatchString(all)
	}
	return true
}

func TestUniformContracts(t *testing.T) {
	tests := []struct {
		name     string
		uniforms []string
		sources  []string
	}{
		{"main", shader.MainUniforms, []string{MainVertexShader, MainFragmentShader}},
		{"depth", shader.DepthUniforms, []string{DepthVertexShader, DepthFragmentShader}},
		{"cube depth", shader.CubeDepthUniforms, []string{CubeDepthVertexShader, CubeDepthGeometryShader, CubeDepthFragmentShader}},
		{"light cube", shader.LightCubeUniforms, []string{LightCubeVertexShader, LightCubeFragmentShader}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, u := range tt.uniforms {
				assert.True(t, declared(u, tt.sources...), "uniform %q is not declared in the %s shaders", u, tt.name)
			}
		})
	}
}

func TestShadersDeclareVersion(t *testing.T) {
	for name, src := range map[string]string{
		"main.vert":       MainVertexShader,
		"main.frag":       MainFragmentShader,
		"depth.vert":      DepthVertexShader,
		"depth_cube.geom": CubeDepthGeometryShader,
		"light_cube.frag": LightCubeFragmentShader,
	} {
		assert.True(t, strings.HasPrefix(src, "#version 410 core"), "%s: missing #version 410 core header", name)
	}
}
