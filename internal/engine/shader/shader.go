// Package shader compiles GLSL programs and exposes each program's uniforms
// through typed setters.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	return link(
		stage{vertexSrc, gl.VERTEX_SHADER, "vertex"},
		stage{fragmentSrc, gl.FRAGMENT_SHADER, "fragment"},
	)
}

// CompileProgramWithGeometry is CompileProgram with a geometry stage between
// the vertex and fragment stages.
func CompileProgramWithGeometry(vertexSrc, geometrySrc, fragmentSrc string) (uint32, error) {
	return link(
		stage{vertexSrc, gl.VERTEX_SHADER, "vertex"},
		stage{geometrySrc, gl.GEOMETRY_SHADER, "geometry"},
		stage{fragmentSrc, gl.FRAGMENT_SHADER, "fragment"},
	)
}

type stage struct {
	source string
	kind   uint32
	name   string
}

func link(stages ...stage) (uint32, error) {
	program := gl.CreateProgram()
	for _, st := range stages {
		sh, err := compileShader(st.source, st.kind, st.name)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, sh)
		defer gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name, or -1 if the
// uniform is not active in the program.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// locate resolves every name in names and reports the ones the linked
// program does not expose. The GLSL compiler drops unused uniforms, so a
// missing name is a warning, not an error; setters on -1 are no-ops.
func locate(program uint32, names []string) (locs []int32, missing []string) {
	locs = make([]int32, len(names))
	for i, name := range names {
		locs[i] = GetUniform(program, name)
		if locs[i] < 0 {
			missing = append(missing, name)
		}
	}
	return locs, missing
}
