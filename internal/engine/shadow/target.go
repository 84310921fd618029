package shadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrIncompleteTarget is returned when a depth framebuffer cannot be completed.
var ErrIncompleteTarget = errors.New("shadow: incomplete depth target")

// depthTarget is a depth-only framebuffer backed by a square 2D texture.
type depthTarget struct {
	fbo          uint32
	texture      uint32
	resolution   int32
	prevViewport [4]int32
}

// newDepthTarget allocates the texture and framebuffer. The texture is
// sampled with plain texture() lookups, so no compare mode is set.
func newDepthTarget(resolution int32) (*depthTarget, error) {
	t := &depthTarget{resolution: resolution}

	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, resolution, resolution, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Samples outside the light frustum read as far depth, i.e. lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, fmt.Errorf("%w: 2D %dx%d status 0x%x", ErrIncompleteTarget, resolution, resolution, status)
	}
	return t, nil
}

// cubeTarget is a depth-only framebuffer backed by a cube map with all six
// faces attached as layers.
type cubeTarget struct {
	fbo          uint32
	texture      uint32
	resolution   int32
	prevViewport [4]int32
}

func newCubeTarget(resolution int32) (*cubeTarget, error) {
	t := &cubeTarget{resolution: resolution}

	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.texture)
	for i := uint32(0); i < 6; i++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i, 0, gl.DEPTH_COMPONENT, resolution, resolution, 0,
			gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, t.texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, fmt.Errorf("%w: cube %dx%d status 0x%x", ErrIncompleteTarget, resolution, resolution, status)
	}
	return t, nil
}

// bind saves the current viewport, binds fbo and clears depth.
func bindTarget(fbo uint32, resolution int32, prev *[4]int32) {
	gl.GetIntegerv(gl.VIEWPORT, &prev[0])
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, resolution, resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
}

func unbindTarget(prev *[4]int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(prev[0], prev[1], prev[2], prev[3])
}

func (t *depthTarget) bind()   { bindTarget(t.fbo, t.resolution, &t.prevViewport) }
func (t *depthTarget) unbind() { unbindTarget(&t.prevViewport) }

func (t *depthTarget) destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.texture != 0 {
		gl.DeleteTextures(1, &t.texture)
		t.texture = 0
	}
}

func (t *cubeTarget) bind()   { bindTarget(t.fbo, t.resolution, &t.prevViewport) }
func (t *cubeTarget) unbind() { unbindTarget(&t.prevViewport) }

func (t *cubeTarget) destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.texture != 0 {
		gl.DeleteTextures(1, &t.texture)
		t.texture = 0
	}
}
