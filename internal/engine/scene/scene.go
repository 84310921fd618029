// Package scene renders a loaded model with a single light and its shadow
// map into an offscreen framebuffer.
package scene

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/archsim/internal/engine/debug"
	"github.com/Faultbox/archsim/internal/engine/framebuffer"
	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/internal/engine/model"
	"github.com/Faultbox/archsim/internal/engine/shader"
	"github.com/Faultbox/archsim/internal/engine/shaders"
	"github.com/Faultbox/archsim/internal/engine/shadow"
	"github.com/Faultbox/archsim/internal/engine/texture"
	"github.com/Faultbox/archsim/internal/logger"
	"github.com/Faultbox/archsim/pkg/formats"
	"github.com/Faultbox/archsim/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	Width  int32
	Height int32

	Directional shadow.DirectionalConfig
	Point       shadow.PointConfig

	// FitShadowToModel replaces the directional frustum with one sized to
	// each loaded model.
	FitShadowToModel bool

	// Open reads texture files named by materials.
	Open func(name string) ([]byte, error)
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:  1280,
		Height: 720,
		Directional: shadow.DirectionalConfig{
			Resolution: shadow.DefaultDirectionalResolution,
			Frustum:    shadow.DefaultDirectionalFrustum(),
		},
		Point: shadow.PointConfig{
			Resolution: shadow.DefaultPointResolution,
			Near:       shadow.DefaultPointNear,
			Far:        shadow.DefaultPointFar,
		},
	}
}

// ErrNoModel is returned by operations that need a loaded model.
var ErrNoModel = errors.New("scene: no model loaded")

var boundsColor = [3]float32{1, 1, 0}

// Scene owns every GPU resource needed to draw one frame.
type Scene struct {
	config Config
	log    *zap.Logger

	framebuffer *framebuffer.Framebuffer

	mainProgram   *shader.MainProgram
	depthProgram  *shader.DepthProgram
	cubeProgram   *shader.CubeDepthProgram
	markerProgram *shader.LightCubeProgram

	markerVAO uint32
	markerVBO uint32
	boundsVAO uint32
	boundsVBO uint32

	directional *shadow.Directional
	point       *shadow.Point
	shadowSync  *ShadowSync

	textures *texture.Loader
	model    *ModelRenderer
	mesh     *model.Mesh

	// ShadowStatus describes the last shadow allocation or rebuild failure.
	ShadowStatus string
}

// New creates a scene. It must be called with a current GL 4.1 context.
// Shadow targets that the driver rejects are logged and left disabled.
func New(cfg Config) (*Scene, error) {
	if cfg.Open == nil {
		return nil, fmt.Errorf("scene config: no texture opener")
	}
	s := &Scene{config: cfg, log: logger.Named("scene")}

	fb, err := framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	s.framebuffer = fb

	if err := s.compilePrograms(); err != nil {
		s.Destroy()
		return nil, err
	}

	s.directional, err = shadow.NewDirectional(s.depthProgram, cfg.Directional)
	if err != nil {
		s.shadowFailed("directional shadow target", err)
	}
	s.point, err = shadow.NewPoint(s.cubeProgram, cfg.Point)
	if err != nil {
		s.shadowFailed("point shadow target", err)
	}
	s.shadowSync = NewShadowSync(s.directional, s.point)

	s.createMarker()

	s.log.Info("scene created",
		zap.Int32("width", cfg.Width),
		zap.Int32("height", cfg.Height),
		zap.Bool("directional_shadows", s.directional.Valid()),
		zap.Bool("point_shadows", s.point.Valid()))
	return s, nil
}

func (s *Scene) compilePrograms() error {
	var err error
	if s.mainProgram, err = shader.NewMainProgram(shaders.MainVertexShader, shaders.MainFragmentShader); err != nil {
		return err
	}
	if s.depthProgram, err = shader.NewDepthProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		return err
	}
	if s.cubeProgram, err = shader.NewCubeDepthProgram(shaders.CubeDepthVertexShader, shaders.CubeDepthGeometryShader, shaders.CubeDepthFragmentShader); err != nil {
		return err
	}
	if s.markerProgram, err = shader.NewLightCubeProgram(shaders.LightCubeVertexShader, shaders.LightCubeFragmentShader); err != nil {
		return err
	}
	for _, p := range []*shader.Program{&s.mainProgram.Program, &s.depthProgram.Program, &s.cubeProgram.Program, &s.markerProgram.Program} {
		if missing := p.Missing(); len(missing) > 0 {
			s.log.Warn("program does not expose uniforms", zap.Uint32("program", p.ID), zap.Strings("uniforms", missing))
		}
	}
	return nil
}

func (s *Scene) createMarker() {
	s.markerVAO, s.markerVBO = uploadPositions(lighting.MarkerVertices)
}

// uploadPositions creates a VAO with tightly packed positions at location 0.
func uploadPositions(positions []float32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, unsafe.Pointer(&positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return vao, vbo
}

func deleteVAO(vao, vbo *uint32) {
	if *vao != 0 {
		gl.DeleteVertexArrays(1, vao)
		gl.DeleteBuffers(1, vbo)
		*vao, *vbo = 0, 0
	}
}

func (s *Scene) shadowFailed(what string, err error) {
	s.ShadowStatus = fmt.Sprintf("%s: %v", what, err)
	s.log.Warn("shadows unavailable", zap.String("target", what), zap.Error(err))
}

// LoadModel builds src into an indexed mesh, resolves its material textures
// and replaces the current model. On error the current model is kept.
func (s *Scene) LoadModel(src *formats.Model, opts model.BuildOptions) (model.BuildStats, error) {
	for _, w := range src.Warnings {
		s.log.Debug("model source warning", zap.String("warning", w))
	}

	mesh, stats, err := model.Build(src, opts)
	if err != nil {
		return stats, err
	}

	textures := texture.NewLoader(s.config.Open)
	materials, err := textures.ResolveAll(src.Materials)
	if err != nil {
		textures.Destroy()
		return stats, err
	}

	if s.model != nil {
		s.model.Destroy()
	}
	if s.textures != nil {
		s.textures.Destroy()
	}
	s.textures = textures
	s.model = NewModelRenderer(mesh, materials, textures.Fallback())
	s.mesh = mesh
	deleteVAO(&s.boundsVAO, &s.boundsVBO)
	s.boundsVAO, s.boundsVBO = uploadPositions(debug.BoundsWireframe(mesh.Bounds.Min, mesh.Bounds.Max, 1))
	s.shadowSync.Invalidate()

	if s.config.FitShadowToModel {
		s.directional.SetFrustum(shadow.FitFrustum(modelAABB(mesh)))
	}

	s.log.Info("model loaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("partitions", len(mesh.Partitions)),
		zap.Int("draw_calls", s.model.DrawCalls()),
		zap.Int("textures", s.textures.Count()),
		zap.Int("dropped_faces", stats.DroppedFaces))
	if w := LoadWarning(mesh, stats); w != "" {
		s.log.Warn("model has nothing to draw", zap.String("reason", w))
	}
	if stats.Tangent.SkippedTriangles > 0 || stats.Tangent.ZeroTangents > 0 {
		s.log.Debug("degenerate tangent frames",
			zap.Int("skipped_triangles", stats.Tangent.SkippedTriangles),
			zap.Int("zero_tangents", stats.Tangent.ZeroTangents))
	}
	return stats, nil
}

// Mesh returns the loaded mesh, or nil.
func (s *Scene) Mesh() *model.Mesh { return s.mesh }

// Directional returns the directional shadow pass.
func (s *Scene) Directional() *shadow.Directional { return s.directional }

// Point returns the point shadow pass.
func (s *Scene) Point() *shadow.Point { return s.point }

// InvalidateShadows forces the next frame to re-render the shadow map.
func (s *Scene) InvalidateShadows() { s.shadowSync.Invalidate() }

// Render draws one frame for state and returns the color texture.
func (s *Scene) Render(state *State) uint32 {
	if s.model != nil {
		if _, err := s.shadowSync.Sync(state, s.model); err != nil {
			s.shadowFailed(state.Light.Kind.String()+" shadow rebuild", err)
		}
	}

	restore := s.framebuffer.Bind()
	defer restore()

	c := state.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE)

	w, h := s.framebuffer.Size()
	view := state.Camera.ViewMatrix()
	projection := state.Projection(float32(w) / float32(h))

	if s.model != nil {
		if state.Wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		}
		s.setupMainProgram(state, view, projection)
		s.model.Render(s.mainProgram, state.UseTextures)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	if state.Light.Kind == lighting.Point {
		s.markerProgram.Use()
		s.markerProgram.SetTransforms(state.Light.MarkerModel(), view, projection)
		s.markerProgram.SetColor(state.Light.Color)
		gl.BindVertexArray(s.markerVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(lighting.MarkerVertices)/3))
		gl.BindVertexArray(0)
	}

	if state.ShowBounds && s.boundsVAO != 0 {
		s.markerProgram.Use()
		s.markerProgram.SetTransforms(math.Identity(), view, projection)
		s.markerProgram.SetColor(boundsColor)
		gl.BindVertexArray(s.boundsVAO)
		gl.DrawArrays(gl.LINES, 0, debug.BoundsVertexCount)
		gl.BindVertexArray(0)
	}

	return s.framebuffer.ColorTexture()
}

func (s *Scene) setupMainProgram(state *State, view, projection math.Mat4) {
	p := s.mainProgram
	light := &state.Light

	p.Use()
	p.SetTransforms(math.Identity(), view, projection)
	p.SetViewPos(state.Camera.Position)
	p.SetLightType(int32(light.Kind))
	p.SetLightColor(light.Color, light.Intensity)
	p.SetBlinn(light.Blinn)

	shadows := false
	switch light.Kind {
	case lighting.Point:
		a := light.Attenuation
		p.SetPointLight(light.Position, a.Constant, a.Linear, a.Quadratic)
		shadows = state.ShadowsEnabled && s.point.Valid()
	case lighting.Directional:
		p.SetLightDirection(light.Direction())
		shadows = state.ShadowsEnabled && s.directional.Valid()
	}
	p.SetShadows(shadows, s.directional.LightSpaceMatrix(), s.point.FarPlane())

	gl.ActiveTexture(gl.TEXTURE0 + shader.UnitDepthMap)
	gl.BindTexture(gl.TEXTURE_2D, s.directional.DepthTexture())
	gl.ActiveTexture(gl.TEXTURE0 + shader.UnitDepthCube)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, s.point.CubeTexture())
}

// CaptureImage renders state and reads the frame back top-down.
func (s *Scene) CaptureImage(state *State) *image.RGBA {
	s.Render(state)
	return s.framebuffer.ReadImage()
}

// DirectionalDepthImage renders the directional depth map for the light
// direction in state, whatever the active light kind, and reads it back.
func (s *Scene) DirectionalDepthImage(state *State) (*image.Gray, error) {
	if s.model == nil {
		return nil, ErrNoModel
	}
	if err := s.directional.Rebuild(state.Light.Direction(), s.model); err != nil {
		return nil, err
	}
	depth, err := s.directional.ReadDepth()
	if err != nil {
		return nil, err
	}
	n := s.directional.Resolution()
	return debug.DepthImage(depth, n, n), nil
}

// Size returns the framebuffer size.
func (s *Scene) Size() (width, height int32) { return s.framebuffer.Size() }

// Resize resizes the framebuffer.
func (s *Scene) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	if w, h := s.framebuffer.Size(); w == width && h == height {
		return
	}
	s.framebuffer.Resize(width, height)
}

// Destroy releases all GPU resources.
func (s *Scene) Destroy() {
	if s.model != nil {
		s.model.Destroy()
		s.model = nil
	}
	if s.textures != nil {
		s.textures.Destroy()
		s.textures = nil
	}
	if s.directional != nil {
		s.directional.Destroy()
	}
	if s.point != nil {
		s.point.Destroy()
	}
	deleteVAO(&s.markerVAO, &s.markerVBO)
	deleteVAO(&s.boundsVAO, &s.boundsVBO)
	if s.mainProgram != nil {
		s.mainProgram.Destroy()
	}
	if s.depthProgram != nil {
		s.depthProgram.Destroy()
	}
	if s.cubeProgram != nil {
		s.cubeProgram.Destroy()
	}
	if s.markerProgram != nil {
		s.markerProgram.Destroy()
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
	}
}
