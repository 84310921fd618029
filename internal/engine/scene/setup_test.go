package scene

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/archsim/internal/config"
	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/internal/engine/model"
	"github.com/Faultbox/archsim/internal/engine/shadow"
	"github.com/Faultbox/archsim/pkg/formats"
	"github.com/Faultbox/archsim/pkg/math"
)

func TestStateFromDefaultConfig(t *testing.T) {
	cfg := config.Default()
	s, err := StateFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, math.V3(cfg.Camera.Position), s.Camera.Position)
	assert.Equal(t, float32(300), s.Camera.Speed)
	assert.InDelta(t, 0.3, s.Camera.Sensitivity, 1e-6)
	assert.Equal(t, lighting.DefaultLight(), s.Light)
	assert.Equal(t, float32(45), s.FOV)
	assert.True(t, s.ShadowsEnabled)
	assert.Equal(t, DefaultClearColor, s.ClearColor)
}

func TestStateFromConfigBadLight(t *testing.T) {
	cfg := config.Default()
	cfg.Light.Type = "spot"
	_, err := StateFromConfig(cfg)
	assert.Error(t, err)
}

func TestStateSaveToRoundTrip(t *testing.T) {
	cfg := config.Default()
	s, err := StateFromConfig(cfg)
	require.NoError(t, err)

	s.Camera.Position = math.Vec3{X: 1, Y: 2, Z: 3}
	s.Camera.Yaw = 10
	s.Light.Kind = lighting.Directional
	require.True(t, s.Light.SetDirection(math.Vec3{X: 0, Y: -2, Z: 0}))
	s.Light.Intensity = 2
	s.Wireframe = true
	s.ShadowsEnabled = false

	s.SaveTo(cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "directional", cfg.Light.Type)
	assert.Equal(t, [3]float32{0, -1, 0}, cfg.Light.Direction)
	assert.False(t, cfg.Shadow.Enabled)

	back, err := StateFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, s.Camera.Position, back.Camera.Position)
	assert.Equal(t, s.Camera.Yaw, back.Camera.Yaw)
	assert.Equal(t, s.Light, back.Light)
	assert.True(t, back.Wireframe)
	assert.False(t, back.ShadowsEnabled)
}

func TestConfigFromSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Shadow.Directional.FitToModel = true
	cfg.Mesh.HandednessCorrection = true

	sc := ConfigFromSettings(cfg, 640, 480, func(string) ([]byte, error) { return nil, nil })
	assert.EqualValues(t, 640, sc.Width)
	assert.Equal(t, shadow.DefaultDirectionalFrustum(), sc.Directional.Frustum)
	assert.EqualValues(t, shadow.DefaultPointFar, sc.Point.Far)
	assert.True(t, sc.FitShadowToModel)
	assert.NotNil(t, sc.Open)

	assert.True(t, BuildOptions(cfg).Tangents.HandednessCorrection)
}

const wedgeOBJ = `
v -50 0 -20
v 150 0 -20
v -50 300 40
v 150 300 40
vt 0 0
vt 1 0
vt 0 1
vt 1 1
vn 0 0 1
f 1/1/1 2/2/1 4/4/1 3/3/1
`

func buildOBJ(t *testing.T, src string) (*model.Mesh, model.BuildStats) {
	t.Helper()
	m, err := formats.ParseOBJ(strings.NewReader(src), formats.OBJOptions{
		OpenMaterial: func(string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("newmtl stone\nKd 1 1 1\n")), nil
		},
	})
	require.NoError(t, err)
	mesh, stats, err := model.Build(m, model.BuildOptions{})
	require.NoError(t, err)
	return mesh, stats
}

func TestFittedFrustumContainsModel(t *testing.T) {
	mesh, _ := buildOBJ(t, "mtllib wedge.mtl\nusemtl stone\n"+wedgeOBJ)
	require.Equal(t, 2, mesh.TriangleCount())

	box := modelAABB(mesh)
	assert.Equal(t, [3]float32{-50, 0, -20}, box.Min)
	assert.Equal(t, [3]float32{150, 300, 40}, box.Max)

	f := shadow.FitFrustum(box)
	assert.NotEqual(t, shadow.DefaultDirectionalFrustum(), f)

	m := shadow.DirectionalLightMatrix(math.Vec3{X: 0.3, Y: -1, Z: 0.2}.Normalize(), f)
	for _, v := range mesh.Vertices {
		p := m.Project(math.V3(v.Position))
		assert.True(t, p.X >= -1 && p.X <= 1 && p.Y >= -1 && p.Y <= 1 && p.Z >= -1 && p.Z <= 1,
			"vertex %v projects outside the light volume: %v", v.Position, p)
	}
}

func TestLoadWarning(t *testing.T) {
	mesh, stats := buildOBJ(t, wedgeOBJ)
	assert.Zero(t, mesh.TriangleCount())
	assert.Equal(t, 2, stats.DroppedFaces)
	assert.Contains(t, LoadWarning(mesh, stats), "all 2 faces dropped")

	mesh, stats = buildOBJ(t, "mtllib wedge.mtl\nusemtl stone\n"+wedgeOBJ)
	assert.Empty(t, LoadWarning(mesh, stats))
	assert.Empty(t, LoadWarning(nil, stats))
}
