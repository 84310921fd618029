package scene

import (
	"fmt"

	"github.com/Faultbox/archsim/internal/config"
	"github.com/Faultbox/archsim/internal/engine/model"
	"github.com/Faultbox/archsim/internal/engine/shadow"
	"github.com/Faultbox/archsim/pkg/math"
)

// StateFromConfig builds the startup state from the loaded settings.
func StateFromConfig(cfg *config.Config) (*State, error) {
	light, err := cfg.Light.BuildLight()
	if err != nil {
		return nil, fmt.Errorf("light config: %w", err)
	}

	s := NewState(math.V3(cfg.Camera.Position))
	s.Camera.Yaw = cfg.Camera.Yaw
	s.Camera.Pitch = cfg.Camera.Pitch
	if cfg.Camera.Speed > 0 {
		s.Camera.Speed = cfg.Camera.Speed
	}
	if cfg.Camera.Sensitivity > 0 {
		s.Camera.Sensitivity = cfg.Camera.Sensitivity
	}
	s.Light = light
	s.FOV = cfg.Graphics.FOV
	s.Wireframe = cfg.Graphics.Wireframe
	s.UseTextures = cfg.Graphics.UseTextures
	s.ShadowsEnabled = cfg.Shadow.Enabled
	s.ClearColor = cfg.Graphics.ClearColor
	return s, nil
}

// SaveTo copies the user-editable parts of s back into cfg.
func (s *State) SaveTo(cfg *config.Config) {
	cfg.Camera.Position = s.Camera.Position.Arr()
	cfg.Camera.Yaw = s.Camera.Yaw
	cfg.Camera.Pitch = s.Camera.Pitch
	cfg.Camera.Speed = s.Camera.Speed
	cfg.Camera.Sensitivity = s.Camera.Sensitivity

	l := &s.Light
	cfg.Light.Type = l.Kind.String()
	cfg.Light.Position = l.Position.Arr()
	cfg.Light.Direction = l.Direction().Arr()
	cfg.Light.Color = l.Color
	cfg.Light.Intensity = l.Intensity
	cfg.Light.Attenuation = config.AttenuationConfig{
		Constant:  l.Attenuation.Constant,
		Linear:    l.Attenuation.Linear,
		Quadratic: l.Attenuation.Quadratic,
	}
	cfg.Light.Blinn = l.Blinn

	cfg.Graphics.FOV = s.FOV
	cfg.Graphics.Wireframe = s.Wireframe
	cfg.Graphics.UseTextures = s.UseTextures
	cfg.Graphics.ClearColor = s.ClearColor
	cfg.Shadow.Enabled = s.ShadowsEnabled
}

// ConfigFromSettings derives the scene configuration for a framebuffer of
// the given size. open reads texture files.
func ConfigFromSettings(cfg *config.Config, width, height int32, open func(string) ([]byte, error)) Config {
	d, p := cfg.Shadow.Directional, cfg.Shadow.Point
	return Config{
		Width:  width,
		Height: height,
		Directional: shadow.DirectionalConfig{
			Resolution: d.Resolution,
			Frustum:    d.Frustum(),
		},
		Point: shadow.PointConfig{
			Resolution: p.Resolution,
			Near:       p.Near,
			Far:        p.Far,
		},
		FitShadowToModel: d.FitToModel,
		Open:             open,
	}
}

// BuildOptions returns the mesh build options from the settings.
func BuildOptions(cfg *config.Config) model.BuildOptions {
	return model.BuildOptions{
		Tangents: model.TangentOptions{HandednessCorrection: cfg.Mesh.HandednessCorrection},
	}
}

// modelAABB returns the mesh bounds in the form the shadow frustum fit takes.
func modelAABB(mesh *model.Mesh) shadow.AABB {
	return shadow.AABB{Min: mesh.Bounds.Min, Max: mesh.Bounds.Max}
}

// LoadWarning describes a build that produced nothing drawable, or returns
// "". An OBJ without usemtl leaves every face without a material, and those
// faces are dropped.
func LoadWarning(mesh *model.Mesh, stats model.BuildStats) string {
	if mesh == nil || mesh.TriangleCount() > 0 || stats.DroppedFaces == 0 {
		return ""
	}
	return fmt.Sprintf("all %d faces dropped: no face references a valid material", stats.DroppedFaces)
}
