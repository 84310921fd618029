// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/internal/engine/shadow"
	"github.com/Faultbox/archsim/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Light    LightConfig    `yaml:"light"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Mesh     MeshConfig     `yaml:"mesh"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Hidden     bool `yaml:"hidden"`
}

// GraphicsConfig holds rendering settings.
type GraphicsConfig struct {
	FOV              float32    `yaml:"fov"`
	ClearColor       [3]float32 `yaml:"clear_color,flow"`
	Wireframe        bool       `yaml:"wireframe"`
	UseTextures      bool       `yaml:"use_textures"`
	ScreenshotDir    string     `yaml:"screenshot_dir"`
	ScreenshotFormat string     `yaml:"screenshot_format"`
}

// CameraConfig holds the initial fly camera state.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position,flow"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FitModel    bool       `yaml:"fit_model"`
}

// LightConfig holds the initial light.
type LightConfig struct {
	Type        string            `yaml:"type"`
	Position    [3]float32        `yaml:"position,flow"`
	Direction   [3]float32        `yaml:"direction,flow"`
	Color       [3]float32        `yaml:"color,flow"`
	Intensity   float32           `yaml:"intensity"`
	Attenuation AttenuationConfig `yaml:"attenuation"`
	Blinn       bool              `yaml:"blinn"`
}

// AttenuationConfig holds point light falloff coefficients.
type AttenuationConfig struct {
	Constant  float32 `yaml:"constant"`
	Linear    float32 `yaml:"linear"`
	Quadratic float32 `yaml:"quadratic"`
}

// ShadowConfig holds shadow pass settings.
type ShadowConfig struct {
	Enabled     bool                    `yaml:"enabled"`
	Directional DirectionalShadowConfig `yaml:"directional"`
	Point       PointShadowConfig       `yaml:"point"`
}

// DirectionalShadowConfig sizes the directional depth map and frustum.
type DirectionalShadowConfig struct {
	Resolution int32   `yaml:"resolution"`
	HalfWidth  float32 `yaml:"half_width"`
	HalfHeight float32 `yaml:"half_height"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Shrink     float32 `yaml:"shrink"`
	Distance   float32 `yaml:"distance"`
	FitToModel bool    `yaml:"fit_to_model"`
}

// PointShadowConfig sizes the point light depth cube map.
type PointShadowConfig struct {
	Resolution int32   `yaml:"resolution"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// MeshConfig holds mesh preparation settings.
type MeshConfig struct {
	Path                 string `yaml:"path"`
	Encoding             string `yaml:"encoding"`
	HandednessCorrection bool   `yaml:"handedness_correction"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	l := lighting.DefaultLight()
	f := shadow.DefaultDirectionalFrustum()
	return &Config{
		Window: WindowConfig{
			Width:  1600,
			Height: 900,
			VSync:  true,
		},
		Graphics: GraphicsConfig{
			FOV:              45,
			ClearColor:       [3]float32{0.45, 0.55, 0.60},
			UseTextures:      true,
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 200, 600},
			Yaw:         -90,
			Speed:       300,
			Sensitivity: 0.3,
		},
		Light: LightConfig{
			Type:      l.Kind.String(),
			Position:  l.Position.Arr(),
			Direction: l.Direction().Arr(),
			Color:     l.Color,
			Intensity: l.Intensity,
			Attenuation: AttenuationConfig{
				Constant:  l.Attenuation.Constant,
				Linear:    l.Attenuation.Linear,
				Quadratic: l.Attenuation.Quadratic,
			},
			Blinn: l.Blinn,
		},
		Shadow: ShadowConfig{
			Enabled: true,
			Directional: DirectionalShadowConfig{
				Resolution: shadow.DefaultDirectionalResolution,
				HalfWidth:  f.HalfWidth,
				HalfHeight: f.HalfHeight,
				Near:       f.Near,
				Far:        f.Far,
				Shrink:     f.Shrink,
				Distance:   f.Distance,
			},
			Point: PointShadowConfig{
				Resolution: shadow.DefaultPointResolution,
				Near:       shadow.DefaultPointNear,
				Far:        shadow.DefaultPointFar,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		return fmt.Errorf("fov %v must be in (0, 180)", c.Graphics.FOV)
	}
	if _, err := lighting.ParseKind(c.Light.Type); err != nil {
		return err
	}
	d := c.Shadow.Directional
	if d.Near <= 0 || d.Far <= d.Near {
		return fmt.Errorf("directional shadow near/far %v/%v invalid", d.Near, d.Far)
	}
	p := c.Shadow.Point
	if p.Near <= 0 || p.Far <= p.Near {
		return fmt.Errorf("point shadow near/far %v/%v invalid", p.Near, p.Far)
	}
	return nil
}

// Frustum returns the directional shadow frustum.
func (d DirectionalShadowConfig) Frustum() shadow.DirectionalFrustum {
	return shadow.DirectionalFrustum{
		HalfWidth:  d.HalfWidth,
		HalfHeight: d.HalfHeight,
		Near:       d.Near,
		Far:        d.Far,
		Shrink:     d.Shrink,
		Distance:   d.Distance,
	}
}

// BuildLight converts the light section into a lighting.Light. A zero
// direction keeps the default.
func (c LightConfig) BuildLight() (lighting.Light, error) {
	l := lighting.DefaultLight()
	kind, err := lighting.ParseKind(c.Type)
	if err != nil {
		return l, err
	}
	l.Kind = kind
	l.Position.X, l.Position.Y, l.Position.Z = c.Position[0], c.Position[1], c.Position[2]
	if c.Direction != [3]float32{} {
		l.SetDirection(math.V3(c.Direction))
	}
	l.Color = c.Color
	l.Intensity = c.Intensity
	l.Attenuation = lighting.Attenuation{
		Constant:  c.Attenuation.Constant,
		Linear:    c.Attenuation.Linear,
		Quadratic: c.Attenuation.Quadratic,
	}
	l.Blinn = c.Blinn
	return l, nil
}
