package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config as-is.
type Flags struct {
	Config     string
	Debug      bool
	Model      string
	Width      int
	Height     int
	Fullscreen bool
	Hidden     bool
	Light      string
	Handedness bool
	NoShadows  bool
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Model, "model", "", "Model file to load (.obj, .gltf, .glb)")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.BoolVar(&f.Hidden, "hidden", false, "Create a hidden window")
	fs.StringVar(&f.Light, "light", "", "Light type: none, point or directional")
	fs.BoolVar(&f.Handedness, "handedness", false, "Flip tangents of mirrored UV islands")
	fs.BoolVar(&f.NoShadows, "no-shadows", false, "Disable shadow passes")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Model != "" {
		cfg.Mesh.Path = f.Model
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.Hidden {
		cfg.Window.Hidden = true
	}
	if f.Light != "" {
		cfg.Light.Type = f.Light
	}
	if f.Handedness {
		cfg.Mesh.HandednessCorrection = true
	}
	if f.NoShadows {
		cfg.Shadow.Enabled = false
	}
}
