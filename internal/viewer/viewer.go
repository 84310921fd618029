// Package viewer is the interactive model viewer: an ImGui window showing
// the rendered scene next to light, camera and shadow controls.
package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/archsim/internal/assets"
	"github.com/Faultbox/archsim/internal/config"
	"github.com/Faultbox/archsim/internal/engine/debug"
	"github.com/Faultbox/archsim/internal/engine/scene"
	"github.com/Faultbox/archsim/internal/engine/ui"
	"github.com/Faultbox/archsim/internal/logger"
	"github.com/Faultbox/archsim/pkg/encoding"
	"github.com/Faultbox/archsim/pkg/formats"
)

const (
	panelWidth     = 360
	shadowPreview  = 256
	windowTitle    = "archsim"
	statusBarLines = 1
)

// App is the viewer application.
type App struct {
	cfg        *config.Config
	configPath string
	log        *zap.Logger

	backend *ui.Backend
	assets  *assets.Manager
	scene   *scene.Scene
	state   *scene.State

	capture     mouseCapture
	pending     pendingPath
	screenshots *debug.ScreenshotCapture

	modelPath string
	status    string

	// Compass angles for the directional light, in degrees.
	sunAzimuth   float32
	sunElevation float32
}

// New creates the window and the scene. configPath is where "Save
// settings" writes; empty means the default config file.
func New(cfg *config.Config, configPath string) (*App, error) {
	app := &App{
		cfg:          cfg,
		configPath:   configPath,
		log:          logger.Named("viewer"),
		assets:       assets.NewManager(),
		screenshots:  debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "archsim"),
		sunElevation: 90,
	}
	if f := cfg.Graphics.ScreenshotFormat; f != "" {
		if err := app.screenshots.SetFormat(f); err != nil {
			return nil, fmt.Errorf("screenshot format: %w", err)
		}
	}

	state, err := scene.StateFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	app.state = state

	app.backend, err = ui.NewBackend(ui.Options{
		Title:   windowTitle,
		Width:   int32(cfg.Window.Width),
		Height:  int32(cfg.Window.Height),
		OnClose: app.destroy,
	})
	if err != nil {
		return nil, err
	}

	w, h := int32(cfg.Window.Width-panelWidth), int32(cfg.Window.Height)
	app.scene, err = scene.New(scene.ConfigFromSettings(cfg, max(w, 1), h, app.assets.Load))
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	if app.scene.ShadowStatus != "" {
		app.status = app.scene.ShadowStatus
	}

	if cfg.Mesh.Path != "" {
		if err := app.LoadModel(cfg.Mesh.Path); err != nil {
			app.log.Error("loading model", zap.String("path", cfg.Mesh.Path), zap.Error(err))
		}
	}
	return app, nil
}

// Run enters the render loop and returns when the window closes.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// LoadModel parses a model file and replaces the scene's model. Textures
// resolve relative to the model's directory.
func (app *App) LoadModel(path string) error {
	names, err := encoding.NewDecoder(app.cfg.Mesh.Encoding)
	if err != nil {
		return err
	}
	src, err := formats.Load(path, names)
	if err != nil {
		app.setStatus("load failed: %v", err)
		return err
	}

	app.assets.Reset()
	if err := app.assets.AddDir(filepath.Dir(path)); err != nil {
		return err
	}

	stats, err := app.scene.LoadModel(src, scene.BuildOptions(app.cfg))
	if err != nil {
		app.setStatus("load failed: %v", err)
		return err
	}

	app.modelPath = path
	if mesh := app.scene.Mesh(); app.cfg.Camera.FitModel && mesh != nil {
		app.state.Camera.FitToBounds(mesh.Bounds.Min, mesh.Bounds.Max, app.state.FOV)
	}
	app.backend.SetWindowTitle(fmt.Sprintf("%s - %s", windowTitle, filepath.Base(path)))
	if w := scene.LoadWarning(app.scene.Mesh(), stats); w != "" {
		app.setStatus("loaded %s: %s", filepath.Base(path), w)
		return nil
	}
	app.setStatus("loaded %s: %d triangles, %d dropped faces", filepath.Base(path),
		app.scene.Mesh().TriangleCount(), stats.DroppedFaces)
	return nil
}

func (app *App) setStatus(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
}

// openModelDialog shows the native file dialog. The choice is picked up by
// the render loop, which owns the GL context.
func (app *App) openModelDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Models", formats.Extensions...).
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Warn("file dialog", zap.Error(err))
			}
			return
		}
		app.pending.set(filename)
	}()
}

func (app *App) saveSettings() {
	app.state.SaveTo(app.cfg)
	if app.modelPath != "" {
		app.cfg.Mesh.Path = app.modelPath
	}

	var (
		path string
		err  error
	)
	if app.configPath != "" {
		path, err = app.configPath, app.cfg.SaveTo(app.configPath)
	} else {
		path, err = app.cfg.Save()
	}
	if err != nil {
		app.log.Error("saving settings", zap.Error(err))
		app.setStatus("save failed: %v", err)
		return
	}
	app.log.Info("settings saved", zap.String("path", path))
	app.setStatus("settings saved to %s", path)
}

func (app *App) takeScreenshot() {
	path, err := app.screenshots.Capture(app.scene.CaptureImage(app.state))
	if err != nil {
		app.log.Error("screenshot", zap.Error(err))
		app.setStatus("screenshot failed: %v", err)
		return
	}
	app.setStatus("screenshot saved to %s", path)
}

// render is called each frame by the backend.
func (app *App) render() {
	if path, ok := app.pending.take(); ok {
		if err := app.LoadModel(path); err != nil {
			app.log.Error("loading model", zap.String("path", path), zap.Error(err))
		}
	}

	app.handleInput()
	app.renderMenu()

	x, y, w, h := ui.GetViewport()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	viewW := w - panelWidth
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(viewW, h))
	if imgui.BeginV("Viewport", nil, flags|imgui.WindowFlagsNoScrollbar) {
		app.renderViewport()
	}
	imgui.End()

	settingsH := h * 0.55
	debugH := h * 0.18
	imgui.SetNextWindowPos(imgui.NewVec2(x+viewW, y))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, settingsH))
	if imgui.BeginV("Settings", nil, flags) {
		app.renderSettings()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x+viewW, y+settingsH))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, debugH))
	if imgui.BeginV("Debug Info", nil, flags) {
		app.renderDebugInfo()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x+viewW, y+settingsH+debugH))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, h-settingsH-debugH))
	if imgui.BeginV("Shadow Map", nil, flags) {
		app.renderShadowPreview()
	}
	imgui.End()
}

func (app *App) handleInput() {
	if ui.IsKeyPressed(imgui.KeyF12) {
		app.takeScreenshot()
	}
	if imgui.IsAnyItemActive() {
		return
	}

	app.capture.update(ui.IsKeyPressed)
	io := imgui.CurrentIO()
	dt := io.DeltaTime()
	for _, m := range movements(ui.IsKeyDown) {
		app.state.Camera.Move(m, dt)
	}
	if app.capture.captured {
		imgui.SetMouseCursor(imgui.MouseCursorNone)
		d := io.MouseDelta()
		app.capture.look(app.state.Camera, d.X, d.Y)
	}
}

// destroy releases GL resources while the context is still alive.
func (app *App) destroy() {
	if app.scene != nil {
		app.scene.Destroy()
		app.scene = nil
	}
}
