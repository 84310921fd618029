package viewer

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/internal/engine/ui"
	"github.com/Faultbox/archsim/pkg/math"
)

func (app *App) renderMenu() {
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open Model...") {
				app.openModelDialog()
			}
			if imgui.MenuItemBool("Save Settings") {
				app.saveSettings()
			}
			if imgui.MenuItemBool("Screenshot (F12)") {
				app.takeScreenshot()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				app.backend.Close()
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}
}

func (app *App) renderViewport() {
	avail := imgui.ContentRegionAvail()
	statusH := imgui.TextLineHeightWithSpacing() * statusBarLines
	w, h := int32(avail.X), int32(avail.Y-statusH)
	if w <= 0 || h <= 0 {
		return
	}

	app.scene.Resize(w, h)
	tex := app.scene.Render(app.state)
	ui.Image(tex, float32(w), float32(h))

	if app.status != "" {
		imgui.TextDisabled(app.status)
	} else if app.capture.captured {
		imgui.TextDisabled("Mouse captured (Esc to release)")
	} else {
		imgui.TextDisabled("WASD move, Space/Shift up/down, F to capture mouse")
	}
}

func (app *App) renderSettings() {
	s := app.state
	cam := s.Camera

	imgui.SliderFloat("speed", &cam.Speed, 0, 500)
	imgui.SliderFloat("fov", &s.FOV, 1, 179)
	imgui.Checkbox("wireframe", &s.Wireframe)
	imgui.Checkbox("textures", &s.UseTextures)
	imgui.Checkbox("show bounds", &s.ShowBounds)
	if imgui.Checkbox("shadows", &s.ShadowsEnabled) && s.ShadowsEnabled {
		app.scene.InvalidateShadows()
	}

	imgui.Separator()
	light := &s.Light
	if imgui.RadioButtonBool("None", light.Kind == lighting.None) {
		light.Kind = lighting.None
	}
	imgui.SameLine()
	if imgui.RadioButtonBool("Point", light.Kind == lighting.Point) {
		light.Kind = lighting.Point
	}
	imgui.SameLine()
	if imgui.RadioButtonBool("Directional", light.Kind == lighting.Directional) {
		light.Kind = lighting.Directional
	}

	switch light.Kind {
	case lighting.Point:
		pos := light.Position.Arr()
		if imgui.DragFloat3V("light position", &pos, 1, -3000, 3000, "%.3f", imgui.SliderFlagsNone) {
			light.Position = math.V3(pos)
		}
		imgui.ColorEdit3("color", &light.Color)
		imgui.SliderFloat("light intensity", &light.Intensity, 0, 5)
		att := [3]float32{light.Attenuation.Constant, light.Attenuation.Linear, light.Attenuation.Quadratic}
		if imgui.DragFloat3V("attenuation", &att, 0.0000001, -3, 3, "%.7f", imgui.SliderFlagsNone) {
			light.Attenuation = lighting.Attenuation{Constant: att[0], Linear: att[1], Quadratic: att[2]}
		}
		imgui.Checkbox("blinn", &light.Blinn)

	case lighting.Directional:
		dir := light.Direction().Arr()
		if imgui.DragFloat3V("light direction", &dir, 0.0001, -1, 1, "%.4f", imgui.SliderFlagsNone) {
			light.SetDirection(math.V3(dir))
		}
		sunChanged := imgui.SliderFloat("sun azimuth", &app.sunAzimuth, 0, 360)
		sunChanged = imgui.SliderFloat("sun elevation", &app.sunElevation, 1, 90) || sunChanged
		if sunChanged {
			light.SetDirection(lighting.SunDirection(app.sunAzimuth, app.sunElevation))
		}
		imgui.ColorEdit3("color", &light.Color)
		imgui.SliderFloat("light intensity", &light.Intensity, 0, 5)
		imgui.Checkbox("blinn", &light.Blinn)
	}

	imgui.Separator()
	if imgui.Button("Open model...") {
		app.openModelDialog()
	}
	imgui.SameLine()
	if imgui.Button("Save settings") {
		app.saveSettings()
	}
}

func (app *App) renderDebugInfo() {
	io := imgui.CurrentIO()
	fps := io.Framerate()
	cam := app.state.Camera
	front := cam.Front()

	imgui.Text(fmt.Sprintf("FPS: %.1f (%.3f ms)", fps, 1000/max(fps, 0.001)))
	imgui.Text(fmt.Sprintf("Position x: %.3f y: %.3f z: %.3f", cam.Position.X, cam.Position.Y, cam.Position.Z))
	imgui.Text(fmt.Sprintf("Lookat x: %.3f y: %.3f z: %.3f", front.X, front.Y, front.Z))
	if mesh := app.scene.Mesh(); mesh != nil {
		imgui.Text(fmt.Sprintf("Vertices: %d  Triangles: %d  Partitions: %d",
			len(mesh.Vertices), mesh.TriangleCount(), len(mesh.Partitions)))
	}
	hits, misses := app.assets.CacheStats()
	imgui.Text(fmt.Sprintf("Asset cache: %d hits, %d misses", hits, misses))
	if app.scene.ShadowStatus != "" {
		imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), app.scene.ShadowStatus)
	}
}

func (app *App) renderShadowPreview() {
	switch app.state.Light.Kind {
	case lighting.Directional:
		d := app.scene.Directional()
		if !d.Valid() {
			imgui.TextDisabled("directional shadow map unavailable")
			return
		}
		ui.Image(d.DepthTexture(), shadowPreview, shadowPreview)
		imgui.Text(fmt.Sprintf("%dx%d", d.Resolution(), d.Resolution()))
	case lighting.Point:
		p := app.scene.Point()
		if !p.Valid() {
			imgui.TextDisabled("point shadow cube map unavailable")
			return
		}
		imgui.Text(fmt.Sprintf("depth cube map, far plane %.0f", p.FarPlane()))
	default:
		imgui.TextDisabled("no light")
	}
}
