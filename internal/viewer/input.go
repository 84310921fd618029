package viewer

import (
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/archsim/internal/engine/camera"
)

// movementKeys maps held keys to fly camera movement.
var movementKeys = []struct {
	key imgui.Key
	dir camera.Movement
}{
	{imgui.KeyW, camera.Forward},
	{imgui.KeyS, camera.Backward},
	{imgui.KeyA, camera.Left},
	{imgui.KeyD, camera.Right},
	{imgui.KeySpace, camera.Up},
	{imgui.KeyLeftShift, camera.Down},
}

// movements returns the movement for every held key, in table order.
func movements(down func(imgui.Key) bool) []camera.Movement {
	var out []camera.Movement
	for _, m := range movementKeys {
		if down(m.key) {
			out = append(out, m.dir)
		}
	}
	return out
}

// mouseCapture tracks whether mouse motion steers the camera. F captures,
// Escape releases.
type mouseCapture struct {
	captured bool
}

func (m *mouseCapture) update(pressed func(imgui.Key) bool) {
	if pressed(imgui.KeyEscape) {
		m.captured = false
	}
	if pressed(imgui.KeyF) {
		m.captured = true
	}
}

// look converts a mouse delta in screen pixels (y down) to a camera turn.
func (m *mouseCapture) look(cam *camera.FlyCamera, dx, dy float32) {
	if !m.captured || (dx == 0 && dy == 0) {
		return
	}
	cam.Look(dx, -dy)
}

// pendingPath hands a path chosen on the dialog goroutine to the render loop.
type pendingPath struct {
	mu   sync.Mutex
	path string
}

func (p *pendingPath) set(path string) {
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
}

func (p *pendingPath) take() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path := p.path
	p.path = ""
	return path, path != ""
}
