package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/systems"
	"github.com/pthm-cable/swarm/ui"
)

// frameDuration returns raylib's measure of the previous frame.
func frameDuration() time.Duration {
	return time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
}

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, _, ok := g.overlays.HandleKeyPress(key); ok && id == ui.OverlayInspector {
			if g.inspector.Visible() != g.overlays.IsEnabled(ui.OverlayInspector) {
				g.inspector.Toggle()
			}
		}
	}

	if rl.IsKeyPressed(rl.KeyN) {
		g.SetShape(g.shape.Next())
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.nextTheme()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Scatter()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.interaction.ClearWells()
		g.inspector.Deselect()
	}
	if rl.IsKeyPressed(rl.KeyF12) {
		g.saveBufferSnapshot()
	}

	// Time scale with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.settings.TimeScale = max(0, g.settings.TimeScale-0.25)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.settings.TimeScale = min(3, g.settings.TimeScale+0.25)
	}

	// Camera controls
	g.handleCameraInput()

	g.handlePointer()
}

// handlePointer feeds the cursor to the interaction system. Clicks over the
// settings panel belong to the panel.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	overPanel := g.controls.Contains(mouse.X, mouse.Y, g.overlays)
	inside := rl.IsCursorOnScreen() && !overPanel

	if inside && rl.IsMouseButtonPressed(rl.MouseButtonLeft) && g.inspector.Visible() {
		if g.inspector.HandleClick(mouse.X, mouse.Y, g.interaction.Wells(), g.camera.Project) {
			inside = false
		}
	}
	if inside && rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		wx, wy, wz := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		g.placeWell(wx, wy, wz)
	}

	g.interaction.UpdatePointer(systems.PointerInput{
		X:      mouse.X,
		Y:      mouse.Y,
		Inside: inside,
		Down:   rl.IsMouseButtonDown(rl.MouseButtonLeft),
		Blow:   rl.IsKeyDown(rl.KeyB),
		NowMS:  rl.GetTime() * 1000,
	})
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := screenSize()
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.interaction.SetParams(g.interactionParams(g.cfg))
	g.inspector.Resize(int32(w), int32(h))
	g.bloom.Resize(int32(w), int32(h))
	g.status.SetPosition(int32(w)-270, 10)
	g.perfPanel.SetPosition(int32(w)-270, 10)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	// Orbit speed in pixels of drag per key-held frame
	const keyOrbit = 6

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, -keyOrbit)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Orbit(d.X, d.Y)
	}

	// Auto-orbit from the settings panel
	if g.settings.Rotation != 0 && !g.paused {
		g.camera.Orbit(g.settings.Rotation*rl.GetFrameTime(), 0)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
