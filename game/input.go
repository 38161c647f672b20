package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes scroll, jump, camera and window input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Mouse wheel is the continuous scroll control. Manual scrolling cancels
	// any in-flight jump tween.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.tween = nil
		g.scroll += float64(wheel) * g.cfg.Morph.ScrollSpeed
	}

	// Arrow keys step to the neighboring shape.
	if rl.IsKeyPressed(rl.KeyRight) {
		g.JumpToShape(wrapIndex(g.lastIndex+1, g.shapeCount))
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		g.JumpToShape(wrapIndex(g.lastIndex-1, g.shapeCount))
	}

	// Number keys jump straight to a shape.
	for i := 0; i < g.shapeCount && i < 9; i++ {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			g.JumpToShape(i)
		}
	}

	g.handleCameraInput()
}

// handleCameraInput orbits and zooms the cloud camera.
func (g *Game) handleCameraInput() {
	var dAngle, dHeight, dDist float32
	if rl.IsKeyDown(rl.KeyA) {
		dAngle -= 0.02
	}
	if rl.IsKeyDown(rl.KeyD) {
		dAngle += 0.02
	}
	if rl.IsKeyDown(rl.KeyW) {
		dHeight += 0.15
	}
	if rl.IsKeyDown(rl.KeyS) {
		dHeight -= 0.15
	}
	if rl.IsKeyDown(rl.KeyQ) {
		dDist -= 0.3
	}
	if rl.IsKeyDown(rl.KeyE) {
		dDist += 0.3
	}
	g.cloud.Orbit(dAngle, dHeight, dDist)
}

func wrapIndex(i, n int) int {
	if n < 1 {
		return 0
	}
	return ((i % n) + n) % n
}
