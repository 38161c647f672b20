package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nebulaforge/nebula/morph"
	"github.com/nebulaforge/nebula/telemetry"
)

// Draw renders the current frame and the control panel, then closes out the
// perf sample opened by Update.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.cloud.Update(rl.GetFrameTime())
	if g.frame.Count > 0 {
		g.cloud.Draw(g.frame)
	}

	g.drawPanel()
	g.drawStatus()

	rl.EndDrawing()
	g.perf.EndTick()
}

// drawStatus draws the scroll/shape readout in the corner.
func (g *Game) drawStatus() {
	pos := morph.MapPosition(g.scroll, g.shapeCount)
	state := "loading"
	if g.integrator.State() == morph.StateActive {
		state = "active"
	}

	rl.DrawText(fmt.Sprintf("shape %d/%d  blend %.2f  %s", pos.SafeIndex, g.shapeCount, pos.Blend, state),
		10, int32(g.cfg.Screen.Height)-28, 18, rl.Gray)
	rl.DrawFPS(10, 10)

	if g.paused {
		rl.DrawText("PAUSED", int32(g.cfg.Screen.Width)/2-40, 10, 20, rl.Yellow)
	}
}
