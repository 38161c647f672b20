package game

import (
	"path/filepath"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	panelWidth   = 190
	swatchSize   = 24
	swatchMargin = 6
)

// drawPanel draws the raygui control column: shape buttons, color swatches,
// and the morph tuning sliders. raygui widgets report interaction from the
// same call that draws them.
func (g *Game) drawPanel() {
	x := float32(g.cfg.Screen.Width - panelWidth - 10)
	y := float32(10)

	gui.GroupBox(rl.Rectangle{X: x, Y: y, Width: panelWidth, Height: 400}, "nebula")
	y += 14

	for i, key := range g.cfg.Assets.Shapes {
		label := strings.TrimSuffix(filepath.Base(key), filepath.Ext(key))
		if gui.Button(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 24}, label) {
			g.JumpToShape(i)
		}
		y += 28
	}
	y += 8

	y = g.drawSwatches(x+10, y)
	y += 10

	cfg := g.integrator.Config()
	gui.Label(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 16}, "easing")
	y += 16
	cfg.EasingRate = gui.Slider(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 14}, "", "", cfg.EasingRate, 0.01, 0.2)
	y += 22

	gui.Label(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 16}, "dead zone")
	y += 16
	cfg.DeadZone = float64(gui.Slider(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 14}, "", "", float32(cfg.DeadZone), 0, 0.3))
	g.integrator.Configure(cfg)
	y += 24

	if gui.Button(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 24}, "bg: "+g.cfg.Background.Mode) {
		g.toggleBackgroundMode()
	}
	y += 28

	if gui.Button(rl.Rectangle{X: x + 10, Y: y, Width: panelWidth - 20, Height: 24}, "color: "+g.cfg.Color.Policy) {
		g.togglePalettePolicy()
	}
}

// toggleBackgroundMode switches the background synthesizer. Cached buffers
// and the loading placeholder embed the old distribution, so the cache is
// dropped, the placeholder regenerated, and the active shape rebuilt.
func (g *Game) toggleBackgroundMode() {
	if g.cfg.Background.Mode == "spiral" {
		g.cfg.Background.Mode = "sphere"
	} else {
		g.cfg.Background.Mode = "spiral"
	}

	synth := backgroundSynth(g.cfg)
	g.synthMu.Lock()
	g.synth = synth
	g.synthMu.Unlock()

	g.integrator.SetPlaceholder(synth(g.cfg.Particles.Budget, g.rng))
	g.cache.Clear()
	if g.lastIndex >= 0 {
		g.requestShape(g.lastIndex)
	}
}

// togglePalettePolicy switches between the configured color policies.
func (g *Game) togglePalettePolicy() {
	if g.cfg.Color.Policy == "stochastic" {
		g.cfg.Color.Policy = "radial-gradient"
	} else {
		g.cfg.Color.Policy = "stochastic"
	}
	g.integrator.SetPalette(g.newPalette(g.baseColor))
}

// drawSwatches draws the base-color row and applies clicks.
func (g *Game) drawSwatches(x, y float32) float32 {
	mouse := rl.GetMousePosition()
	for i, hex := range g.cfg.Color.Swatches {
		rect := rl.Rectangle{
			X:      x + float32(i)*(swatchSize+swatchMargin),
			Y:      y,
			Width:  swatchSize,
			Height: swatchSize,
		}
		col, err := parseSwatch(hex)
		if err != nil {
			continue
		}
		rl.DrawRectangleRec(rect, col)
		rl.DrawRectangleLinesEx(rect, 1, rl.DarkGray)

		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && rl.CheckCollisionPointRec(mouse, rect) {
			if err := g.SetBaseColor(hex); err != nil {
				Logf("swatch rejected: %v", err)
			}
		}
	}
	return y + swatchSize
}

func parseSwatch(hex string) (rl.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.Color{}, err
	}
	return rl.Color{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: 255,
	}, nil
}
