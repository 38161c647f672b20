// Background synthesizer preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/bgpreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nebulaforge/nebula/points"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	pointCount   = 6000
)

// GalaxyParams mirrors the background section of the config file.
type GalaxyParams struct {
	Radius      float32
	Branches    int
	Spin        float32
	Randomness  float32
	RandomPower float32
	Thickness   float32
	Turbulence  float32
	Seed        int64
}

func defaultParams() GalaxyParams {
	return GalaxyParams{
		Radius:      14,
		Branches:    4,
		Spin:        0.35,
		Randomness:  0.28,
		RandomPower: 2.6,
		Thickness:   0.22,
		Turbulence:  0.4,
		Seed:        42,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Background Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	sphereMode := false
	topDown := true
	rngSeed := int64(7)

	var buf points.Buffer
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			buf = generate(params, sphereMode, rngSeed)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		drawScatter(buf, params.Radius, topDown)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Points: %d  Mode: %s", buf.Count(), modeName(sphereMode)), 15, statsY, 16, rl.Gray)
		rl.DrawText(fmt.Sprintf("View: %s (V to toggle)", viewName(topDown)), 15, statsY+20, 16, rl.Gray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Background Parameters", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 35

		params.Radius, needsRegen = slider(panelX, &panelY, "Radius", params.Radius, 4, 30, "%.1f", needsRegen)

		if !sphereMode {
			branches := float32(params.Branches)
			branches, needsRegen = slider(panelX, &panelY, "Branches (spiral arms)", branches, 0, 8, "%.0f", needsRegen)
			params.Branches = int(branches)

			params.Spin, needsRegen = slider(panelX, &panelY, "Spin (radians per unit radius)", params.Spin, 0, 1.2, "%.2f", needsRegen)
			params.Randomness, needsRegen = slider(panelX, &panelY, "Randomness (arm scatter)", params.Randomness, 0, 1, "%.2f", needsRegen)
			params.RandomPower, needsRegen = slider(panelX, &panelY, "Random power (scatter falloff)", params.RandomPower, 1, 5, "%.1f", needsRegen)
			params.Thickness, needsRegen = slider(panelX, &panelY, "Thickness (disc height)", params.Thickness, 0.05, 1, "%.2f", needsRegen)
			params.Turbulence, needsRegen = slider(panelX, &panelY, "Turbulence (simplex displacement)", params.Turbulence, 0, 2, "%.2f", needsRegen)
		}

		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(sphereMode, "Galaxy Mode", "Sphere Mode")) {
			sphereMode = !sphereMode
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reroll Points") {
			rngSeed++
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 50

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.RayWhite)
		panelY += 25
		for _, line := range yamlLines(params, sphereMode) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			var yaml string
			for _, line := range yamlLines(params, sphereMode) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}
		if rl.IsKeyPressed(rl.KeyV) {
			topDown = !topDown
		}

		rl.EndDrawing()
	}
}

// slider draws one labeled SliderBar row and reports whether the value moved.
func slider(x float32, y *float32, label string, value, min, max float32, format string, regen bool) (float32, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, min), fmt.Sprintf(format, max),
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.RayWhite)
	*y += 35
	if next != value {
		return next, true
	}
	return value, regen
}

func generate(p GalaxyParams, sphereMode bool, seed int64) points.Buffer {
	rng := rand.New(rand.NewSource(seed))
	if sphereMode {
		synth := points.Sphere(points.SphereConfig{
			Radius:       p.Radius,
			CoreRadius:   p.Radius * 0.3,
			CoreFraction: 0.7,
			FalloffPower: 2.5,
		})
		return synth(pointCount, rng)
	}
	synth := points.Galaxy(points.GalaxyConfig{
		Radius:      p.Radius,
		Branches:    p.Branches,
		Spin:        float64(p.Spin),
		Randomness:  float64(p.Randomness),
		RandomPower: float64(p.RandomPower),
		Thickness:   float64(p.Thickness),
		Turbulence:  float64(p.Turbulence),
		Seed:        p.Seed,
	})
	return synth(pointCount, rng)
}

// drawScatter projects the cloud onto the preview square, top-down (x/z) or
// side-on (x/y).
func drawScatter(buf points.Buffer, radius float32, topDown bool) {
	if buf.Count() == 0 || radius <= 0 {
		return
	}
	scale := float32(previewSize) / (2.2 * radius)
	cx := float32(10 + previewSize/2)
	cy := float32(10 + previewSize/2)

	for i := 0; i < buf.Count(); i++ {
		x, y, z := buf.At(i)
		var px, py float32
		if topDown {
			px, py = cx+x*scale, cy+z*scale
		} else {
			px, py = cx+x*scale, cy-y*scale
		}
		if px < 10 || px > 10+previewSize || py < 10 || py > 10+previewSize {
			continue
		}
		rl.DrawPixelV(rl.Vector2{X: px, Y: py}, rl.SkyBlue)
	}
}

func yamlLines(p GalaxyParams, sphereMode bool) []string {
	if sphereMode {
		return []string{
			"background:",
			"  mode: sphere",
			fmt.Sprintf("  radius: %.1f", p.Radius),
		}
	}
	return []string{
		"background:",
		"  mode: spiral",
		fmt.Sprintf("  radius: %.1f", p.Radius),
		fmt.Sprintf("  branches: %d", p.Branches),
		fmt.Sprintf("  spin: %.2f", p.Spin),
		fmt.Sprintf("  randomness: %.2f", p.Randomness),
		fmt.Sprintf("  random_power: %.1f", p.RandomPower),
		fmt.Sprintf("  thickness: %.2f", p.Thickness),
		fmt.Sprintf("  turbulence: %.2f", p.Turbulence),
	}
}

func modeName(sphereMode bool) string {
	if sphereMode {
		return "sphere"
	}
	return "spiral"
}

func viewName(topDown bool) string {
	if topDown {
		return "top-down"
	}
	return "side-on"
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
