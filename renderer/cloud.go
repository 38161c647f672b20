// Package renderer draws the particle cloud. It is the engine's rendering
// collaborator: it reads the per-frame buffers and never mutates them.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nebulaforge/nebula/morph"
)

// Cloud renders the morphing particle cloud around the origin.
type Cloud struct {
	camera rl.Camera3D
	angle  float32 // orbit angle in radians
	height float32
	dist   float32
}

// NewCloud creates a renderer with a default orbit camera.
func NewCloud() *Cloud {
	c := &Cloud{
		angle:  0.6,
		height: 7,
		dist:   26,
	}
	c.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: c.height, Z: c.dist},
		Target:     rl.Vector3{X: 0, Y: 0, Z: 0},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       55,
		Projection: rl.CameraPerspective,
	}
	return c
}

// Orbit advances the camera around the cloud and applies zoom/height deltas.
func (c *Cloud) Orbit(dAngle, dHeight, dDist float32) {
	c.angle += dAngle
	c.height += dHeight
	c.dist += dDist
	if c.dist < 4 {
		c.dist = 4
	}
	if c.dist > 80 {
		c.dist = 80
	}
}

// Update drifts the orbit slowly and repositions the camera for this frame.
func (c *Cloud) Update(dt float32) {
	c.angle += dt * 0.05
	sin, cos := math.Sincos(float64(c.angle))
	c.camera.Position = rl.Vector3{
		X: c.dist * float32(sin),
		Y: c.height,
		Z: c.dist * float32(cos),
	}
}

// Draw renders one frame of the cloud. The frame buffers are read-only here.
func (c *Cloud) Draw(frame morph.Frame) {
	rl.BeginMode3D(c.camera)
	for i := 0; i < frame.Count; i++ {
		x, y, z := frame.Positions.At(i)
		col := rl.Color{
			R: uint8(frame.Colors[i*3] * 255),
			G: uint8(frame.Colors[i*3+1] * 255),
			B: uint8(frame.Colors[i*3+2] * 255),
			A: 255,
		}
		rl.DrawPoint3D(rl.Vector3{X: x, Y: y, Z: z}, col)
	}
	rl.EndMode3D()
}
