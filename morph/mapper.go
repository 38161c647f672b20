// Package morph maps a continuous scroll coordinate onto shape selection and
// blend state, and integrates the live particle buffer toward its goal every
// tick.
package morph

import "math"

// Position is the derived morph state for a scroll coordinate.
type Position struct {
	SafeIndex int     // active shape index, wrapped into [0, shapeCount)
	Blend     float64 // 0 = pure shape, 1 = pure chaos
}

// MapPosition maps an unbounded signed scroll coordinate to the nearest shape
// index and the raw blend factor toward chaos.
//
// Scrolling wraps in both directions: position -0.5 and shapeCount-0.5 map
// identically. Blend is 0 exactly on an integer position and 1 exactly on a
// half-integer midpoint.
func MapPosition(scroll float64, shapeCount int) Position {
	if shapeCount < 1 {
		return Position{}
	}
	n := float64(shapeCount)

	norm := math.Mod(scroll, n)
	if norm < 0 {
		norm += n
	}

	// Round half-up; norm == n-0.5 rounds to n and wraps back to 0.
	active := math.Floor(norm + 0.5)
	safe := int(active) % shapeCount

	dist := math.Abs(norm - active)
	return Position{SafeIndex: safe, Blend: dist * 2}
}

// ShapeBlend applies the configured dead zone and transition curve to a raw
// blend factor. Blends below deadZone read as a fully formed shape; curve > 1
// makes the transition linger near the shape and accelerate away from it.
func ShapeBlend(blend, deadZone, curve float64) float64 {
	if blend < deadZone {
		return 0
	}
	if curve > 1 {
		blend = math.Pow(blend, curve)
	}
	if blend > 1 {
		return 1
	}
	return blend
}

// JumpTarget returns the scroll position nearest to scroll that lands exactly
// on shape index target. The accumulated wrap count is preserved: jumping
// never resets to the raw index, so the cloud crosses at most half a loop.
func JumpTarget(scroll float64, target, shapeCount int) float64 {
	if shapeCount < 1 {
		return scroll
	}
	k := float64(((target % shapeCount) + shapeCount) % shapeCount)
	n := float64(shapeCount)
	cycles := math.Round((scroll - k) / n)
	return k + cycles*n
}
