package points

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// SphereConfig tunes the two-region sphere distribution.
type SphereConfig struct {
	Radius       float32 // outer bound of the whole distribution
	CoreRadius   float32 // uniform-density core radius
	CoreFraction float64 // fraction of points placed in the core
	FalloffPower float64 // shell exponent; higher concentrates near the core
}

// Sphere returns a synthesizer producing a bounded sphere with a
// uniform-density core and a sparser falloff shell beyond it.
func Sphere(cfg SphereConfig) Synthesizer {
	core := cfg.CoreRadius
	if core <= 0 || core > cfg.Radius {
		core = cfg.Radius / 2
	}
	return func(count int, rng *rand.Rand) Buffer {
		out := NewBuffer(count)
		for i := 0; i < count; i++ {
			var r float32
			if rng.Float64() < cfg.CoreFraction {
				// Cube-root radius sampling gives uniform volume density.
				r = core * float32(math.Cbrt(rng.Float64()))
			} else {
				r = core + (cfg.Radius-core)*float32(math.Pow(rng.Float64(), cfg.FalloffPower))
			}
			x, y, z := randomDirection(rng)
			out.Set(i, x*r, y*r, z*r)
		}
		return out
	}
}

// GalaxyConfig tunes the logarithmic spiral distribution.
type GalaxyConfig struct {
	Radius      float32 // outer bound of the whole distribution
	Branches    int     // spiral arm count
	Spin        float64 // radians of twist per unit radius
	Randomness  float64 // arm scatter amplitude, scaled by distance
	RandomPower float64 // scatter power curve; higher hugs the arms
	Thickness   float64 // vertical scatter factor relative to planar scatter
	Turbulence  float64 // simplex displacement amplitude, 0 disables
	Seed        int64   // turbulence noise seed
}

// turbulenceScale is the spatial frequency of the arm turbulence field.
const turbulenceScale = 0.35

// Galaxy returns a synthesizer producing a spiral-galaxy distribution:
// points seeded along evenly spaced arms, twisted by distance, scattered by a
// power-law draw, and optionally displaced by a coherent simplex field so the
// arms wisp instead of reading as clean curves.
func Galaxy(cfg GalaxyConfig) Synthesizer {
	branches := cfg.Branches
	if branches < 1 {
		branches = 1
	}
	var noise opensimplex.Noise
	if cfg.Turbulence > 0 {
		noise = opensimplex.New(cfg.Seed)
	}
	return func(count int, rng *rand.Rand) Buffer {
		out := NewBuffer(count)
		radius := float64(cfg.Radius)
		for i := 0; i < count; i++ {
			dist := rng.Float64() * radius
			branchAngle := float64(i%branches) / float64(branches) * 2 * math.Pi
			spinAngle := dist * cfg.Spin

			scatter := cfg.Randomness * dist
			rx := armScatter(rng, cfg.RandomPower) * scatter
			ry := armScatter(rng, cfg.RandomPower) * scatter * cfg.Thickness
			rz := armScatter(rng, cfg.RandomPower) * scatter

			x := math.Cos(branchAngle+spinAngle)*dist + rx
			y := ry
			z := math.Sin(branchAngle+spinAngle)*dist + rz

			if noise != nil {
				x += cfg.Turbulence * noise.Eval3(x*turbulenceScale, y*turbulenceScale, z*turbulenceScale)
				y += cfg.Turbulence * noise.Eval3(y*turbulenceScale, z*turbulenceScale, x*turbulenceScale)
				z += cfg.Turbulence * noise.Eval3(z*turbulenceScale, x*turbulenceScale, y*turbulenceScale)
			}

			// Scatter and turbulence can push past the bound; fold back in.
			if l := math.Sqrt(x*x + y*y + z*z); l > radius && l > 0 {
				f := radius / l
				x, y, z = x*f, y*f, z*f
			}

			out.Set(i, float32(x), float32(y), float32(z))
		}
		return out
	}
}

// armScatter draws a signed power-law sample in [-1, 1]. Power > 1 biases
// toward zero, keeping most points tight on the arm.
func armScatter(rng *rand.Rand, power float64) float64 {
	s := math.Pow(rng.Float64(), power)
	if rng.Float64() < 0.5 {
		return -s
	}
	return s
}
