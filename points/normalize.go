package points

import (
	"math"
	"math/rand"
)

// NormalizeConfig tunes centering, framing and organic jitter.
type NormalizeConfig struct {
	TargetSize  float32 // max extent of the model after scaling
	Jitter      float32 // organic jitter amplitude, 0 disables
	JitterPower float64 // power-law exponent, higher keeps the core tighter
}

// Synthesizer generates count background points. Implementations are Sphere
// and Galaxy in this package.
type Synthesizer func(count int, rng *rand.Rand) Buffer

// Normalize centers and scales the first modelCount points of positions into
// the view volume, optionally applies radius-scaled organic jitter, and fills
// the remaining totalBudget-modelCount slots from the synthesizer.
//
// Model points keep indices [0, modelCount); background points occupy
// [modelCount, totalBudget). Downstream code relies on that ordering.
func Normalize(positions Buffer, modelCount, totalBudget int, cfg NormalizeConfig, synth Synthesizer, rng *rand.Rand) Buffer {
	if modelCount > positions.Count() {
		modelCount = positions.Count()
	}
	if totalBudget < modelCount {
		totalBudget = modelCount
	}

	out := NewBuffer(totalBudget)
	copy(out, positions[:modelCount*3])

	centerX, centerY, centerZ, extent := boundingBox(out, modelCount)

	// Degenerate geometry (single point, NaN extent) renders unscaled.
	scale := float32(1)
	if extent > 0 && !math.IsNaN(float64(extent)) && !math.IsInf(float64(extent), 0) {
		scale = cfg.TargetSize / extent
	}

	for i := 0; i < modelCount; i++ {
		x, y, z := out.At(i)
		out.Set(i, (x-centerX)*scale, (y-centerY)*scale, (z-centerZ)*scale)
	}

	if cfg.Jitter > 0 {
		applyJitter(out, modelCount, cfg, rng)
	}

	if totalBudget > modelCount && synth != nil {
		bg := synth(totalBudget-modelCount, rng)
		copy(out[modelCount*3:], bg)
	}

	return out
}

// boundingBox returns the box midpoint and the largest axis extent over the
// first count points. NaN coordinates are ignored so one bad vertex cannot
// poison the whole frame.
func boundingBox(b Buffer, count int) (cx, cy, cz, extent float32) {
	minX, minY, minZ := float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY, maxZ := float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))

	seen := false
	for i := 0; i < count; i++ {
		x, y, z := b.At(i)
		if isNaN32(x) || isNaN32(y) || isNaN32(z) {
			continue
		}
		seen = true
		minX, maxX = min32(minX, x), max32(maxX, x)
		minY, maxY = min32(minY, y), max32(maxY, y)
		minZ, maxZ = min32(minZ, z), max32(maxZ, z)
	}
	if !seen {
		return 0, 0, 0, 0
	}

	cx = (minX + maxX) / 2
	cy = (minY + maxY) / 2
	cz = (minZ + maxZ) / 2
	extent = max32(maxX-minX, max32(maxY-minY, maxZ-minZ))
	return cx, cy, cz, extent
}

// applyJitter perturbs each model point by a random offset whose magnitude
// grows with distance from the origin. The power-law draw keeps the core of
// the form crisp while softening the silhouette edge.
func applyJitter(b Buffer, count int, cfg NormalizeConfig, rng *rand.Rand) {
	if cfg.TargetSize <= 0 {
		return
	}
	for i := 0; i < count; i++ {
		x, y, z := b.At(i)
		r := float32(math.Sqrt(float64(x*x + y*y + z*z)))
		radial := r / cfg.TargetSize
		if radial > 1 {
			radial = 1
		}
		mag := cfg.Jitter * radial * float32(math.Pow(rng.Float64(), cfg.JitterPower))

		dx, dy, dz := randomDirection(rng)
		b.Set(i, x+dx*mag, y+dy*mag, z+dz*mag)
	}
}

// randomDirection returns a uniformly distributed unit vector.
func randomDirection(rng *rand.Rand) (x, y, z float32) {
	// Marsaglia's method on the unit sphere.
	for {
		a := rng.Float64()*2 - 1
		b := rng.Float64()*2 - 1
		s := a*a + b*b
		if s >= 1 {
			continue
		}
		f := 2 * math.Sqrt(1-s)
		return float32(a * f), float32(b * f), float32(1 - 2*s)
	}
}

func isNaN32(f float32) bool { return f != f }

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
