package points

import (
	"errors"
	"math/rand"
)

// ErrNoGeometry is returned when a source buffer declares zero vertices.
var ErrNoGeometry = errors.New("points: source geometry has no vertices")

// upsampleJitter is the per-axis offset range applied to repeated points so
// duplicates never land exactly on top of each other.
const upsampleJitter = 0.05

// Resample normalizes an arbitrary vertex count to exactly targetCount points.
//
// Equal counts copy straight through (extra floats beyond the declared count
// are truncated). Downsampling picks evenly strided source indices with no
// interpolation. Upsampling repeats source points round-robin and perturbs
// each repeat by a small random offset.
func Resample(src []float32, sourceCount, targetCount int, rng *rand.Rand) (Buffer, error) {
	if sourceCount <= 0 {
		return nil, ErrNoGeometry
	}
	if len(src) < sourceCount*3 {
		sourceCount = len(src) / 3
		if sourceCount == 0 {
			return nil, ErrNoGeometry
		}
	}

	out := NewBuffer(targetCount)

	switch {
	case sourceCount == targetCount:
		copy(out, src[:targetCount*3])

	case sourceCount > targetCount:
		for i := 0; i < targetCount; i++ {
			j := i * sourceCount / targetCount
			out[i*3] = src[j*3]
			out[i*3+1] = src[j*3+1]
			out[i*3+2] = src[j*3+2]
		}

	default: // sourceCount < targetCount
		for i := 0; i < targetCount; i++ {
			j := i % sourceCount
			out[i*3] = src[j*3] + jitterOffset(rng)
			out[i*3+1] = src[j*3+1] + jitterOffset(rng)
			out[i*3+2] = src[j*3+2] + jitterOffset(rng)
		}
	}

	return out, nil
}

// jitterOffset draws a uniform offset in [-upsampleJitter, upsampleJitter].
func jitterOffset(rng *rand.Rand) float32 {
	return (rng.Float32()*2 - 1) * upsampleJitter
}
