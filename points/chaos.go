package points

import "math/rand"

// Chaos generates the scattered end state of a morph: count points uniformly
// distributed in a cube of the given half-extent. Generated once per session
// and shared read-only.
func Chaos(count int, radius float32, rng *rand.Rand) Buffer {
	out := NewBuffer(count)
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * radius
	}
	return out
}
