package points

import (
	"math"
	"math/rand"
	"testing"
)

func TestSphereWithinRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cfg := SphereConfig{Radius: 14, CoreRadius: 6, CoreFraction: 0.7, FalloffPower: 2.5}

	out := Sphere(cfg)(5000, rng)
	if out.Count() != 5000 {
		t.Fatalf("count = %d, want 5000", out.Count())
	}

	inCore := 0
	for i := 0; i < out.Count(); i++ {
		x, y, z := out.At(i)
		r := math.Sqrt(float64(x*x + y*y + z*z))
		if r > 14+epsilon {
			t.Fatalf("point %d radius %v exceeds bound", i, r)
		}
		if r <= 6 {
			inCore++
		}
	}

	// CoreFraction of the points sample the uniform core.
	frac := float64(inCore) / float64(out.Count())
	if frac < 0.65 || frac > 0.78 {
		t.Errorf("core fraction = %v, want ~0.7", frac)
	}
}

func TestGalaxyWithinRadius(t *testing.T) {
	tests := []struct {
		name string
		cfg  GalaxyConfig
	}{
		{"plain arms", GalaxyConfig{Radius: 14, Branches: 4, Spin: 0.22, Randomness: 0.25, RandomPower: 3, Thickness: 0.35}},
		{"turbulent arms", GalaxyConfig{Radius: 14, Branches: 3, Spin: 0.3, Randomness: 0.3, RandomPower: 2, Thickness: 0.4, Turbulence: 0.6, Seed: 42}},
		{"degenerate branch count", GalaxyConfig{Radius: 10, Branches: 0, Spin: 0.1, Randomness: 0.2, RandomPower: 3, Thickness: 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(13))
			out := Galaxy(tt.cfg)(2000, rng)
			if out.Count() != 2000 {
				t.Fatalf("count = %d, want 2000", out.Count())
			}
			for i := 0; i < out.Count(); i++ {
				x, y, z := out.At(i)
				r := math.Sqrt(float64(x*x + y*y + z*z))
				if r > float64(tt.cfg.Radius)+epsilon {
					t.Fatalf("point %d radius %v exceeds bound %v", i, r, tt.cfg.Radius)
				}
			}
		})
	}
}

func TestGalaxyFlattened(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	cfg := GalaxyConfig{Radius: 14, Branches: 4, Spin: 0.22, Randomness: 0.25, RandomPower: 3, Thickness: 0.35}

	out := Galaxy(cfg)(2000, rng)

	// The disc should be much wider than it is tall.
	var sumY, sumXZ float64
	for i := 0; i < out.Count(); i++ {
		x, y, z := out.At(i)
		sumY += math.Abs(float64(y))
		sumXZ += math.Sqrt(float64(x*x + z*z))
	}
	if sumY*4 > sumXZ {
		t.Errorf("distribution is not flattened: mean |y| %v vs mean planar radius %v", sumY/2000, sumXZ/2000)
	}
}

func TestChaosBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	out := Chaos(1000, 12, rng)

	if out.Count() != 1000 {
		t.Fatalf("count = %d, want 1000", out.Count())
	}
	for i, v := range out {
		if v < -12 || v > 12 {
			t.Fatalf("component %d = %v outside [-12, 12]", i, v)
		}
	}
}
