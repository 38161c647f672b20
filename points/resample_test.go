package points

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// makeSource builds a deterministic source cloud of n points.
func makeSource(n int) []float32 {
	src := make([]float32, n*3)
	for i := 0; i < n; i++ {
		src[i*3] = float32(i)
		src[i*3+1] = float32(i) * 2
		src[i*3+2] = float32(i) * -1
	}
	return src
}

func TestResampleIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	src := makeSource(100)

	out, err := Resample(src, 100, 100, rng)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != len(src) {
		t.Fatalf("length = %d, want %d", len(out), len(src))
	}
	for i := range src {
		if out[i] != src[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], src[i])
		}
	}
}

func TestResampleTruncatesOverlongSource(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	src := makeSource(10)

	// Declared count matches target; trailing floats must be ignored.
	out, err := Resample(src, 8, 8, rng)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if out.Count() != 8 {
		t.Fatalf("count = %d, want 8", out.Count())
	}
}

func TestResampleDownsample(t *testing.T) {
	tests := []struct {
		name        string
		sourceCount int
		targetCount int
	}{
		{"2x reduction", 200, 100},
		{"uneven reduction", 333, 100},
		{"large reduction", 5000, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			src := makeSource(tt.sourceCount)

			out, err := Resample(src, tt.sourceCount, tt.targetCount, rng)
			if err != nil {
				t.Fatalf("Resample returned error: %v", err)
			}
			if out.Count() != tt.targetCount {
				t.Fatalf("count = %d, want %d", out.Count(), tt.targetCount)
			}

			// Every output point must be an exact copy of a source point, with
			// x encoding the source index by construction.
			for i := 0; i < out.Count(); i++ {
				x, y, z := out.At(i)
				j := int(x)
				if j < 0 || j >= tt.sourceCount {
					t.Fatalf("point %d sampled index %d outside [0,%d)", i, j, tt.sourceCount)
				}
				if y != float32(j)*2 || z != float32(j)*-1 {
					t.Fatalf("point %d = (%v,%v,%v) is not a source point", i, x, y, z)
				}
				want := i * tt.sourceCount / tt.targetCount
				if j != want {
					t.Errorf("point %d sampled index %d, want %d", i, j, want)
				}
			}
		})
	}
}

func TestResampleUpsample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const sourceCount, targetCount = 10, 95
	src := makeSource(sourceCount)

	out, err := Resample(src, sourceCount, targetCount, rng)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if out.Count() != targetCount {
		t.Fatalf("count = %d, want %d", out.Count(), targetCount)
	}

	// Each output point must sit within the jitter bound of its base point.
	for i := 0; i < targetCount; i++ {
		j := i % sourceCount
		x, y, z := out.At(i)
		if d := math.Abs(float64(x - src[j*3])); d > upsampleJitter {
			t.Errorf("point %d x offset %v exceeds jitter bound", i, d)
		}
		if d := math.Abs(float64(y - src[j*3+1])); d > upsampleJitter {
			t.Errorf("point %d y offset %v exceeds jitter bound", i, d)
		}
		if d := math.Abs(float64(z - src[j*3+2])); d > upsampleJitter {
			t.Errorf("point %d z offset %v exceeds jitter bound", i, d)
		}
	}
}

func TestResampleEmptySource(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Resample(nil, 0, 100, rng)
	if !errors.Is(err, ErrNoGeometry) {
		t.Fatalf("err = %v, want ErrNoGeometry", err)
	}
}
