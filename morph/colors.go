package morph

import (
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/nebulaforge/nebula/points"
)

// Palette assigns per-particle colors from a base color.
//
// Dynamic palettes depend on live particle positions and must be refilled
// every frame the live buffer moves; static palettes are refilled only when
// the base color changes.
type Palette interface {
	Dynamic() bool
	SetBase(c colorful.Color)
	// Fill writes one RGB triple in [0,1] per particle into dst, which is
	// index-aligned with positions.
	Fill(dst []float32, positions points.Buffer)
}

// Stochastic bucket weights: most particles stay near the base color, a
// minority become brighter hue-shifted stars, accents, and rare rainbow
// outliers.
const (
	bucketBase    = 0.60
	bucketStars   = 0.85
	bucketAccents = 0.95
)

// StochasticPalette perturbs hue/saturation/lightness per particle from a
// small set of weighted buckets. Output is independent of particle positions.
type StochasticPalette struct {
	base colorful.Color
	rng  *rand.Rand
}

// NewStochasticPalette creates the bucket-variation palette.
func NewStochasticPalette(base colorful.Color, rng *rand.Rand) *StochasticPalette {
	return &StochasticPalette{base: base, rng: rng}
}

func (p *StochasticPalette) Dynamic() bool            { return false }
func (p *StochasticPalette) SetBase(c colorful.Color) { p.base = c }

func (p *StochasticPalette) Fill(dst []float32, positions points.Buffer) {
	h, s, l := p.base.Hsl()
	count := len(dst) / 3

	for i := 0; i < count; i++ {
		var c colorful.Color
		switch u := p.rng.Float64(); {
		case u < bucketBase:
			// Near-base brightness variation.
			c = hsl(h, s, l+p.spread(0.15))
		case u < bucketStars:
			// Brighter hue-shifted stars.
			c = hsl(h+p.spread(20), clamp01(s+0.1), clamp01(l+0.15+p.rng.Float64()*0.2))
		case u < bucketAccents:
			// Larger hue-shift accents.
			c = hsl(h+p.spread(60), s, l+p.spread(0.2))
		default:
			// Very bright rainbow outliers.
			c = hsl(p.rng.Float64()*360, 0.8+p.rng.Float64()*0.2, 0.7+p.rng.Float64()*0.2)
		}
		writeColor(dst, i, c)
	}
}

// spread draws a uniform value in [-max, max].
func (p *StochasticPalette) spread(max float64) float64 {
	return (p.rng.Float64()*2 - 1) * max
}

// Reference inside/outside pair the radial gradient was tuned against. The
// hue offset between them is applied to whatever base color is active.
var (
	radialRefInside  = mustHex("#ff6030")
	radialRefOutside = mustHex("#1b3984")
)

// RadialPalette mixes an inside color toward a derived outside color by each
// particle's normalized distance from the origin. Distances change while the
// cloud morphs, so this palette is dynamic.
type RadialPalette struct {
	inside  colorful.Color
	outside colorful.Color
	radius  float64
}

// NewRadialPalette creates the distance-gradient palette. radius is the
// distance at which the outside color fully takes over.
func NewRadialPalette(base colorful.Color, radius float64) *RadialPalette {
	p := &RadialPalette{radius: radius}
	p.SetBase(base)
	return p
}

func (p *RadialPalette) Dynamic() bool { return true }

func (p *RadialPalette) SetBase(c colorful.Color) {
	hi, _, _ := radialRefInside.Hsl()
	ho, so, lo := radialRefOutside.Hsl()
	hb, _, _ := c.Hsl()

	p.inside = c
	p.outside = hsl(hb+(ho-hi), so, lo)
}

func (p *RadialPalette) Fill(dst []float32, positions points.Buffer) {
	count := len(dst) / 3
	if count > positions.Count() {
		count = positions.Count()
	}

	for i := 0; i < count; i++ {
		x, y, z := positions.At(i)
		d := math.Sqrt(float64(x*x+y*y+z*z)) / p.radius
		if d > 1 {
			d = 1
		}
		writeColor(dst, i, p.inside.BlendRgb(p.outside, d))
	}
}

func writeColor(dst []float32, i int, c colorful.Color) {
	c = c.Clamped()
	dst[i*3] = float32(c.R)
	dst[i*3+1] = float32(c.G)
	dst[i*3+2] = float32(c.B)
}

// hsl wraps colorful.Hsl with hue wraparound and lightness clamping.
func hsl(h, s, l float64) colorful.Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, clamp01(s), clamp01(l))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
