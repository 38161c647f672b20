package morph

import (
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/nebulaforge/nebula/points"
)

// State is the integrator's animation state.
type State int

const (
	// StateLoading means no shape target is resolved; the live buffer eases
	// toward the synthesized placeholder distribution.
	StateLoading State = iota
	// StateActive means shape and chaos targets are both available.
	StateActive
)

// Config holds the per-tick integration parameters.
type Config struct {
	EasingRate   float32 // fraction of remaining distance closed per tick
	BlendCurve   float64 // exponent applied to the raw blend factor
	DeadZone     float64 // raw blends below this read as fully formed
	OscAmplitude float32 // goal displacement in the chaotic state
	OscSpeed     float64 // oscillation angular speed, radians per second
	OscThreshold float64 // curved blend above which oscillation applies
}

// Frame is the per-tick hand-off to the rendering collaborator. Both buffers
// are owned by the integrator and valid to read until the next Tick; the
// renderer must not mutate or retain them.
type Frame struct {
	Positions points.Buffer
	Colors    []float32
	Count     int
}

// Integrator owns the live particle buffer and eases it toward a blended
// goal position every tick.
//
// All fields except the delivery mailbox are confined to the tick goroutine.
// Shape loads complete on arbitrary goroutines and hand their result to
// DeliverShape; the result is picked up at the start of the next Tick. A
// generation counter discards results that a newer request has superseded.
type Integrator struct {
	cfg     Config
	palette Palette

	live        points.Buffer
	colors      []float32
	chaos       points.Buffer
	placeholder points.Buffer
	shape       points.Buffer

	state       State
	blend       float64
	elapsed     float64
	colorsDirty bool

	mu      sync.Mutex
	latest  uint64
	pending *delivery
}

type delivery struct {
	gen uint64
	buf points.Buffer
}

// NewIntegrator creates an integrator in the Loading state. chaos and
// placeholder must both hold the full particle budget; they are retained and
// read for the session's duration.
func NewIntegrator(cfg Config, chaos, placeholder points.Buffer, palette Palette) *Integrator {
	count := chaos.Count()
	return &Integrator{
		cfg:         cfg,
		palette:     palette,
		live:        points.NewBuffer(count),
		colors:      make([]float32, count*3),
		chaos:       chaos,
		placeholder: placeholder,
		state:       StateLoading,
		colorsDirty: true,
	}
}

// State returns the current animation state.
func (in *Integrator) State() State { return in.state }

// Config returns the current integration parameters.
func (in *Integrator) Config() Config { return in.cfg }

// Configure replaces the integration parameters. Tick-goroutine only.
func (in *Integrator) Configure(cfg Config) { in.cfg = cfg }

// SetBlend sets the raw blend factor for subsequent ticks.
func (in *Integrator) SetBlend(blend float64) { in.blend = blend }

// SetLoading forces the Loading placeholder goal, used while a new shape
// request is in flight and the caller wants the cloud to disassemble.
func (in *Integrator) SetLoading(loading bool) {
	if loading {
		in.state = StateLoading
	} else if in.shape != nil {
		in.state = StateActive
	}
}

// SetPlaceholder replaces the loading-state goal distribution. Buffers that
// do not match the particle budget are ignored. Tick-goroutine only.
func (in *Integrator) SetPlaceholder(buf points.Buffer) {
	if buf.Count() == in.live.Count() {
		in.placeholder = buf
	}
}

// SetBaseColor rebases the active palette and schedules a color refill.
func (in *Integrator) SetBaseColor(c colorful.Color) {
	in.palette.SetBase(c)
	in.colorsDirty = true
}

// SetPalette swaps the color policy and schedules a color refill.
func (in *Integrator) SetPalette(p Palette) {
	in.palette = p
	in.colorsDirty = true
}

// NextGeneration issues a new load generation. Any result delivered for an
// earlier generation is discarded, so out-of-order completions cannot
// overwrite a newer request.
func (in *Integrator) NextGeneration() uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.latest++
	// A newly issued generation supersedes anything still undelivered.
	in.pending = nil
	return in.latest
}

// DeliverShape hands a resolved shape buffer to the integrator. It reports
// whether the result was accepted; stale generations are dropped. Safe to
// call from any goroutine.
func (in *Integrator) DeliverShape(gen uint64, buf points.Buffer) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if gen != in.latest {
		return false
	}
	in.pending = &delivery{gen: gen, buf: buf}
	return true
}

// Tick advances the animation by dt seconds and returns the frame to render.
// It is total: no input can make it fail mid-animation.
func (in *Integrator) Tick(dt float64) Frame {
	in.consumePending()
	in.elapsed += dt

	curved := ShapeBlend(in.blend, in.cfg.DeadZone, in.cfg.BlendCurve)
	count := in.live.Count()

	shapeReady := in.state == StateActive && in.shape.Count() == count
	oscillate := shapeReady && curved > in.cfg.OscThreshold
	blend32 := float32(curved)
	rate := in.cfg.EasingRate

	for i := 0; i < count; i++ {
		var gx, gy, gz float32
		if shapeReady {
			sx, sy, sz := in.shape.At(i)
			cx, cy, cz := in.chaos.At(i)
			gx = sx + (cx-sx)*blend32
			gy = sy + (cy-sy)*blend32
			gz = sz + (cz-sz)*blend32
		} else {
			gx, gy, gz = in.placeholder.At(i)
		}

		if oscillate {
			phase := in.elapsed*in.cfg.OscSpeed + float64(i)*0.37
			gx += in.cfg.OscAmplitude * float32(math.Sin(phase))
			gy += in.cfg.OscAmplitude * float32(math.Cos(phase*1.1))
			gz += in.cfg.OscAmplitude * float32(math.Sin(phase*0.9+1.7))
		}

		x, y, z := in.live.At(i)
		in.live.Set(i, x+(gx-x)*rate, y+(gy-y)*rate, z+(gz-z)*rate)
	}

	if in.colorsDirty || in.palette.Dynamic() {
		in.palette.Fill(in.colors, in.live)
		in.colorsDirty = false
	}

	return Frame{Positions: in.live, Colors: in.colors, Count: count}
}

// consumePending installs a delivered shape buffer, if any, and activates.
func (in *Integrator) consumePending() {
	in.mu.Lock()
	d := in.pending
	in.pending = nil
	in.mu.Unlock()

	if d == nil {
		return
	}
	in.shape = d.buf
	in.state = StateActive
}
