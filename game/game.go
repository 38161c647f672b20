// Package game wires the morphing engine together: asset loading, scroll
// input, the per-frame integrator, and the rendering collaborator.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/nebulaforge/nebula/assets"
	"github.com/nebulaforge/nebula/config"
	"github.com/nebulaforge/nebula/morph"
	"github.com/nebulaforge/nebula/points"
	"github.com/nebulaforge/nebula/renderer"
	"github.com/nebulaforge/nebula/telemetry"
)

// Options configures game startup.
type Options struct {
	Seed      int64
	Headless  bool
	OutputDir string
	Source    assets.Source // overrides the file source when non-nil (tests)
}

// Game owns the engine state for one session.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	cache      *assets.Cache
	integrator *morph.Integrator
	cloud      *renderer.Cloud

	// Scroll state. scroll is unbounded and signed; the mapper wraps it.
	scroll     float64
	shapeCount int
	lastIndex  int
	tween      *gween.Tween

	baseColor colorful.Color
	paused    bool
	tick      int

	// Active background synthesizer. Load goroutines read it in buildShape
	// while the panel can swap it, so access goes through the mutex.
	synthMu sync.Mutex
	synth   points.Synthesizer

	perf   *telemetry.PerfCollector
	loads  *telemetry.LoadTracker
	output *telemetry.OutputManager

	frame    morph.Frame
	loadSeed atomic.Int64
}

// NewGameWithOptions creates a game from the global config and the given options.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	rng := rand.New(rand.NewSource(opts.Seed))
	budget := cfg.Particles.Budget

	// Session-lifetime buffers: the chaos scatter and the loading placeholder.
	synth := backgroundSynth(cfg)
	chaos := points.Chaos(budget, float32(cfg.Particles.ChaosRadius), rng)
	placeholder := synth(budget, rng)

	base, err := colorful.Hex(cfg.Color.Base)
	if err != nil {
		Logf("invalid base color %q, falling back to white: %v", cfg.Color.Base, err)
		base = colorful.Color{R: 1, G: 1, B: 1}
	}

	g := &Game{
		cfg:        cfg,
		rng:        rng,
		shapeCount: cfg.Derived.ShapeCount,
		lastIndex:  -1,
		baseColor:  base,
		synth:      synth,
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		loads:      telemetry.NewLoadTracker(),
	}
	g.loadSeed.Store(opts.Seed)
	if !opts.Headless {
		g.cloud = renderer.NewCloud()
	}

	g.integrator = morph.NewIntegrator(morph.Config{
		EasingRate:   cfg.Derived.Easing32,
		BlendCurve:   cfg.Morph.BlendCurve,
		DeadZone:     cfg.Morph.DeadZone,
		OscAmplitude: float32(cfg.Morph.Oscillation.Amplitude),
		OscSpeed:     cfg.Morph.Oscillation.Speed,
		OscThreshold: cfg.Morph.Oscillation.Threshold,
	}, chaos, placeholder, g.newPalette(base))

	source := opts.Source
	if source == nil {
		source = &assets.FileSource{Root: cfg.Assets.Root}
	}
	g.cache = assets.NewCache(source, g.buildShape)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("telemetry output disabled", "error", err)
		} else {
			g.output = om
		}
	}

	// Kick off the first shape; the cloud eases out of the placeholder once
	// it resolves.
	if g.shapeCount > 0 {
		g.requestShape(0)
		g.lastIndex = 0
	}

	return g
}

// buildShape is the cache's build pipeline: resample raw vertices to the
// model budget, then normalize and append the synthesized background. Runs on
// load goroutines, so it gets its own seeded generator.
func (g *Game) buildShape(raw assets.RawVertices) (points.Buffer, error) {
	cfg := g.cfg
	budget := cfg.Particles.Budget
	modelBudget := int(float64(budget) * cfg.Particles.ModelFraction)
	if modelBudget < 1 {
		modelBudget = 1
	}

	loadRNG := rand.New(rand.NewSource(g.loadSeed.Add(1)))

	buf, err := points.Resample(raw.Positions, raw.Count, modelBudget, loadRNG)
	if err != nil {
		return nil, err
	}

	g.synthMu.Lock()
	synth := g.synth
	g.synthMu.Unlock()

	normCfg := points.NormalizeConfig{
		TargetSize:  float32(cfg.Particles.TargetSize),
		Jitter:      float32(cfg.Particles.Jitter),
		JitterPower: cfg.Particles.JitterPower,
	}
	return points.Normalize(buf, modelBudget, budget, normCfg, synth, loadRNG), nil
}

// backgroundSynth builds the configured background synthesizer.
func backgroundSynth(cfg *config.Config) points.Synthesizer {
	bg := cfg.Background
	if bg.Mode == "sphere" {
		return points.Sphere(points.SphereConfig{
			Radius:       float32(bg.Radius),
			CoreRadius:   float32(bg.CoreRadius),
			CoreFraction: bg.CoreFraction,
			FalloffPower: bg.FalloffPower,
		})
	}
	return points.Galaxy(points.GalaxyConfig{
		Radius:      float32(bg.Radius),
		Branches:    bg.Branches,
		Spin:        bg.Spin,
		Randomness:  bg.Randomness,
		RandomPower: bg.RandomPower,
		Thickness:   bg.Thickness,
		Turbulence:  bg.Turbulence,
		Seed:        42,
	})
}

// newPalette builds the configured color policy around the given base color.
func (g *Game) newPalette(base colorful.Color) morph.Palette {
	if g.cfg.Color.Policy == "radial-gradient" {
		return morph.NewRadialPalette(base, g.cfg.Color.GradientRadius)
	}
	return morph.NewStochasticPalette(base, rand.New(rand.NewSource(g.rng.Int63())))
}

// requestShape starts an async load for shape index. The integrator eases
// toward the placeholder until the load resolves; a failed load stays in that
// state and is surfaced through the load tracker, and the tick loop keeps
// running either way.
func (g *Game) requestShape(index int) {
	key := g.cfg.Assets.Shapes[index]
	gen := g.integrator.NextGeneration()
	g.integrator.SetLoading(true)

	go func() {
		start := time.Now()
		buf, err := g.cache.GetOrLoad(context.Background(), key)
		g.loads.Record(key, time.Since(start), err)
		if err != nil {
			return
		}
		if !g.integrator.DeliverShape(gen, buf) {
			slog.Debug("discarded superseded shape", "key", key, "generation", gen)
		}
	}()
}

// SetBaseColor reparses and applies a base color.
func (g *Game) SetBaseColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("parsing base color %q: %w", hex, err)
	}
	g.baseColor = c
	g.integrator.SetBaseColor(c)
	return nil
}

// JumpToShape tweens the scroll position onto shape index, preserving the
// accumulated wrap count so the cloud never spins across whole loops.
func (g *Game) JumpToShape(index int) {
	if index < 0 || index >= g.shapeCount {
		return
	}
	target := morph.JumpTarget(g.scroll, index, g.shapeCount)
	g.tween = gween.New(float32(g.scroll), float32(target), float32(g.cfg.Morph.JumpSeconds), ease.OutQuad)
}

// step advances scroll state and the integrator by dt seconds.
func (g *Game) step(dt float64) {
	if g.tween != nil {
		v, done := g.tween.Update(float32(dt))
		g.scroll = float64(v)
		if done {
			g.tween = nil
		}
	}

	if g.shapeCount > 0 {
		pos := morph.MapPosition(g.scroll, g.shapeCount)
		if pos.SafeIndex != g.lastIndex {
			g.requestShape(pos.SafeIndex)
			g.lastIndex = pos.SafeIndex
		}
		g.integrator.SetBlend(pos.Blend)
	}

	g.perf.StartPhase(telemetry.PhaseIntegrate)
	g.frame = g.integrator.Tick(dt)
	g.tick++
}

// Update runs one windowed-mode tick: input, scroll, integration. The
// matching Draw call ends the perf sample.
func (g *Game) Update() {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	if g.paused {
		return
	}

	g.step(frameDT(g.cfg))
	g.maybeLogPerf()
}

// UpdateHeadless runs one tick without any raylib dependency.
func (g *Game) UpdateHeadless() {
	g.perf.StartTick()
	g.step(frameDT(g.cfg))
	g.perf.EndTick()
	g.maybeLogPerf()
}

// frameDT is the fixed tick duration derived from the configured refresh rate.
func frameDT(cfg *config.Config) float64 {
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	return 1.0 / float64(fps)
}

// Frame returns the most recent frame hand-off.
func (g *Game) Frame() morph.Frame { return g.frame }

// State returns the integrator's animation state.
func (g *Game) State() morph.State { return g.integrator.State() }

// Tick returns the tick counter.
func (g *Game) Tick() int { return g.tick }

// Scroll returns the current scroll position.
func (g *Game) Scroll() float64 { return g.scroll }

// maybeLogPerf emits a perf summary and CSV rows on the configured cadence.
func (g *Game) maybeLogPerf() {
	interval := g.cfg.Telemetry.LogInterval
	if interval <= 0 || g.tick%interval != 0 {
		return
	}
	stats := g.perf.Stats()
	stats.LogStats()
	if g.output != nil {
		if err := g.output.WriteFrameStats(g.tick, stats); err != nil {
			slog.Error("writing frame stats", "error", err)
		}
	}
}

// Unload flushes telemetry and releases resources.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.WriteLoads(g.loads.Records()); err != nil {
			slog.Error("writing load records", "error", err)
		}
		if err := g.output.Close(); err != nil {
			slog.Error("closing telemetry output", "error", err)
		}
	}
}
