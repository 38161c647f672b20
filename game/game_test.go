package game

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nebulaforge/nebula/assets"
	"github.com/nebulaforge/nebula/config"
	"github.com/nebulaforge/nebula/morph"
)

// stubSource serves a small synthetic cloud, or fails on demand. With block
// set, every call after the first waits for the channel to close.
type stubSource struct {
	calls   atomic.Int32
	failing bool
	block   chan struct{}
}

func (s *stubSource) LoadRawVertices(ctx context.Context, key string) (assets.RawVertices, error) {
	n := s.calls.Add(1)
	if s.failing {
		return assets.RawVertices{}, assets.ErrNotFound
	}
	if s.block != nil && n > 1 {
		<-s.block
	}
	const n = 64
	positions := make([]float32, n*3)
	for i := 0; i < n; i++ {
		positions[i*3] = float32(i % 4)
		positions[i*3+1] = float32(i % 8)
		positions[i*3+2] = float32(i % 2)
	}
	return assets.RawVertices{Positions: positions, Count: n}, nil
}

// testGame builds a game over the embedded defaults with a small budget.
func testGame(t *testing.T, src assets.Source) *Game {
	t.Helper()
	config.MustInit("")
	cfg := config.Cfg()
	cfg.Particles.Budget = 1500
	cfg.Derived.ShapeCount = len(cfg.Assets.Shapes)

	return NewGameWithOptions(Options{Seed: 7, Headless: true, Source: src})
}

func TestGameActivatesOnFirstLoad(t *testing.T) {
	src := &stubSource{}
	g := testGame(t, src)
	defer g.Unload()

	deadline := time.Now().Add(5 * time.Second)
	for g.State() != morph.StateActive {
		if time.Now().After(deadline) {
			t.Fatal("game never left the loading state")
		}
		g.UpdateHeadless()
	}

	frame := g.Frame()
	if frame.Count != config.Cfg().Particles.Budget {
		t.Errorf("frame count = %d, want full budget %d", frame.Count, config.Cfg().Particles.Budget)
	}
	if len(frame.Colors) != frame.Count*3 {
		t.Errorf("color buffer length = %d, want %d", len(frame.Colors), frame.Count*3)
	}
}

func TestGameSurvivesLoadFailure(t *testing.T) {
	src := &stubSource{failing: true}
	g := testGame(t, src)
	defer g.Unload()

	// The tick loop must keep producing frames at full budget while every
	// load rejects; the placeholder stays visible.
	for i := 0; i < 180; i++ {
		g.UpdateHeadless()
	}

	if g.State() != morph.StateLoading {
		t.Errorf("state = %v, want StateLoading after failed loads", g.State())
	}
	if g.Frame().Count != config.Cfg().Particles.Budget {
		t.Errorf("frame count = %d, want full budget", g.Frame().Count)
	}
}

func TestGameJumpLandsOnShape(t *testing.T) {
	src := &stubSource{}
	g := testGame(t, src)
	defer g.Unload()

	g.JumpToShape(2)
	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}

	if math.Abs(g.Scroll()-2) > 1e-6 {
		t.Errorf("scroll = %v, want 2", g.Scroll())
	}
	pos := morph.MapPosition(g.Scroll(), config.Cfg().Derived.ShapeCount)
	if pos.SafeIndex != 2 || pos.Blend != 0 {
		t.Errorf("landing position = %+v, want index 2 blend 0", pos)
	}
}

// waitActive ticks the game until it reaches the active state.
func waitActive(t *testing.T, g *Game) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for g.State() != morph.StateActive {
		if time.Now().After(deadline) {
			t.Fatal("game never reached the active state")
		}
		g.UpdateHeadless()
	}
}

func TestGameReturnsToLoadingDuringShapeSwap(t *testing.T) {
	src := &stubSource{block: make(chan struct{})}
	g := testGame(t, src)
	defer g.Unload()

	waitActive(t, g)

	// The jump crosses into uncached shapes whose loads are blocked; the
	// cloud must disassemble toward the placeholder while they resolve.
	g.JumpToShape(2)
	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}
	if g.State() != morph.StateLoading {
		t.Fatalf("state = %v, want StateLoading while the swap load is in flight", g.State())
	}

	close(src.block)
	waitActive(t, g)
}

func TestGameToggleWhileLoadInFlight(t *testing.T) {
	src := &stubSource{block: make(chan struct{})}
	g := testGame(t, src)
	defer g.Unload()

	waitActive(t, g)

	// Swap the background mode while a load goroutine is still running; the
	// build must see a consistent synthesizer and the game must recover once
	// the loads drain.
	g.JumpToShape(1)
	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}
	g.toggleBackgroundMode()
	close(src.block)

	waitActive(t, g)
	if g.Frame().Count != config.Cfg().Particles.Budget {
		t.Errorf("frame count = %d, want full budget", g.Frame().Count)
	}
}

func TestGamePalettePolicyToggle(t *testing.T) {
	src := &stubSource{}
	g := testGame(t, src)
	defer g.Unload()

	waitActive(t, g)

	before := append([]float32(nil), g.Frame().Colors...)
	wasPolicy := config.Cfg().Color.Policy

	g.togglePalettePolicy()
	if config.Cfg().Color.Policy == wasPolicy {
		t.Fatal("color policy did not change")
	}

	g.UpdateHeadless()
	after := g.Frame().Colors
	same := true
	for i := range before {
		if before[i] != after[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("colors unchanged after policy toggle")
	}
}

func TestGameInvalidConfiguredBaseFallsBack(t *testing.T) {
	config.MustInit("")
	cfg := config.Cfg()
	cfg.Particles.Budget = 300
	cfg.Derived.ShapeCount = len(cfg.Assets.Shapes)
	cfg.Color.Base = "not-a-color"

	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(nil)

	g := NewGameWithOptions(Options{Seed: 3, Headless: true, Source: &stubSource{}})
	defer g.Unload()

	if !strings.Contains(buf.String(), "invalid base color") {
		t.Errorf("log output %q does not mention the rejected base color", buf.String())
	}
	g.UpdateHeadless()
	if g.Frame().Count != cfg.Particles.Budget {
		t.Errorf("frame count = %d, want full budget despite bad base color", g.Frame().Count)
	}
}

func TestGameBackgroundModeToggle(t *testing.T) {
	src := &stubSource{}
	g := testGame(t, src)
	defer g.Unload()

	for g.State() != morph.StateActive {
		g.UpdateHeadless()
	}
	before := config.Cfg().Background.Mode

	g.toggleBackgroundMode()
	if config.Cfg().Background.Mode == before {
		t.Fatal("background mode did not change")
	}

	// The cache was dropped, so the active shape reloads under the new mode
	// and the game settles back into the active state.
	deadline := time.Now().Add(5 * time.Second)
	calls := src.calls.Load()
	for src.calls.Load() == calls {
		if time.Now().After(deadline) {
			t.Fatal("shape never reloaded after mode toggle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGameBaseColorValidation(t *testing.T) {
	src := &stubSource{}
	g := testGame(t, src)
	defer g.Unload()

	if err := g.SetBaseColor("#ff6030"); err != nil {
		t.Errorf("valid hex rejected: %v", err)
	}
	if err := g.SetBaseColor("not-a-color"); err == nil {
		t.Error("invalid hex accepted")
	}
}
