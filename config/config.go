// Package config provides configuration loading and access for the particle engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Background BackgroundConfig `yaml:"background"`
	Morph      MorphConfig      `yaml:"morph"`
	Color      ColorConfig      `yaml:"color"`
	Assets     AssetsConfig     `yaml:"assets"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ParticlesConfig holds the particle budget and spatial framing parameters.
type ParticlesConfig struct {
	Budget        int     `yaml:"budget"`         // Total points rendered every frame
	ModelFraction float64 `yaml:"model_fraction"` // Share of the budget spent on model points
	TargetSize    float64 `yaml:"target_size"`    // Max extent of a normalized model
	Jitter        float64 `yaml:"jitter"`         // Organic jitter amplitude (0 disables)
	JitterPower   float64 `yaml:"jitter_power"`   // Power-law exponent for jitter falloff
	ChaosRadius   float64 `yaml:"chaos_radius"`   // Half-extent of the chaos scatter cube
}

// BackgroundConfig holds background/nebula synthesis parameters.
// Mode selects the distribution; the rest tune one mode or the other.
type BackgroundConfig struct {
	Mode         string  `yaml:"mode"`          // "sphere" or "spiral"
	Radius       float64 `yaml:"radius"`        // Maximum background radius
	CoreRadius   float64 `yaml:"core_radius"`   // Sphere: uniform-density core radius
	CoreFraction float64 `yaml:"core_fraction"` // Sphere: fraction of points in the core
	FalloffPower float64 `yaml:"falloff_power"` // Sphere: shell density falloff exponent
	Branches     int     `yaml:"branches"`      // Spiral: arm count
	Spin         float64 `yaml:"spin"`          // Spiral: radians of twist per unit radius
	Randomness   float64 `yaml:"randomness"`    // Spiral: arm scatter amplitude
	RandomPower  float64 `yaml:"random_power"`  // Spiral: scatter power curve
	Thickness    float64 `yaml:"thickness"`     // Spiral: vertical extent factor
	Turbulence   float64 `yaml:"turbulence"`    // Spiral: simplex displacement amplitude
}

// MorphConfig holds the scroll-to-shape mapping and integrator parameters.
type MorphConfig struct {
	EasingRate  float64           `yaml:"easing_rate"`   // Per-tick fraction of remaining distance closed
	BlendCurve  float64           `yaml:"blend_curve"`   // Exponent applied to the blend factor (>= 1)
	DeadZone    float64           `yaml:"dead_zone"`     // Blend values below this read as fully formed
	ScrollSpeed float64           `yaml:"scroll_speed"`  // Scroll units per wheel notch
	JumpSeconds float64           `yaml:"jump_seconds"`  // Duration of the jump-to-shape tween
	Oscillation OscillationConfig `yaml:"oscillation"`
}

// OscillationConfig holds the chaotic-state motion parameters.
type OscillationConfig struct {
	Amplitude float64 `yaml:"amplitude"` // Max displacement of the goal position
	Speed     float64 `yaml:"speed"`     // Radians per second
	Threshold float64 `yaml:"threshold"` // Curved blend above which oscillation kicks in
}

// ColorConfig holds the color-field parameters.
type ColorConfig struct {
	Policy         string   `yaml:"policy"`          // "stochastic" or "radial-gradient"
	Base           string   `yaml:"base"`            // Base color as a hex string
	GradientRadius float64  `yaml:"gradient_radius"` // Radial policy: distance mapped to the outside color
	Swatches       []string `yaml:"swatches"`        // Viewer palette row (hex strings)
}

// AssetsConfig holds shape asset locations.
type AssetsConfig struct {
	Root   string   `yaml:"root"`   // Directory prefix for shape keys
	Shapes []string `yaml:"shapes"` // Ordered shape keys; scroll index maps into this list
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged per perf report
	LogInterval int `yaml:"log_interval"` // Ticks between perf log lines (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ShapeCount int     // len(Assets.Shapes)
	Easing32   float32 // Morph.EasingRate as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ShapeCount = len(c.Assets.Shapes)
	c.Derived.Easing32 = float32(c.Morph.EasingRate)
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Particles.Budget <= 0 {
		return fmt.Errorf("config: particles.budget must be positive, got %d", c.Particles.Budget)
	}
	if c.Particles.ModelFraction <= 0 || c.Particles.ModelFraction > 1 {
		return fmt.Errorf("config: particles.model_fraction must be in (0,1], got %v", c.Particles.ModelFraction)
	}
	if c.Morph.BlendCurve < 1 {
		return fmt.Errorf("config: morph.blend_curve must be >= 1, got %v", c.Morph.BlendCurve)
	}
	if c.Morph.DeadZone < 0 || c.Morph.DeadZone > 1 {
		return fmt.Errorf("config: morph.dead_zone must be in [0,1], got %v", c.Morph.DeadZone)
	}
	switch c.Background.Mode {
	case "sphere", "spiral":
	default:
		return fmt.Errorf("config: background.mode must be sphere or spiral, got %q", c.Background.Mode)
	}
	switch c.Color.Policy {
	case "stochastic", "radial-gradient":
	default:
		return fmt.Errorf("config: color.policy must be stochastic or radial-gradient, got %q", c.Color.Policy)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
