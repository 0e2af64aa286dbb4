// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Device     DeviceConfig     `yaml:"device"`
	Resolution ResolutionConfig `yaml:"resolution"`
	Forces     ForcesConfig     `yaml:"forces"`
	Audio      AudioConfig      `yaml:"audio"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	TargetFPS   int     `yaml:"target_fps"`
	RefreshRate float64 `yaml:"refresh_rate"` // 0 = probe the monitor, then estimate from frame times
}

// SimulationConfig holds orchestrator and clock parameters.
type SimulationConfig struct {
	Mode                string  `yaml:"mode"`         // adaptive, ceiling or static
	MaxWidth            int     `yaml:"max_width"`    // Largest grid width ever allocated
	StaticWidth         int     `yaml:"static_width"` // Grid width in static mode
	InitialCount        int     `yaml:"initial_count"`
	MinCount            int     `yaml:"min_count"`
	StepHz              float64 `yaml:"step_hz"`
	MaxAccumulationMS   float64 `yaml:"max_accumulation_ms"`
	TimeScale           float64 `yaml:"time_scale"`
	DisplayTimePerFrame float64 `yaml:"display_time_per_frame"` // 0 = advance display time by frame time
	Seed                int64   `yaml:"seed"`
}

// DeviceConfig describes the compute device the CPU backend emulates.
type DeviceConfig struct {
	FloatSurfaces      bool `yaml:"float_surfaces"`
	VertexTextureSlots int  `yaml:"vertex_texture_slots"`
	MaxSurfaceSize     int  `yaml:"max_surface_size"`
	MemoryBudgetMB     int  `yaml:"memory_budget_mb"` // 0 = unlimited
	Workers            int  `yaml:"workers"`          // 0 = GOMAXPROCS
}

// ResolutionConfig holds adaptive tier controller parameters.
type ResolutionConfig struct {
	Tiers           []int   `yaml:"tiers"`
	HighFraction    float64 `yaml:"high_fraction"` // Upgrade above refresh * this
	LowFraction     float64 `yaml:"low_fraction"`  // Downgrade below refresh * this
	UpgradeWindow   int     `yaml:"upgrade_window"`
	DowngradeWindow int     `yaml:"downgrade_window"`
	HistorySize     int     `yaml:"history_size"`
	StateDir        string  `yaml:"state_dir"` // Where the tier hint is kept ("" = no persistence)
}

// ForcesConfig holds force-field and interaction parameters.
type ForcesConfig struct {
	Shape        string  `yaml:"shape"`
	Spring       float64 `yaml:"spring"`  // Pull toward the shape target
	Damping      float64 `yaml:"damping"` // Velocity multiplier per step
	Speed        float64 `yaml:"speed"`   // Position integration multiplier
	ShapeScale   float64 `yaml:"shape_scale"`
	CurlStrength float64 `yaml:"curl_strength"`
	CurlScale    float64 `yaml:"curl_scale"`
	CurlSpeed    float64 `yaml:"curl_speed"`

	MouseRadius       float64 `yaml:"mouse_radius"`
	MouseStrength     float64 `yaml:"mouse_strength"`
	MouseVelRadius    float64 `yaml:"mouse_vel_radius"`
	MouseVelStrength  float64 `yaml:"mouse_vel_strength"`
	ClickPull         float64 `yaml:"click_pull"`
	ClickSwirl        float64 `yaml:"click_swirl"`
	BlowStrength      float64 `yaml:"blow_strength"`
	BlowDecay         float64 `yaml:"blow_decay"` // Per-frame decay of the blow impulse
	WellRadius        float64 `yaml:"well_radius"`
	WellStrength      float64 `yaml:"well_strength"`
	MaxWells          int     `yaml:"max_wells"`
	WellLifetimeSec   float64 `yaml:"well_lifetime_sec"`
	ResetExtent       float64 `yaml:"reset_extent"`
	AudioPulse        float64 `yaml:"audio_pulse"` // Radial push per unit of bass
}

// AudioConfig holds audio reactivity parameters.
type AudioConfig struct {
	Enabled     bool    `yaml:"enabled"`
	File        string  `yaml:"file"` // Music file played and analysed; empty for a synthetic tone
	Sensitivity float64 `yaml:"sensitivity"`
	Smoothing   float64 `yaml:"smoothing"` // Lerp factor toward the new level
	Bins        int     `yaml:"bins"`      // Leading spectrum bins averaged
	FFTSize     int     `yaml:"fft_size"`
	SampleRate  int     `yaml:"sample_rate"`
	BassScale   float64 `yaml:"bass_scale"`
	MidScale    float64 `yaml:"mid_scale"`
	HighScale   float64 `yaml:"high_scale"`
}

// RenderConfig holds point renderer parameters.
type RenderConfig struct {
	PointSize     float64 `yaml:"point_size"`
	Theme         string  `yaml:"theme"`
	MaxDrawPoints int     `yaml:"max_draw_points"` // Upper bound on points drawn per frame
	Zoom          float64 `yaml:"zoom"`
	Bloom         float64 `yaml:"bloom"` // Glow strength, 0 = off
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	LogIntervalSec      float64 `yaml:"log_interval_sec"`
	MetricsAddr         string  `yaml:"metrics_addr"` // "" = no metrics endpoint
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Step            time.Duration // Fixed physics step
	MaxAccumulation time.Duration // Clock accumulator cap
	MemoryBudget    int64         // Device memory budget in bytes, 0 = unlimited
	ScreenW32       float32       // Screen.Width as float32
	ScreenH32       float32       // Screen.Height as float32
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

// Set replaces the global configuration.
func Set(cfg *Config) { global = cfg }

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Simulation.Mode {
	case "adaptive", "ceiling", "static":
	default:
		return fmt.Errorf("simulation.mode: unknown mode %q", c.Simulation.Mode)
	}
	if len(c.Resolution.Tiers) == 0 {
		return fmt.Errorf("resolution.tiers: at least one tier required")
	}
	for i := 1; i < len(c.Resolution.Tiers); i++ {
		if c.Resolution.Tiers[i] <= c.Resolution.Tiers[i-1] {
			return fmt.Errorf("resolution.tiers: must be strictly ascending, got %v", c.Resolution.Tiers)
		}
	}
	if c.Resolution.LowFraction >= c.Resolution.HighFraction {
		return fmt.Errorf("resolution: low_fraction %.2f must be below high_fraction %.2f",
			c.Resolution.LowFraction, c.Resolution.HighFraction)
	}
	if c.Simulation.StepHz <= 0 {
		return fmt.Errorf("simulation.step_hz: must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Step = time.Duration(float64(time.Second) / c.Simulation.StepHz)
	c.Derived.MaxAccumulation = time.Duration(c.Simulation.MaxAccumulationMS * float64(time.Millisecond))
	c.Derived.MemoryBudget = int64(c.Device.MemoryBudgetMB) << 20
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.Simulation.MaxWidth == 0 {
		c.Simulation.MaxWidth = c.Resolution.Tiers[len(c.Resolution.Tiers)-1]
	}
	if c.Simulation.StaticWidth == 0 {
		c.Simulation.StaticWidth = c.Resolution.Tiers[0]
	}
	if c.Simulation.MinCount <= 0 {
		c.Simulation.MinCount = 64
	}
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
