// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned (wrapped) when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Obstacle   ObstacleConfig   `yaml:"obstacle"`
	Launch     LaunchConfig     `yaml:"launch"`
	Level      LevelConfig      `yaml:"level"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the play field dimensions.
// The field spans [0, Width] x [0, Height]; the floor is at y = Height.
type WorldConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	SinkMargin float64 `yaml:"sink_margin"` // Distance below the floor at which bodies are deactivated
}

// PhysicsConfig holds engine-wide physics constants.
type PhysicsConfig struct {
	DT               float64 `yaml:"dt"`
	MaxDT            float64 `yaml:"max_dt"`
	Gravity          float64 `yaml:"gravity"`
	Damping          float64 `yaml:"damping"`
	Restitution      float64 `yaml:"restitution"`
	Passes           int     `yaml:"passes"`
	MaxObstacleSpeed float64 `yaml:"max_obstacle_speed"`
	RestThreshold    float64 `yaml:"rest_threshold"`
	RestGravitySteps float64 `yaml:"rest_gravity_steps"`
	FloorFriction    float64 `yaml:"floor_friction"`
	BodyEpsilon      float64 `yaml:"body_epsilon"`
	ObstacleEpsilon  float64 `yaml:"obstacle_epsilon"`
	CircleTightening float64 `yaml:"circle_tightening"`
	DamageDivisor    float64 `yaml:"damage_divisor"`
}

// ProjectileConfig holds projectile construction parameters.
type ProjectileConfig struct {
	Size          float64 `yaml:"size"`
	MassFactor    float64 `yaml:"mass_factor"`
	BoundsPadding float64 `yaml:"bounds_padding"`
}

// ObstacleConfig holds obstacle construction parameters.
type ObstacleConfig struct {
	Density       float64 `yaml:"density"`
	InitialHealth int     `yaml:"initial_health"`
}

// LaunchConfig holds the fling presentation policy.
type LaunchConfig struct {
	StartX       float64 `yaml:"start_x"`
	StartY       float64 `yaml:"start_y"`
	Spacing      float64 `yaml:"spacing"`
	JitterY      float64 `yaml:"jitter_y"`
	BasePower    float64 `yaml:"base_power"`
	PowerStep    float64 `yaml:"power_step"`
	DefaultAngle float64 `yaml:"default_angle"` // degrees
	AngleJitter  float64 `yaml:"angle_jitter"`  // degrees
}

// LevelConfig holds level completion and scoring rules.
type LevelConfig struct {
	DamagedHealth    int     `yaml:"damaged_health"`
	CompleteFraction float64 `yaml:"complete_fraction"`
	BaseBonus        int     `yaml:"base_bonus"`
	LevelBonus       int     `yaml:"level_bonus"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	Collapse CollapseConfig `yaml:"collapse"`
	Settled  SettledConfig  `yaml:"settled"`
}

// CollapseConfig holds structure collapse detection parameters.
type CollapseConfig struct {
	HealthDrop float64 `yaml:"health_drop"`
}

// SettledConfig holds settle detection parameters.
type SettledConfig struct {
	MaxSpeed float64 `yaml:"max_speed"` // peak body speed within a quiet window
	Windows  int     `yaml:"windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SinkY          float64 // World.Height + World.SinkMargin
	ProjectileMass float64 // Projectile.Size * Projectile.MassFactor
	StatsTicks     int32   // Telemetry.StatsWindow in ticks of Physics.DT
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the invariants the physics core relies on.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"world.width", c.World.Width},
		{"world.height", c.World.Height},
		{"physics.dt", c.Physics.DT},
		{"physics.max_dt", c.Physics.MaxDT},
		{"physics.damage_divisor", c.Physics.DamageDivisor},
		{"projectile.size", c.Projectile.Size},
		{"projectile.mass_factor", c.Projectile.MassFactor},
		{"obstacle.density", c.Obstacle.Density},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.v)
		}
	}
	if c.Physics.Passes < 1 {
		return fmt.Errorf("%w: physics.passes must be at least 1, got %d", ErrInvalid, c.Physics.Passes)
	}
	if c.Physics.Damping <= 0 || c.Physics.Damping > 1 {
		return fmt.Errorf("%w: physics.damping must be in (0, 1], got %v", ErrInvalid, c.Physics.Damping)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("%w: physics.restitution must be in [0, 1], got %v", ErrInvalid, c.Physics.Restitution)
	}
	if c.Physics.RestThreshold < 0 || c.Physics.RestGravitySteps < 0 {
		return fmt.Errorf("%w: physics.rest_threshold and physics.rest_gravity_steps must not be negative", ErrInvalid)
	}
	if c.Projectile.BoundsPadding < 0 || c.Projectile.BoundsPadding >= 0.5 {
		return fmt.Errorf("%w: projectile.bounds_padding must be in [0, 0.5), got %v", ErrInvalid, c.Projectile.BoundsPadding)
	}
	if c.Obstacle.InitialHealth < 1 {
		return fmt.Errorf("%w: obstacle.initial_health must be at least 1, got %d", ErrInvalid, c.Obstacle.InitialHealth)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.SinkY = c.World.Height + c.World.SinkMargin
	c.Derived.ProjectileMass = c.Projectile.Size * c.Projectile.MassFactor

	ticks := int32(c.Telemetry.StatsWindow / c.Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsTicks = ticks
}

// Clone returns an independent copy of the configuration.
// Callers that tweak parameters (e.g. the optimizer) must clone first.
func (c *Config) Clone() *Config {
	cp := *c
	cp.computeDerived()
	return &cp
}

// Refresh recomputes derived values after fields were modified in place.
func (c *Config) Refresh() {
	c.computeDerived()
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
