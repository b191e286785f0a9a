// Package game owns a play session: the body set, level progression, scoring
// and the telemetry around the physics engine.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/pthm-cable/wordflinger/components"
	"github.com/pthm-cable/wordflinger/config"
	"github.com/pthm-cable/wordflinger/systems"
	"github.com/pthm-cable/wordflinger/telemetry"
)

// Options configures a session.
type Options struct {
	Seed           int64
	LogStats       bool    // output stats via slog
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string  // save a snapshot on every bookmark
	OutputDir      string  // CSV telemetry and config snapshot

	// StatsCallback, when set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Totals accumulates counters over the whole session.
type Totals struct {
	Launches           int
	Impacts            int
	DamageDealt        int
	ObstaclesDestroyed int
	LevelsCompleted    int
}

// Session holds the complete state of one game.
// It is not safe for concurrent use: Step, FlingWord and the accessors must
// be called from a single goroutine.
type Session struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	physics        *systems.PhysicsSystem
	projectileSpec components.ProjectileSpec
	obstacleSpec   components.ObstacleSpec

	bodies []*components.Body
	nextID uint32
	level  int
	score  int
	tick   int32
	totals Totals

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)
}

// NewSession creates a session at level 1. A nil cfg uses the embedded defaults.
func NewSession(cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if opts.StatsWindowSec > 0 {
		cfg = cfg.Clone()
		cfg.Telemetry.StatsWindow = opts.StatsWindowSec
		cfg.Refresh()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	s := &Session{
		cfg:            cfg,
		rng:            rng,
		rngSeed:        opts.Seed,
		physics:        systems.NewPhysicsSystem(systems.PhysicsParamsFromConfig(cfg), rng),
		projectileSpec: components.ProjectileSpecFrom(cfg),
		obstacleSpec:   components.ObstacleSpecFrom(cfg),
		level:          1,

		collector:     telemetry.NewCollector(cfg.Derived.StatsTicks, cfg.Physics.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, telemetry.BookmarkThresholds{
			CollapseHealthDrop: cfg.Bookmarks.Collapse.HealthDrop,
			SettledMaxSpeed:    cfg.Bookmarks.Settled.MaxSpeed,
			SettledWindows:     cfg.Bookmarks.Settled.Windows,
		}),
		outputManager: om,
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
	}
	s.physics.OnImpact = s.onImpact
	s.loadLevel(1)

	return s, nil
}

// Close flushes and closes telemetry output.
func (s *Session) Close() error {
	return s.outputManager.Close()
}

// Update advances the session by the configured fixed timestep.
func (s *Session) Update() systems.StepResult {
	return s.Step(s.cfg.Physics.DT)
}

// Step advances the session by dt: physics, then level progress, then removal
// of inactive bodies, then telemetry. Invalid dt values leave the session untouched.
func (s *Session) Step(dt float64) systems.StepResult {
	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhasePhysics)
	res := s.physics.Step(s.bodies, dt)
	if res.DT == 0 {
		s.perfCollector.EndTick()
		return res
	}
	s.collector.RecordStep(res)
	s.totals.Impacts += res.Impacts
	s.totals.DamageDealt += res.DamageDealt

	s.perfCollector.StartPhase(telemetry.PhaseProgress)
	s.checkLevelProgress()

	s.perfCollector.StartPhase(telemetry.PhasePurge)
	s.purgeInactive()

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.tick++
	s.flushTelemetry()

	s.perfCollector.EndTick()
	return res
}

func (s *Session) onImpact(im systems.Impact) {
	if im.Damage > 0 && im.Obstacle.Health == 0 {
		s.totals.ObstaclesDestroyed++
	}
	slog.Debug("impact",
		"tick", s.tick,
		"symbol", string(im.Projectile.Symbol),
		"obstacle", im.Obstacle.ID,
		"speed", im.Speed,
		"damage", im.Damage,
		"health", im.Obstacle.Health,
	)
}

// checkLevelProgress advances to the next level once enough active obstacles
// are damaged.
func (s *Session) checkLevelProgress() {
	lvl := s.cfg.Level
	var active, damaged int
	for _, b := range s.bodies {
		if !b.Active || !b.IsObstacle() {
			continue
		}
		active++
		if b.Hit && b.Health < lvl.DamagedHealth {
			damaged++
		}
	}

	if active == 0 || float64(damaged) < float64(active)*lvl.CompleteFraction {
		return
	}

	bonus := lvl.BaseBonus + s.level*lvl.LevelBonus
	s.score += bonus
	s.totals.LevelsCompleted++
	s.collector.RecordLevelComplete()

	slog.Info("level complete",
		"level", s.level,
		"tick", s.tick,
		"damaged", damaged,
		"active", active,
		"bonus", bonus,
		"score", s.score,
	)

	s.loadLevel(s.level + 1)
}

// purgeInactive drops bodies that left the play field.
// Membership only changes here and in loadLevel/FlingWord, never during a physics step.
func (s *Session) purgeInactive() {
	s.bodies = slices.DeleteFunc(s.bodies, func(b *components.Body) bool {
		return !b.Active
	})
}

// loadLevel clears every body and builds the layout for level.
func (s *Session) loadLevel(level int) {
	s.level = level
	s.bodies = nil
	for _, b := range LevelLayout(level, s.rng, s.obstacleSpec) {
		s.add(b)
	}
	slog.Info("level loaded", "level", level, "obstacles", len(s.bodies))
}

// ResetLevel rebuilds the current level, discarding all bodies.
func (s *Session) ResetLevel() {
	s.loadLevel(s.level)
}

func (s *Session) add(b *components.Body) {
	s.nextID++
	b.ID = s.nextID
	s.bodies = append(s.bodies, b)
}

// Bodies returns the live body set in insertion order.
// The slice is owned by the session; callers must not modify it.
func (s *Session) Bodies() []*components.Body {
	return s.bodies
}

// Obstacles returns the obstacles currently in the session.
func (s *Session) Obstacles() []*components.Body {
	return s.filter((*components.Body).IsObstacle)
}

// Projectiles returns the projectiles currently in the session.
func (s *Session) Projectiles() []*components.Body {
	return s.filter((*components.Body).IsProjectile)
}

func (s *Session) filter(keep func(*components.Body) bool) []*components.Body {
	var out []*components.Body
	for _, b := range s.bodies {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// Level returns the current level, starting at 1.
func (s *Session) Level() int { return s.level }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Tick returns the number of completed steps.
func (s *Session) Tick() int32 { return s.tick }

// Totals returns the session-wide counters.
func (s *Session) Totals() Totals { return s.totals }

// Config returns the session's configuration.
func (s *Session) Config() *config.Config { return s.cfg }
