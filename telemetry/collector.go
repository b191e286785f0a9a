package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/wordflinger/components"
	"github.com/pthm-cable/wordflinger/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	launches        int
	contacts        int
	impulses        int
	impacts         int
	damage          int
	deactivated     int
	levelsCompleted int
	peakSpeed       float64
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int32, dt float64) *Collector {
	return &Collector{
		windowDurationTicks: max(windowTicks, 1),
		dt:                  dt,
	}
}

// RecordLaunch records n projectiles entering the world.
func (c *Collector) RecordLaunch(n int) {
	c.launches += n
}

// RecordStep folds one physics step's counters into the window.
func (c *Collector) RecordStep(res systems.StepResult) {
	c.contacts += res.Contacts
	c.impulses += res.Impulses
	c.impacts += res.Impacts
	c.damage += res.DamageDealt
	c.deactivated += res.Deactivated
	c.peakSpeed = max(c.peakSpeed, res.MaxSpeed)
}

// RecordLevelComplete records a level advance.
func (c *Collector) RecordLevelComplete() {
	c.levelsCompleted++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WorldState is the session state sampled at flush time.
type WorldState struct {
	Level  int
	Score  int
	Bodies []*components.Body

	// Obstacles that were hit and sit below this health count as damaged.
	DamagedHealth int
}

// Flush produces a WindowStats and resets counters for the next window.
// Only active bodies contribute to the sampled distributions. MaxSpeed is the
// peak over every recorded step and the flush-time sample.
func (c *Collector) Flush(currentTick int32, world WorldState) WindowStats {
	var (
		obstacles, projectiles, damaged int
		health, speeds, energies        []float64
	)
	for _, b := range world.Bodies {
		if !b.Active {
			continue
		}
		speeds = append(speeds, b.Speed())
		energies = append(energies, b.KineticEnergy())

		switch b.Kind {
		case components.KindObstacle:
			obstacles++
			health = append(health, float64(b.Health))
			if b.Hit && b.Health < world.DamagedHealth {
				damaged++
			}
		case components.KindProjectile:
			projectiles++
		}
	}

	maxSpeed := c.peakSpeed
	if len(speeds) > 0 {
		maxSpeed = max(maxSpeed, floats.Max(speeds))
	}

	var impactRate float64
	if c.launches > 0 {
		impactRate = float64(c.impacts) / float64(c.launches)
	}

	healthMean, healthP10, healthP50, healthP90 := ComputeHealthStats(health)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Level: world.Level,
		Score: world.Score,

		Obstacles:        obstacles,
		Projectiles:      projectiles,
		ObstaclesDamaged: damaged,

		Launches:         c.launches,
		Contacts:         c.contacts,
		Impulses:         c.impulses,
		Impacts:          c.impacts,
		DamageDealt:      c.damage,
		Deactivated:      c.deactivated,
		LevelsCompleted:  c.levelsCompleted,
		ImpactsPerLaunch: impactRate,

		HealthMean: healthMean,
		HealthP10:  healthP10,
		HealthP50:  healthP50,
		HealthP90:  healthP90,

		KineticEnergy: floats.Sum(energies),
		MaxSpeed:      maxSpeed,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.launches = 0
	c.contacts = 0
	c.impulses = 0
	c.impacts = 0
	c.damage = 0
	c.deactivated = 0
	c.levelsCompleted = 0
	c.peakSpeed = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
