package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/wordflinger/components"
	"github.com/pthm-cable/wordflinger/systems"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(120, 1.0/60)

	if got := c.WindowDurationTicks(); got != 120 {
		t.Fatalf("WindowDurationTicks = %d, want 120", got)
	}
	if got := NewCollector(0, 1.0/60).WindowDurationTicks(); got != 1 {
		t.Errorf("WindowDurationTicks for 0 = %d, want 1", got)
	}
	if c.ShouldFlush(60) {
		t.Error("ShouldFlush(60) = true before the window elapsed")
	}
	if !c.ShouldFlush(120) {
		t.Error("ShouldFlush(120) = false after the window elapsed")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(120, 1.0/60)
	spec := components.ObstacleSpec{Density: 0.1, InitialHealth: 100}

	healthy := components.NewObstacle(0, 0, 40, 40, spec)
	damaged := components.NewObstacle(40, 0, 40, 40, spec)
	damaged.ApplyDamage(60)
	gone := components.NewObstacle(80, 0, 40, 40, spec)
	gone.Active = false
	p := components.NewBody(components.KindProjectile, 0, 0, 30, 30, 6)
	p.Vel = components.Vec(30, 40)

	c.RecordLaunch(4)
	c.RecordStep(systems.StepResult{Contacts: 3, Impulses: 2, Impacts: 2, DamageDealt: 60, Deactivated: 1})
	c.RecordStep(systems.StepResult{Contacts: 1})
	c.RecordLevelComplete()

	stats := c.Flush(120, WorldState{
		Level:         2,
		Score:         150,
		Bodies:        []*components.Body{healthy, damaged, gone, p},
		DamagedHealth: 50,
	})

	if stats.Obstacles != 2 || stats.Projectiles != 1 || stats.ObstaclesDamaged != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", stats.Obstacles, stats.Projectiles, stats.ObstaclesDamaged)
	}
	if stats.Launches != 4 || stats.Contacts != 4 || stats.Impulses != 2 || stats.Impacts != 2 {
		t.Errorf("events = %+v", stats)
	}
	if stats.DamageDealt != 60 || stats.Deactivated != 1 || stats.LevelsCompleted != 1 {
		t.Errorf("damage/deactivated/levels = %d/%d/%d", stats.DamageDealt, stats.Deactivated, stats.LevelsCompleted)
	}
	if stats.ImpactsPerLaunch != 0.5 {
		t.Errorf("ImpactsPerLaunch = %v, want 0.5", stats.ImpactsPerLaunch)
	}
	if stats.HealthMean != 70 {
		t.Errorf("HealthMean = %v, want 70", stats.HealthMean)
	}
	if stats.MaxSpeed != 50 {
		t.Errorf("MaxSpeed = %v, want 50", stats.MaxSpeed)
	}
	// 0.5 * 6 * 50^2
	if math.Abs(stats.KineticEnergy-7500) > 1e-9 {
		t.Errorf("KineticEnergy = %v, want 7500", stats.KineticEnergy)
	}
	if math.Abs(stats.SimTimeSec-2) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 2", stats.SimTimeSec)
	}

	// Counters reset
	next := c.Flush(240, WorldState{})
	if next.Launches != 0 || next.Impacts != 0 || next.LevelsCompleted != 0 || next.WindowStartTick != 120 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.MaxSpeed != 0 || next.HealthMean != 0 {
		t.Errorf("empty world stats = %+v", next)
	}
}

func TestCollectorTracksPeakSpeed(t *testing.T) {
	c := NewCollector(120, 1.0/60)
	b := components.NewBody(components.KindObstacle, 0, 0, 40, 40, 160)
	b.Vel = components.Vec(0, 5)

	c.RecordStep(systems.StepResult{MaxSpeed: 12})
	c.RecordStep(systems.StepResult{MaxSpeed: 310})
	c.RecordStep(systems.StepResult{MaxSpeed: 4})

	stats := c.Flush(120, WorldState{Bodies: []*components.Body{b}})
	if stats.MaxSpeed != 310 {
		t.Errorf("MaxSpeed = %v, want window peak 310", stats.MaxSpeed)
	}

	c.RecordStep(systems.StepResult{MaxSpeed: 3})
	if next := c.Flush(240, WorldState{Bodies: []*components.Body{b}}); next.MaxSpeed != 5 {
		t.Errorf("MaxSpeed after reset = %v, want sampled 5", next.MaxSpeed)
	}
}
