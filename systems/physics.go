// Package systems contains the physics engine and launch solver.
package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/wordflinger/components"
	"github.com/pthm-cable/wordflinger/config"
)

// PhysicsParams holds the engine-wide constants for one PhysicsSystem.
type PhysicsParams struct {
	Width, Height float64 // play field is [0, Width] x [0, Height]
	SinkY         float64 // bodies below this are deactivated

	Gravity          float64
	Damping          float64 // per-step velocity multiplier
	Restitution      float64
	Passes           int
	MaxDT            float64
	MaxObstacleSpeed float64

	RestThreshold    float64 // floor contacts slower than this come to rest
	RestGravitySteps float64 // gravity steps (Gravity*dt) added to RestThreshold
	FloorFriction    float64 // vx multiplier on floor contact

	Tolerances    components.Tolerances
	DamageDivisor float64
}

// PhysicsParamsFromConfig extracts engine parameters from the config.
func PhysicsParamsFromConfig(cfg *config.Config) PhysicsParams {
	p := cfg.Physics
	return PhysicsParams{
		Width:            cfg.World.Width,
		Height:           cfg.World.Height,
		SinkY:            cfg.Derived.SinkY,
		Gravity:          p.Gravity,
		Damping:          p.Damping,
		Restitution:      p.Restitution,
		Passes:           p.Passes,
		MaxDT:            p.MaxDT,
		MaxObstacleSpeed: p.MaxObstacleSpeed,
		RestThreshold:    p.RestThreshold,
		RestGravitySteps: p.RestGravitySteps,
		FloorFriction:    p.FloorFriction,
		Tolerances: components.Tolerances{
			BodyEpsilon:      p.BodyEpsilon,
			ObstacleEpsilon:  p.ObstacleEpsilon,
			CircleTightening: p.CircleTightening,
		},
		DamageDivisor: p.DamageDivisor,
	}
}

// DefaultPhysicsParams returns the parameters from the embedded default config.
func DefaultPhysicsParams() PhysicsParams {
	return PhysicsParamsFromConfig(config.Default())
}

// Impact describes a projectile striking an obstacle.
type Impact struct {
	Projectile *components.Body
	Obstacle   *components.Body
	Speed      float64 // projectile speed at contact
	Damage     int     // health actually removed
}

// ImpactHandler is called for every projectile/obstacle contact.
type ImpactHandler func(Impact)

// StepResult summarizes one call to Step.
type StepResult struct {
	DT          float64 // simulated time after clamping; 0 when the step was skipped
	Integrated  int     // active bodies at the start of the step
	PairChecks  int     // active pairs tested across all passes
	Contacts    int     // overlapping pairs found across all passes
	Impulses    int     // contacts that were approaching and received an impulse
	Impacts     int     // projectile/obstacle contacts
	DamageDealt int
	Deactivated int     // bodies that left the play field this step
	MaxSpeed    float64 // fastest active body after resolution
}

// PhysicsSystem advances a set of bodies through time.
// It mutates per-body physical and damage state and never changes the
// membership of the slice it is given. It is not safe for concurrent use.
type PhysicsSystem struct {
	params PhysicsParams
	motion components.MotionParams
	rng    *rand.Rand

	// OnImpact, when set, receives every projectile/obstacle contact.
	OnImpact ImpactHandler
}

// NewPhysicsSystem creates a physics system.
// rng drives the degenerate-normal fallback; nil uses a fixed seed.
func NewPhysicsSystem(params PhysicsParams, rng *rand.Rand) *PhysicsSystem {
	if params.Passes < 1 {
		params.Passes = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &PhysicsSystem{
		params: params,
		motion: components.MotionParams{
			Gravity:          params.Gravity,
			Damping:          params.Damping,
			SinkY:            params.SinkY,
			MaxObstacleSpeed: params.MaxObstacleSpeed,
		},
		rng: rng,
	}
}

// Params returns the parameters the system was built with.
func (s *PhysicsSystem) Params() PhysicsParams {
	return s.params
}

// Step advances every active body by dt.
// Bodies are integrated first, then Passes rounds of boundary enforcement and
// pairwise collision resolution run over every unordered pair in slice order.
// A NaN or non-positive dt skips the step; dt above MaxDT is clamped.
func (s *PhysicsSystem) Step(bodies []*components.Body, dt float64) StepResult {
	dt, ok := s.clampDT(dt)
	if !ok {
		return StepResult{}
	}
	res := StepResult{DT: dt}

	for _, b := range bodies {
		if !b.Active {
			continue
		}
		res.Integrated++
		b.Integrate(dt, s.motion)
		if !b.Active {
			res.Deactivated++
		}
	}

	for range s.params.Passes {
		s.resolvePass(bodies, dt, &res)
	}

	for _, b := range bodies {
		if b.Active {
			res.MaxSpeed = math.Max(res.MaxSpeed, b.Speed())
		}
	}

	return res
}

func (s *PhysicsSystem) resolvePass(bodies []*components.Body, dt float64, res *StepResult) {
	tol := s.params.Tolerances
	for i, a := range bodies {
		if !a.Active {
			continue
		}
		s.enforceBounds(a, dt)

		for _, b := range bodies[i+1:] {
			if !b.Active {
				continue
			}
			res.PairChecks++
			if !a.Overlaps(b, tol) {
				continue
			}
			res.Contacts++
			if s.resolveCollision(a, b) {
				res.Impulses++
			}
			if p, o, ok := projectileObstacle(a, b); ok {
				s.applyImpact(p, o, res)
			}
		}
	}
}

// applyImpact damages the obstacle in proportion to the projectile's momentum.
func (s *PhysicsSystem) applyImpact(p, o *components.Body, res *StepResult) {
	speed := p.Speed()
	damage := int(math.Floor(speed * p.Mass / s.params.DamageDivisor))
	removed := o.ApplyDamage(damage)

	res.Impacts++
	res.DamageDealt += removed

	if s.OnImpact != nil {
		s.OnImpact(Impact{
			Projectile: p,
			Obstacle:   o,
			Speed:      speed,
			Damage:     removed,
		})
	}
}

func projectileObstacle(a, b *components.Body) (p, o *components.Body, ok bool) {
	switch {
	case a.IsProjectile() && b.IsObstacle():
		return a, b, true
	case a.IsObstacle() && b.IsProjectile():
		return b, a, true
	default:
		return nil, nil, false
	}
}

func (s *PhysicsSystem) clampDT(dt float64) (float64, bool) {
	if math.IsNaN(dt) || dt <= 0 {
		return 0, false
	}
	return math.Min(dt, s.params.MaxDT), true
}
