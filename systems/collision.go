package systems

import (
	"math"

	"github.com/pthm-cable/wordflinger/components"
)

const (
	// Centers closer than this have no usable direction.
	degenerateDistance = 1e-4
	// Penetration below this is treated as zero and replaced by the fallback push.
	minPenetration = 1e-6
)

// resolveCollision applies a restitution impulse along the contact normal when
// the pair is approaching, then separates the pair positionally.
// Reports whether an impulse was applied.
func (s *PhysicsSystem) resolveCollision(a, b *components.Body) bool {
	n := s.collisionNormal(a, b)

	applied := false
	relVel := b.Vel.Sub(a.Vel).Dot(n)
	if relVel < 0 {
		e := s.params.Restitution
		j := -(1 + e) * relVel / (1/a.Mass + 1/b.Mass)
		a.ApplyImpulse(n.Scale(-j))
		b.ApplyImpulse(n.Scale(j))
		applied = true
	}

	s.correctPositions(a, b, n)
	return applied
}

// collisionNormal returns the unit vector from a's center to b's center.
// Coincident centers get a random direction.
func (s *PhysicsSystem) collisionNormal(a, b *components.Body) components.Vector2D {
	d := b.Center().Sub(a.Center())
	if d.Magnitude() < degenerateDistance {
		theta := s.rng.Float64() * 2 * math.Pi
		return components.Vec(math.Cos(theta), math.Sin(theta))
	}
	return d.Normalize()
}

// correctPositions pushes the pair apart along n by the shallower axis
// penetration, splitting the push inversely to mass, and keeps both in the world.
func (s *PhysicsSystem) correctPositions(a, b *components.Body, n components.Vector2D) {
	overlapX, overlapY := a.Penetration(b)
	pen := math.Min(overlapX, overlapY)
	if pen < minPenetration {
		pen = 0.5 * smallerDimension(a, b)
	}

	total := a.Mass + b.Mass
	a.Pos = a.Pos.Sub(n.Scale(pen * b.Mass / total))
	b.Pos = b.Pos.Add(n.Scale(pen * a.Mass / total))

	s.clampToWorld(a)
	s.clampToWorld(b)
}

// smallerDimension returns the shorter side of whichever body has the smaller footprint.
func smallerDimension(a, b *components.Body) float64 {
	small := a
	if b.Width*b.Height < a.Width*a.Height {
		small = b
	}
	return math.Min(small.Width, small.Height)
}
