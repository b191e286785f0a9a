package systems

import (
	"math"

	"github.com/pthm-cable/wordflinger/components"
)

// floorSlop is how close a bottom edge must be to the floor to count as touching.
const floorSlop = 1e-6

// enforceBounds keeps b inside the play field. Walls and ceiling reflect the
// outward velocity component scaled by restitution. The floor does the same
// unless the body is slow enough to rest, and always applies floor friction.
// A body already touching the floor and moving down is in floor contact too.
func (s *PhysicsSystem) enforceBounds(b *components.Body, dt float64) {
	e := s.params.Restitution
	w, h := s.params.Width, s.params.Height

	if b.Pos.X < 0 {
		b.Pos.X = 0
		b.Vel.X = math.Abs(b.Vel.X) * e
	} else if b.Pos.X+b.Width > w {
		b.Pos.X = w - b.Width
		b.Vel.X = -math.Abs(b.Vel.X) * e
	}

	if b.Pos.Y < 0 {
		b.Pos.Y = 0
		b.Vel.Y = math.Abs(b.Vel.Y) * e
	} else if bottom := b.Pos.Y + b.Height; bottom > h || (bottom >= h-floorSlop && b.Vel.Y > 0) {
		b.Pos.Y = h - b.Height
		if math.Abs(b.Vel.Y) < s.restSpeed(dt) {
			b.Vel.Y = 0
		} else {
			b.Vel.Y = -math.Abs(b.Vel.Y) * e
		}
		b.Vel.X *= s.params.FloorFriction
	}
}

// restSpeed is the floor contact speed below which a body comes to rest.
// One step of gravity is added on top of RestThreshold for every
// RestGravitySteps, so a body sitting on the floor stays there.
func (s *PhysicsSystem) restSpeed(dt float64) float64 {
	return s.params.RestThreshold + s.params.RestGravitySteps*s.params.Gravity*dt
}

// clampToWorld moves b back inside the play field without touching velocity.
func (s *PhysicsSystem) clampToWorld(b *components.Body) {
	b.Pos.X = clamp(b.Pos.X, 0, math.Max(0, s.params.Width-b.Width))
	b.Pos.Y = clamp(b.Pos.Y, 0, math.Max(0, s.params.Height-b.Height))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
