// Package components defines the simulated bodies and the value types they are built from.
package components

import (
	"fmt"
	"math"

	"github.com/pthm-cable/wordflinger/config"
)

// Kind identifies the body variant.
type Kind uint8

const (
	KindProjectile Kind = iota // flung symbol
	KindObstacle               // structural block with health
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindProjectile:
		return "projectile"
	case KindObstacle:
		return "obstacle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is the collision shape used by Overlaps.
type Shape uint8

const (
	ShapeBox    Shape = iota // axis-aligned box
	ShapeCircle              // circle inscribed in the body's square footprint
)

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether the interiors of two rectangles intersect.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vector2D {
	return Vector2D{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// MotionParams holds the engine-wide constants used by Integrate.
type MotionParams struct {
	Gravity          float64 // downward acceleration, world units/s^2
	Damping          float64 // per-step velocity multiplier
	SinkY            float64 // bodies with Pos.Y beyond this are deactivated
	MaxObstacleSpeed float64 // per-axis obstacle speed limit; 0 disables the clamp
}

// Tolerances controls how deep an overlap must be to count as contact.
type Tolerances struct {
	BodyEpsilon      float64 // minimum per-axis overlap for generic pairs
	ObstacleEpsilon  float64 // minimum per-axis overlap for obstacle/obstacle pairs
	CircleTightening float64 // fraction of the summed radii used for circle/circle pairs
}

// Body is a simulated, axis-aligned, non-rotating rigid body.
// The engine mutates physical and damage fields; it never adds or removes bodies.
type Body struct {
	ID     uint32
	Kind   Kind
	Shape  Shape
	Pos    Vector2D // top-left corner of the footprint
	Width  float64
	Height float64
	Vel    Vector2D // world units per second
	Mass   float64
	Active bool

	// Padding insets the collision box on every side.
	Padding float64

	// Obstacle damage state
	Health int
	Hit    bool

	// Symbol is the projectile payload. Rendering only.
	Symbol rune
}

// ProjectileSpec holds the parameters shared by every projectile.
type ProjectileSpec struct {
	Size          float64
	Mass          float64
	BoundsPadding float64 // fraction of Size
}

// ObstacleSpec holds the parameters shared by every obstacle.
type ObstacleSpec struct {
	Density       float64
	InitialHealth int
}

// ProjectileSpecFrom extracts projectile parameters from the config.
func ProjectileSpecFrom(cfg *config.Config) ProjectileSpec {
	return ProjectileSpec{
		Size:          cfg.Projectile.Size,
		Mass:          cfg.Derived.ProjectileMass,
		BoundsPadding: cfg.Projectile.BoundsPadding,
	}
}

// ObstacleSpecFrom extracts obstacle parameters from the config.
func ObstacleSpecFrom(cfg *config.Config) ObstacleSpec {
	return ObstacleSpec{
		Density:       cfg.Obstacle.Density,
		InitialHealth: cfg.Obstacle.InitialHealth,
	}
}

// NewBody creates an active body at rest.
// Non-positive or non-finite dimensions or mass are programming errors and panic:
// every force and impulse divides by mass.
func NewBody(kind Kind, x, y, width, height, mass float64) *Body {
	if !validPositive(width) || !validPositive(height) {
		panic(fmt.Sprintf("components: %s dimensions must be positive, got %vx%v", kind, width, height))
	}
	if !validPositive(mass) {
		panic(fmt.Sprintf("components: %s mass must be positive, got %v", kind, mass))
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		panic(fmt.Sprintf("components: %s position must be finite, got (%v, %v)", kind, x, y))
	}

	shape := ShapeBox
	if kind == KindProjectile {
		shape = ShapeCircle
	}
	return &Body{
		Kind:   kind,
		Shape:  shape,
		Pos:    Vector2D{X: x, Y: y},
		Width:  width,
		Height: height,
		Mass:   mass,
		Active: true,
	}
}

// NewProjectile creates a projectile carrying symbol with its top-left corner at (x, y).
func NewProjectile(x, y float64, symbol rune, spec ProjectileSpec) *Body {
	b := NewBody(KindProjectile, x, y, spec.Size, spec.Size, spec.Mass)
	b.Padding = spec.Size * spec.BoundsPadding
	b.Symbol = symbol
	return b
}

// NewObstacle creates an obstacle with full health. Mass is derived from its area.
func NewObstacle(x, y, width, height float64, spec ObstacleSpec) *Body {
	b := NewBody(KindObstacle, x, y, width, height, width*height*spec.Density)
	b.Health = spec.InitialHealth
	return b
}

func validPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// IsProjectile reports whether b is a projectile.
func (b *Body) IsProjectile() bool { return b.Kind == KindProjectile }

// IsObstacle reports whether b is an obstacle.
func (b *Body) IsObstacle() bool { return b.Kind == KindObstacle }

// Center returns the center of the body's full footprint.
func (b *Body) Center() Vector2D {
	return Vector2D{X: b.Pos.X + b.Width/2, Y: b.Pos.Y + b.Height/2}
}

// Bounds returns the collision box. Padded bodies report a box inset on every side.
func (b *Body) Bounds() Rect {
	return Rect{
		X: b.Pos.X + b.Padding,
		Y: b.Pos.Y + b.Padding,
		W: b.Width - 2*b.Padding,
		H: b.Height - 2*b.Padding,
	}
}

// Speed returns the magnitude of the velocity.
func (b *Body) Speed() float64 {
	return b.Vel.Magnitude()
}

// KineticEnergy returns 0.5 * m * |v|^2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Vel.Dot(b.Vel)
}

// Integrate advances the body by dt using semi-implicit Euler:
// position moves with the velocity from before this step's gravity update,
// then gravity and the per-step damping are applied to the velocity.
func (b *Body) Integrate(dt float64, p MotionParams) {
	if !b.Active {
		return
	}

	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Vel.Y += p.Gravity * dt
	b.Vel = b.Vel.Scale(p.Damping)
	b.checkSink(p.SinkY)

	if b.Kind == KindObstacle && p.MaxObstacleSpeed > 0 {
		b.Vel.X = clampAbs(b.Vel.X, p.MaxObstacleSpeed)
		b.Vel.Y = clampAbs(b.Vel.Y, p.MaxObstacleSpeed)
		b.checkSink(p.SinkY)
	}
}

func (b *Body) checkSink(sinkY float64) {
	if b.Pos.Y > sinkY {
		b.Active = false
	}
}

func clampAbs(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

// ApplyForce adds force/mass to the velocity. It is not integrated over dt.
func (b *Body) ApplyForce(force Vector2D) {
	if !b.Active {
		return
	}
	b.Vel = b.Vel.Add(force.Scale(1 / b.Mass))
}

// ApplyImpulse adds impulse/mass to the velocity.
func (b *Body) ApplyImpulse(impulse Vector2D) {
	if !b.Active {
		return
	}
	b.Vel = b.Vel.Add(impulse.Scale(1 / b.Mass))
}

// ApplyDamage subtracts amount from an active obstacle's health, flooring at zero,
// and returns the health actually removed. Health never increases.
// An obstacle at zero health stays active; removal is the caller's decision.
func (b *Body) ApplyDamage(amount int) int {
	if !b.Active || b.Kind != KindObstacle || amount <= 0 || b.Health == 0 {
		return 0
	}
	removed := min(amount, b.Health)
	b.Health -= removed
	b.Hit = true
	return removed
}

// Penetration returns the per-axis overlap of the two full footprints.
// Positive values on both axes mean the footprints overlap.
func (b *Body) Penetration(other *Body) (x, y float64) {
	ca, cb := b.Center(), other.Center()
	x = (b.Width+other.Width)/2 - math.Abs(ca.X-cb.X)
	y = (b.Height+other.Height)/2 - math.Abs(ca.Y-cb.Y)
	return x, y
}

// Overlaps reports whether two active bodies are in significant contact.
// Circle pairs compare center distance against the tightened summed radii.
// Every other pair needs intersecting collision boxes and a per-axis footprint
// overlap of at least the epsilon for that pair.
func (b *Body) Overlaps(other *Body, tol Tolerances) bool {
	if b == other || !b.Active || !other.Active {
		return false
	}

	if b.Shape == ShapeCircle && other.Shape == ShapeCircle {
		dist := b.Center().Distance(other.Center())
		return dist < (b.Width/2+other.Width/2)*tol.CircleTightening
	}

	if !b.Bounds().Intersects(other.Bounds()) {
		return false
	}

	eps := tol.BodyEpsilon
	if b.Kind == KindObstacle && other.Kind == KindObstacle {
		eps = tol.ObstacleEpsilon
	}
	overlapX, overlapY := b.Penetration(other)
	return overlapX >= eps && overlapY >= eps
}
