package systems

import (
	"math"

	"github.com/pthm-cable/wordflinger/components"
)

// LaunchVelocity returns a velocity of magnitude power pointing from start
// toward target. When start and target coincide there is no direction and the
// zero vector is returned.
func LaunchVelocity(start, target components.Vector2D, power float64) components.Vector2D {
	return target.Sub(start).Normalize().Scale(power)
}

// LaunchVelocityAtAngle returns a velocity of magnitude power at angleDeg
// degrees from the +x axis. Negative angles point up the screen.
func LaunchVelocityAtAngle(angleDeg, power float64) components.Vector2D {
	rad := angleDeg * math.Pi / 180
	return components.Vec(math.Cos(rad), math.Sin(rad)).Scale(power)
}
