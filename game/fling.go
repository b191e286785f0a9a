package game

import (
	"log/slog"
	"strings"

	"github.com/pthm-cable/wordflinger/components"
	"github.com/pthm-cable/wordflinger/systems"
)

// SplitWords parses a comma separated word list, dropping empty entries.
func SplitWords(list string) []string {
	var out []string
	for _, w := range strings.Split(list, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Drag is an in-progress aim gesture in world coordinates.
type Drag struct {
	Start   components.Vector2D
	Current components.Vector2D
}

// FlingWord launches one projectile per symbol of the upper-cased word and
// returns how many were added. Symbols line up from the launch point with a
// small vertical jitter, and each later symbol gets a little more power.
// With a drag the launch follows the drag direction; without one, or when the
// drag has no length, symbols leave at the default angle plus jitter.
func (s *Session) FlingWord(word string, drag *Drag) int {
	lc := s.cfg.Launch

	var n int
	for i, r := range []rune(strings.ToUpper(word)) {
		x := lc.StartX + float64(i)*lc.Spacing
		y := lc.StartY + (s.rng.Float64()*2-1)*lc.JitterY
		power := lc.BasePower + float64(i)*lc.PowerStep
		angle := lc.DefaultAngle + s.rng.Float64()*lc.AngleJitter

		p := components.NewProjectile(x, y, r, s.projectileSpec)

		var vel components.Vector2D
		if drag != nil {
			vel = systems.LaunchVelocity(drag.Start, drag.Current, power)
		}
		if vel == (components.Vector2D{}) {
			vel = systems.LaunchVelocityAtAngle(angle, power)
		}
		p.Vel = vel

		s.add(p)
		n++
	}

	if n > 0 {
		s.totals.Launches += n
		s.collector.RecordLaunch(n)
		slog.Debug("fling", "word", word, "projectiles", n, "drag", drag != nil)
	}
	return n
}
