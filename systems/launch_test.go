package systems

import (
	"testing"

	"github.com/pthm-cable/wordflinger/components"
)

func TestLaunchVelocity(t *testing.T) {
	tests := []struct {
		name          string
		start, target components.Vector2D
		power         float64
		want          components.Vector2D
	}{
		{"right", components.Vec(0, 0), components.Vec(10, 0), 100, components.Vec(100, 0)},
		{"up and right", components.Vec(10, 10), components.Vec(13, 6), 50, components.Vec(30, -40)},
		{"power independent of drag length", components.Vec(0, 0), components.Vec(300, 400), 10, components.Vec(6, 8)},
		{"zero power", components.Vec(0, 0), components.Vec(5, 5), 0, components.Vec(0, 0)},
		{"degenerate", components.Vec(0, 0), components.Vec(0, 0), 100, components.Vec(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LaunchVelocity(tt.start, tt.target, tt.power)
			if !got.IsFinite() {
				t.Fatalf("LaunchVelocity = %+v, want finite", got)
			}
			if got.Distance(tt.want) > 1e-9 {
				t.Errorf("LaunchVelocity = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLaunchVelocityAtAngle(t *testing.T) {
	tests := []struct {
		angle float64
		want  components.Vector2D
	}{
		{0, components.Vec(100, 0)},
		{-90, components.Vec(0, -100)},
		{180, components.Vec(-100, 0)},
	}

	for _, tt := range tests {
		got := LaunchVelocityAtAngle(tt.angle, 100)
		if got.Distance(tt.want) > 1e-9 {
			t.Errorf("LaunchVelocityAtAngle(%v) = %+v, want %+v", tt.angle, got, tt.want)
		}
	}
}
