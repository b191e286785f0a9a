package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/wordflinger/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	norm := pv.Normalize(def)
	for i, v := range norm {
		if v < 0 || v > 1 {
			t.Errorf("%s normalized to %v, want [0, 1]", pv.Specs[i].Name, v)
		}
	}

	back := pv.Denormalize(norm)
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: got %v after round trip, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-90, 50, 100, 30})
	want := []float64{-60, 30, 200, 30}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: Clamp = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	extracted := pv.ExtractFromConfig(config.Default())

	for i, spec := range pv.Specs {
		if extracted[i] != spec.Default {
			t.Errorf("%s: config has %v, spec default is %v", spec.Path, extracted[i], spec.Default)
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{-45, 5, 1000, 10})

	if cfg.Launch.DefaultAngle != -45 || cfg.Launch.AngleJitter != 5 || cfg.Launch.PowerStep != 10 {
		t.Errorf("launch = %+v", cfg.Launch)
	}
	if cfg.Launch.BasePower != 900 {
		t.Errorf("BasePower = %v, want clamped 900", cfg.Launch.BasePower)
	}
}

func TestScore(t *testing.T) {
	if got := score(runResult{damage: 300, levelsCompleted: 2}); got != 700 {
		t.Errorf("score = %v, want 700", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute + 3*time.Second, "2h05m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 120, []int64{1, 2}, []string{"AB"}, 60, config.Default())

	a := fe.Evaluate(pv.DefaultVector())
	b := fe.Evaluate(pv.DefaultVector())
	if a != b {
		t.Errorf("Evaluate not deterministic: %v vs %v", a, b)
	}
	if a > 0 {
		t.Errorf("fitness = %v, want <= 0", a)
	}
}
