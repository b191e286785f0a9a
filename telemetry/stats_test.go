package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9},
		{"p clamped high", []float64{1, 2, 3}, 1.5, 3},
		{"p clamped low", []float64{1, 2, 3}, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeHealthStats(t *testing.T) {
	// Unsorted on purpose
	values := []float64{100, 10, 90, 20, 80, 30, 70, 40, 60, 50}
	mean, p10, p50, p90 := ComputeHealthStats(values)

	if math.Abs(mean-55) > 1e-9 {
		t.Errorf("mean = %v, want 55", mean)
	}
	if p10 != 10 {
		t.Errorf("p10 = %v, want 10", p10)
	}
	if p50 != 50 {
		t.Errorf("p50 = %v, want 50", p50)
	}
	if p90 != 90 {
		t.Errorf("p90 = %v, want 90", p90)
	}
	if values[0] != 100 {
		t.Error("input slice was reordered")
	}
}

func TestComputeHealthStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeHealthStats(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}
