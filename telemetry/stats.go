package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Level int `csv:"level"`
	Score int `csv:"score"`

	// Body counts at window end
	Obstacles        int `csv:"obstacles"`
	Projectiles      int `csv:"projectiles"`
	ObstaclesDamaged int `csv:"obstacles_damaged"`

	// Events during window
	Launches         int     `csv:"launches"`
	Contacts         int     `csv:"contacts"`
	Impulses         int     `csv:"impulses"`
	Impacts          int     `csv:"impacts"`
	DamageDealt      int     `csv:"damage"`
	Deactivated      int     `csv:"deactivated"`
	LevelsCompleted  int     `csv:"levels_completed"`
	ImpactsPerLaunch float64 `csv:"impacts_per_launch"`

	// Obstacle health distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	// Motion
	KineticEnergy float64 `csv:"kinetic_energy"` // sampled at window end
	MaxSpeed      float64 `csv:"max_speed"`      // peak over the window
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeHealthStats calculates mean and percentiles from health values.
func ComputeHealthStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("level", s.Level),
		slog.Int("score", s.Score),
		slog.Int("obstacles", s.Obstacles),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("obstacles_damaged", s.ObstaclesDamaged),
		slog.Int("launches", s.Launches),
		slog.Int("contacts", s.Contacts),
		slog.Int("impulses", s.Impulses),
		slog.Int("impacts", s.Impacts),
		slog.Int("damage", s.DamageDealt),
		slog.Int("deactivated", s.Deactivated),
		slog.Int("levels_completed", s.LevelsCompleted),
		slog.Float64("impacts_per_launch", s.ImpactsPerLaunch),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_speed", s.MaxSpeed),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"level", s.Level,
		"score", s.Score,
		"obstacles", s.Obstacles,
		"damaged", s.ObstaclesDamaged,
		"launches", s.Launches,
		"impacts", s.Impacts,
		"damage", s.DamageDealt,
		"health_mean", s.HealthMean,
		"kinetic_energy", s.KineticEnergy,
	)
}
