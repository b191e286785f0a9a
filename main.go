package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/wordflinger/config"
	"github.com/pthm-cable/wordflinger/game"
	"github.com/pthm-cable/wordflinger/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 3600, "Stop after N ticks")
	dt := flag.Float64("dt", 0, "Seconds per tick (0 = use config)")
	words := flag.String("words", "HELLO,WORLD,FLING", "Comma separated words to fling, in order")
	flingEvery := flag.Int("fling-every", 180, "Ticks between flings")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots")
	finalSnapshot := flag.String("snapshot", "", "Directory to write a snapshot of the final state")
	resume := flag.String("resume", "", "Snapshot file to resume from")
	verbose := flag.Bool("v", false, "Log every fling and impact")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dt > 0 {
		cfg.Physics.DT = *dt
		cfg.Refresh()
	}

	var snap *telemetry.Snapshot
	if *resume != "" {
		snap, err = telemetry.LoadSnapshot(*resume)
		if err != nil {
			slog.Error("failed to load snapshot", "path", *resume, "error", err)
			os.Exit(1)
		}
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 && snap != nil {
		rngSeed = snap.RNGSeed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := game.NewSession(cfg, game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to start session", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if snap != nil {
		if err := s.Restore(snap); err != nil {
			slog.Error("failed to restore snapshot", "path", *resume, "error", err)
			os.Exit(1)
		}
	}

	queue := game.SplitWords(*words)

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"dt", cfg.Physics.DT,
		"words", len(queue),
		"fling_every", *flingEvery,
	)

	start := time.Now()
	for steps := 0; steps < *maxTicks; steps++ {
		if len(queue) > 0 && (*flingEvery <= 0 || steps%*flingEvery == 0) {
			s.FlingWord(queue[0], nil)
			queue = queue[1:]
		}
		s.Update()
	}

	if *finalSnapshot != "" {
		s.SaveSnapshot(*finalSnapshot, nil)
	}

	totals := s.Totals()
	slog.Info("simulation finished",
		"tick", s.Tick(),
		"elapsed", time.Since(start).String(),
		"level", s.Level(),
		"score", s.Score(),
		"launches", totals.Launches,
		"impacts", totals.Impacts,
		"damage", totals.DamageDealt,
		"obstacles_destroyed", totals.ObstaclesDestroyed,
		"levels_completed", totals.LevelsCompleted,
	)
}
