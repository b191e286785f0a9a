package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/wordflinger/components"
	"github.com/pthm-cable/wordflinger/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, telemetry.WorldState{
		Level:         s.level,
		Score:         s.score,
		Bodies:        s.bodies,
		DamagedHealth: s.cfg.Level.DamagedHealth,
	})
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.outputManager != nil {
			if err := s.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if s.snapshotDir != "" {
			s.SaveSnapshot(s.snapshotDir, &bm)
		}
	}
}

// SaveSnapshot writes the current state to dir and returns the file path.
// Failures are logged and reported as an empty path.
func (s *Session) SaveSnapshot(dir string, bookmark *telemetry.Bookmark) string {
	path, err := telemetry.SaveSnapshot(s.Snapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return ""
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
	return path
}

// Snapshot captures the current state.
func (s *Session) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     s.rngSeed,
		WorldWidth:  s.cfg.World.Width,
		WorldHeight: s.cfg.World.Height,
		Tick:        s.tick,
		Level:       s.level,
		Score:       s.score,
		Bodies:      make([]telemetry.BodyState, 0, len(s.bodies)),
		Bookmark:    bookmark,
	}
	for _, b := range s.bodies {
		snapshot.Bodies = append(snapshot.Bodies, telemetry.BodyStateOf(b))
	}
	return snapshot
}

// Restore replaces the session state with a snapshot's.
// The world dimensions must match the session's config.
func (s *Session) Restore(snapshot *telemetry.Snapshot) error {
	if snapshot.WorldWidth != s.cfg.World.Width || snapshot.WorldHeight != s.cfg.World.Height {
		return fmt.Errorf("snapshot world %vx%v does not match config %vx%v",
			snapshot.WorldWidth, snapshot.WorldHeight, s.cfg.World.Width, s.cfg.World.Height)
	}
	for _, b := range snapshot.Bodies {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	s.tick = snapshot.Tick
	s.level = max(snapshot.Level, 1)
	s.score = snapshot.Score
	s.bodies = make([]*components.Body, 0, len(snapshot.Bodies))
	s.nextID = 0
	for _, bs := range snapshot.Bodies {
		b := bs.ToBody()
		s.bodies = append(s.bodies, b)
		s.nextID = max(s.nextID, b.ID)
	}

	slog.Info("snapshot restored", "tick", s.tick, "level", s.level, "bodies", len(s.bodies))
	return nil
}
