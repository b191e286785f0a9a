package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCollapse      BookmarkType = "collapse"
	BookmarkSettled       BookmarkType = "settled"
	BookmarkLevelComplete BookmarkType = "level_complete"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkThresholds configures the detector.
type BookmarkThresholds struct {
	CollapseHealthDrop float64 // mean obstacle health drop between windows
	SettledMaxSpeed    float64 // window peak body speed below which the world is calm
	SettledWindows     int     // consecutive calm windows before settling is reported
}

// BookmarkDetector detects interesting moments in a session.
type BookmarkDetector struct {
	thresholds BookmarkThresholds

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	calmWindows int
	sawActivity bool // launches or damage since the last settle
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, thresholds BookmarkThresholds) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	if thresholds.SettledWindows < 1 {
		thresholds.SettledWindows = 1
	}
	return &BookmarkDetector{
		thresholds:  thresholds,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkLevelComplete(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// previous returns the most recently recorded window.
func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkLevelComplete(stats WindowStats) *Bookmark {
	if stats.LevelsCompleted == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLevelComplete,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Reached level %d with score %d", stats.Level, stats.Score),
	}
}

func (bd *BookmarkDetector) checkCollapse(stats WindowStats) *Bookmark {
	prev, ok := bd.previous()
	if !ok || prev.Level != stats.Level || prev.Obstacles == 0 {
		return nil
	}

	drop := prev.HealthMean - stats.HealthMean
	if drop < bd.thresholds.CollapseHealthDrop {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCollapse,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean obstacle health fell %.0f (%.0f to %.0f)", drop, prev.HealthMean, stats.HealthMean),
	}
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	// Resting contacts keep counting impacts, so only damage marks activity.
	if stats.Launches > 0 || stats.DamageDealt > 0 {
		bd.sawActivity = true
	}
	if !bd.sawActivity {
		return nil
	}

	if stats.MaxSpeed > bd.thresholds.SettledMaxSpeed {
		bd.calmWindows = 0
		return nil
	}
	bd.calmWindows++
	if bd.calmWindows < bd.thresholds.SettledWindows {
		return nil
	}

	bd.calmWindows = 0
	bd.sawActivity = false
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("World settled with %d obstacles, %d damaged", stats.Obstacles, stats.ObstaclesDamaged),
	}
}
