package telemetry

import "testing"

var testThresholds = BookmarkThresholds{
	CollapseHealthDrop: 25,
	SettledMaxSpeed:    40,
	SettledWindows:     3,
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Collapse(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	bd.Check(WindowStats{WindowEndTick: 120, Level: 1, Obstacles: 15, HealthMean: 100, KineticEnergy: 1e4})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 240, Level: 1, Obstacles: 15, HealthMean: 60, KineticEnergy: 1e4})

	if !hasBookmark(bookmarks, BookmarkCollapse) {
		t.Error("expected collapse bookmark")
	}
}

func TestBookmarkDetector_CollapseIgnoresLevelChange(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	bd.Check(WindowStats{WindowEndTick: 120, Level: 1, Obstacles: 15, HealthMean: 100})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 240, Level: 2, Obstacles: 12, HealthMean: 10})

	if hasBookmark(bookmarks, BookmarkCollapse) {
		t.Error("health drop across a level change is not a collapse")
	}
}

func TestBookmarkDetector_SmallDropIgnored(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	bd.Check(WindowStats{WindowEndTick: 120, Level: 1, Obstacles: 15, HealthMean: 100})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 240, Level: 1, Obstacles: 15, HealthMean: 90})

	if hasBookmark(bookmarks, BookmarkCollapse) {
		t.Error("unexpected collapse bookmark for a 10 point drop")
	}
}

func TestBookmarkDetector_Settled(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	// Calm before anything happened does not count
	for i := range 5 {
		if bm := bd.Check(WindowStats{WindowEndTick: int32(i * 120)}); hasBookmark(bm, BookmarkSettled) {
			t.Fatal("settled reported before any activity")
		}
	}

	bd.Check(WindowStats{WindowEndTick: 720, Launches: 5, MaxSpeed: 400})

	// Heavy blocks at rest carry plenty of energy but do not move
	var triggered int
	for i := range 6 {
		bm := bd.Check(WindowStats{WindowEndTick: int32(840 + i*120), KineticEnergy: 1.5e5, MaxSpeed: 20, Impacts: 30})
		if hasBookmark(bm, BookmarkSettled) {
			triggered++
			if i != testThresholds.SettledWindows-1 {
				t.Errorf("settled triggered after %d calm windows, want %d", i+1, testThresholds.SettledWindows)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("settled triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_LevelComplete(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	bookmarks := bd.Check(WindowStats{WindowEndTick: 600, Level: 2, Score: 150, LevelsCompleted: 1})

	if !hasBookmark(bookmarks, BookmarkLevelComplete) {
		t.Fatal("expected level_complete bookmark")
	}
	if bookmarks[0].Tick != 600 {
		t.Errorf("tick = %d, want 600", bookmarks[0].Tick)
	}
}

func TestBookmarkDetector_SettledResetsOnMotion(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	bd.Check(WindowStats{WindowEndTick: 120, Launches: 1, MaxSpeed: 400})
	bd.Check(WindowStats{WindowEndTick: 240, MaxSpeed: 10})
	bd.Check(WindowStats{WindowEndTick: 360, MaxSpeed: 10})
	// A collapse spike restarts the count
	bd.Check(WindowStats{WindowEndTick: 480, MaxSpeed: 90, DamageDealt: 12})

	for i := range 2 {
		if bm := bd.Check(WindowStats{WindowEndTick: int32(600 + i*120), MaxSpeed: 10}); hasBookmark(bm, BookmarkSettled) {
			t.Fatalf("settled after %d calm windows following motion", i+1)
		}
	}
	if bm := bd.Check(WindowStats{WindowEndTick: 840, MaxSpeed: 10}); !hasBookmark(bm, BookmarkSettled) {
		t.Error("expected settled bookmark after three calm windows")
	}
}

func TestBookmarkDetector_ImpactsAloneAreNotActivity(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	for i := range 6 {
		bm := bd.Check(WindowStats{WindowEndTick: int32(i * 120), Impacts: 40, MaxSpeed: 5})
		if hasBookmark(bm, BookmarkSettled) {
			t.Fatal("settled reported from damage-free resting contacts")
		}
	}
}
