package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/wordflinger/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrBadSnapshot is returned (wrapped) when a snapshot holds unusable body state.
var ErrBadSnapshot = errors.New("bad snapshot")

// Snapshot holds the complete session state for replay or rendering.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`

	Tick  int32 `json:"tick"`
	Level int   `json:"level"`
	Score int   `json:"score"`

	Bodies []BodyState `json:"bodies"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BodyState holds one body's complete state.
type BodyState struct {
	ID      uint32           `json:"id"`
	Kind    components.Kind  `json:"kind"`
	Shape   components.Shape `json:"shape"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	VelX    float64          `json:"vel_x"`
	VelY    float64          `json:"vel_y"`
	Mass    float64          `json:"mass"`
	Padding float64          `json:"padding,omitempty"`
	Active  bool             `json:"active"`

	Health int    `json:"health,omitempty"`
	Hit    bool   `json:"hit,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// BodyStateOf captures the state of b.
func BodyStateOf(b *components.Body) BodyState {
	s := BodyState{
		ID:      b.ID,
		Kind:    b.Kind,
		Shape:   b.Shape,
		X:       b.Pos.X,
		Y:       b.Pos.Y,
		Width:   b.Width,
		Height:  b.Height,
		VelX:    b.Vel.X,
		VelY:    b.Vel.Y,
		Mass:    b.Mass,
		Padding: b.Padding,
		Active:  b.Active,
		Health:  b.Health,
		Hit:     b.Hit,
	}
	if b.Symbol != 0 {
		s.Symbol = string(b.Symbol)
	}
	return s
}

// Validate reports whether the state can be turned back into a body.
func (s BodyState) Validate() error {
	for _, v := range []float64{s.X, s.Y, s.VelX, s.VelY, s.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: body %d has non-finite state", ErrBadSnapshot, s.ID)
		}
	}
	for _, v := range []float64{s.Width, s.Height, s.Mass} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: body %d needs positive size and mass", ErrBadSnapshot, s.ID)
		}
	}
	if s.Health < 0 {
		return fmt.Errorf("%w: body %d has negative health", ErrBadSnapshot, s.ID)
	}
	switch {
	case s.Kind == components.KindProjectile && s.Shape == components.ShapeCircle:
	case s.Kind == components.KindObstacle && s.Shape == components.ShapeBox:
	default:
		return fmt.Errorf("%w: body %d has kind %d with shape %d", ErrBadSnapshot, s.ID, s.Kind, s.Shape)
	}
	return nil
}

// ToBody rebuilds the body. The state must have passed Validate.
func (s BodyState) ToBody() *components.Body {
	b := &components.Body{
		ID:      s.ID,
		Kind:    s.Kind,
		Shape:   s.Shape,
		Pos:     components.Vec(s.X, s.Y),
		Width:   s.Width,
		Height:  s.Height,
		Vel:     components.Vec(s.VelX, s.VelY),
		Mass:    s.Mass,
		Padding: s.Padding,
		Active:  s.Active,
		Health:  s.Health,
		Hit:     s.Hit,
	}
	for _, r := range s.Symbol {
		b.Symbol = r
		break
	}
	return b
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk and validates every body.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadSnapshot, snapshot.Version, SnapshotVersion)
	}
	for _, b := range snapshot.Bodies {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	return &snapshot, nil
}
