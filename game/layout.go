package game

import (
	"math/rand"

	"github.com/pthm-cable/wordflinger/components"
)

// Structure kinds used by generated levels.
const (
	structurePyramid = iota
	structureColumn
	structurePlatform
	numStructureKinds
)

// pyramid stacks rows of blocks, each row one shorter than the one below and
// centered on baseX. Row 0 sits at baseY; later rows rise by one block height.
func pyramid(baseX, baseY float64, rows int, bw, bh float64, spec components.ObstacleSpec) []*components.Body {
	var blocks []*components.Body
	for row := range rows {
		inRow := rows - row
		for col := range inRow {
			x := baseX + bw*float64(col) - bw*float64(inRow)/2 + bw/2
			y := baseY - float64(row)*bh
			blocks = append(blocks, components.NewObstacle(x, y, bw, bh, spec))
		}
	}
	return blocks
}

// column stacks height blocks upward from baseY.
func column(baseX, baseY float64, height int, bw, bh float64, spec components.ObstacleSpec) []*components.Body {
	blocks := make([]*components.Body, 0, height)
	for row := range height {
		y := baseY - float64(row)*bh
		blocks = append(blocks, components.NewObstacle(baseX, y, bw, bh, spec))
	}
	return blocks
}

// platform lays length blocks side by side starting at startX.
func platform(startX, y float64, length int, bw, bh float64, spec components.ObstacleSpec) []*components.Body {
	blocks := make([]*components.Body, 0, length)
	for col := range length {
		x := startX + float64(col)*bw
		blocks = append(blocks, components.NewObstacle(x, y, bw, bh, spec))
	}
	return blocks
}

// LevelLayout builds the obstacles for a level. Levels 1 to 3 are fixed;
// later levels place 2+level/2 random structures drawn from rng.
func LevelLayout(level int, rng *rand.Rand, spec components.ObstacleSpec) []*components.Body {
	var blocks []*components.Body
	add := func(b []*components.Body) { blocks = append(blocks, b...) }

	switch level {
	case 1:
		add(pyramid(700, 400, 5, 40, 40, spec))
	case 2:
		add(column(650, 380, 5, 40, 40, spec))
		add(column(800, 380, 5, 40, 40, spec))
		add(platform(650, 340, 4, 40, 20, spec))
	case 3:
		add(column(650, 400, 3, 40, 40, spec))
		add(column(750, 400, 3, 40, 40, spec))
		add(column(850, 400, 3, 40, 40, spec))
		add(platform(650, 280, 6, 40, 20, spec))
		add(pyramid(700, 260, 3, 40, 40, spec))
	default:
		n := 2 + level/2
		block := float64(30 + level)
		for range n {
			kind := rng.Intn(numStructureKinds)
			x := float64(600 + rng.Intn(300))
			y := float64(300 + rng.Intn(180))
			size := 2 + rng.Intn(4)

			switch kind {
			case structurePyramid:
				add(pyramid(x, y, size, block, block, spec))
			case structureColumn:
				add(column(x, y, size, block, block, spec))
			case structurePlatform:
				add(platform(x, y, size, float64(40+level), float64(20+level/2), spec))
			}
		}
	}

	return blocks
}
