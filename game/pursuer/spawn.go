package pursuer

import (
	"github.com/beka-birhanu/glade/game/maze"
	"github.com/zyedidia/generic/mapset"
)

// minSpawnDistance keeps fresh pursuers at least one cell away from the glade ring.
const minSpawnDistance = 4

// Spawn places count pursuers, each on the free passable outer cell closest to one of the
// board corners in turn (top-left, top-right, bottom-left, bottom-right). Fewer pursuers are
// returned when the maze runs out of free cells.
func Spawn(m *maze.Maze, count int) []*Pursuer {
	corners := []maze.CellPosition{
		{Row: 1, Col: 1},
		{Row: 1, Col: m.Width() - 2},
		{Row: m.Height() - 2, Col: 1},
		{Row: m.Height() - 2, Col: m.Width() - 2},
	}

	center := m.Center()
	var candidates []maze.CellPosition
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			pos := maze.CellPosition{Row: row, Col: col}
			if m.CellAt(pos) != maze.Path || !m.IsOuterArea(pos) {
				continue
			}
			if max(abs(row-center.Row), abs(col-center.Col)) < minSpawnDistance {
				continue
			}
			candidates = append(candidates, pos)
		}
	}

	taken := mapset.New[maze.CellPosition]()
	pursuers := make([]*Pursuer, 0, count)
	for i := 0; i < count; i++ {
		corner := corners[i%len(corners)]
		best, found := maze.CellPosition{}, false
		bestDist := 0
		for _, pos := range candidates {
			if taken.Has(pos) {
				continue
			}
			d := abs(pos.Row-corner.Row) + abs(pos.Col-corner.Col)
			if !found || d < bestDist {
				best, bestDist, found = pos, d, true
			}
		}
		if !found {
			break
		}
		taken.Put(best)
		pursuers = append(pursuers, New(best))
	}

	return pursuers
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
