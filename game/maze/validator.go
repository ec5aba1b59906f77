package maze

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// reachable floods the maze from every path cell along the inner rim of the border,
// moving through Path and ExitGate cells. Gate state is ignored: exits do not depend on the glade.
func (m *Maze) reachable() mapset.Set[CellPosition] {
	visited := mapset.New[CellPosition]()
	var queue []CellPosition

	seed := func(pos CellPosition) {
		if m.grid[pos.Row][pos.Col] == Path && !visited.Has(pos) {
			visited.Put(pos)
			queue = append(queue, pos)
		}
	}
	for col := 1; col < m.width-1; col++ {
		seed(CellPosition{Row: 1, Col: col})
		seed(CellPosition{Row: m.height - 2, Col: col})
	}
	for row := 1; row < m.height-1; row++ {
		seed(CellPosition{Row: row, Col: 1})
		seed(CellPosition{Row: row, Col: m.width - 2})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, name := range DirectionNames {
			next := cur.Add(Directions[name])
			if !m.InBound(next) || visited.Has(next) {
				continue
			}
			if tag := m.grid[next.Row][next.Col]; tag == Path || tag == ExitGate {
				visited.Put(next)
				queue = append(queue, next)
			}
		}
	}

	return visited
}

// ReachableExits returns the registered exits reachable from the outer path network.
// It does not modify the maze.
func (m *Maze) ReachableExits() map[CellPosition]bool {
	visited := m.reachable()
	out := make(map[CellPosition]bool, len(m.exits))
	for pos := range m.exits {
		if visited.Has(pos) {
			out[pos] = true
		}
	}
	return out
}

// ValidateExits removes every unreachable exit, reverting its cell to border,
// and returns the removed positions in row-major order.
func (m *Maze) ValidateExits() []CellPosition {
	reachable := m.ReachableExits()
	var removed []CellPosition
	for pos := range m.exits {
		if !reachable[pos] {
			removed = append(removed, pos)
		}
	}
	slices.SortFunc(removed, comparePositions)

	for _, pos := range removed {
		m.removeExit(pos)
	}
	return removed
}

func comparePositions(a, b CellPosition) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}
