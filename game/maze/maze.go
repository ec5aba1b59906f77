/*
Package maze provides the grid of the glade game and the operations that shape it.

A Maze is a rectangular matrix of Cell tags with a fixed geography: an outer border, a 3x3 safe
zone (the glade) in the centre and a 5x5 ring of wall around it. Gates in the ring and exits in the
border are tracked in two registries whose contents are always mirrored by the cell tags.

The package generates mazes with a randomised depth-first search seeded from the glade gates,
validates that every exit can be reached, toggles gates, relocates exits and morphs the outer maze.
Every stochastic operation draws from the *rand.Rand handed to it.
*/
package maze

import (
	"errors"
	"maps"
	"strings"
)

const (
	// MinDimension is the smallest board side that leaves room for an outer corridor.
	MinDimension = 9

	coreRadius  = 1 // 3x3 glade
	ringRadius  = 2 // 5x5 ring
	outerRadius = 3 // first Chebyshev distance of the outer area
)

var (
	ErrBoardTooSmall = errors.New("board dimension is not big enough")
	ErrOutOfBounds   = errors.New("position is out of the maze")
)

// Maze holds the grid together with the gate and exit registries projected onto it.
type Maze struct {
	width  int
	height int
	grid   [][]Cell
	gates  map[CellPosition]bool // gate position -> open
	exits  map[CellPosition]bool // exit position -> active
}

// newBlank allocates a maze filled with walls.
func newBlank(width, height int) (*Maze, error) {
	if width < MinDimension || height < MinDimension {
		return nil, ErrBoardTooSmall
	}

	grid := make([][]Cell, height)
	for row := range grid {
		grid[row] = make([]Cell, width)
		for col := range grid[row] {
			grid[row][col] = Wall
		}
	}

	return &Maze{
		width:  width,
		height: height,
		grid:   grid,
		gates:  make(map[CellPosition]bool),
		exits:  make(map[CellPosition]bool),
	}, nil
}

// Width returns the number of columns.
func (m *Maze) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Maze) Height() int {
	return m.height
}

// Center returns the middle cell of the glade.
func (m *Maze) Center() CellPosition {
	return CellPosition{Row: m.height / 2, Col: m.width / 2}
}

// InBound reports whether the position lies on the board.
func (m *Maze) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < m.height && pos.Col >= 0 && pos.Col < m.width
}

// CellAt returns the tag at pos. Out of bound positions read as OuterBorder.
func (m *Maze) CellAt(pos CellPosition) Cell {
	if !m.InBound(pos) {
		return OuterBorder
	}
	return m.grid[pos.Row][pos.Col]
}

// Cells returns a copy of the grid, indexed [row][col].
func (m *Maze) Cells() [][]Cell {
	out := make([][]Cell, m.height)
	for row := range m.grid {
		out[row] = make([]Cell, m.width)
		copy(out[row], m.grid[row])
	}
	return out
}

// Gates returns a copy of the gate registry.
func (m *Maze) Gates() map[CellPosition]bool {
	return maps.Clone(m.gates)
}

// Exits returns a copy of the exit registry.
func (m *Maze) Exits() map[CellPosition]bool {
	return maps.Clone(m.exits)
}

// IsGateOpen reports whether pos is a registered gate in the open state.
func (m *Maze) IsGateOpen(pos CellPosition) bool {
	return m.gates[pos]
}

// IsExit reports whether pos is a registered exit.
func (m *Maze) IsExit(pos CellPosition) bool {
	return m.exits[pos]
}

// OpenGates counts the gates currently open.
func (m *Maze) OpenGates() int {
	n := 0
	for _, open := range m.gates {
		if open {
			n++
		}
	}
	return n
}

// chebyshev returns the Chebyshev distance of pos from the board centre.
func (m *Maze) chebyshev(pos CellPosition) int {
	c := m.Center()
	return max(abs(pos.Row-c.Row), abs(pos.Col-c.Col))
}

// InSafeZone reports whether pos lies inside the 3x3 glade.
func (m *Maze) InSafeZone(pos CellPosition) bool {
	return m.chebyshev(pos) <= coreRadius
}

// IsOuterArea reports whether pos lies strictly outside the glade ring.
func (m *Maze) IsOuterArea(pos CellPosition) bool {
	return m.InBound(pos) && m.chebyshev(pos) >= outerRadius
}

// PassableForPursuer reports whether a pursuer may stand on pos.
// The glade and its ring are a permanent refuge.
func (m *Maze) PassableForPursuer(pos CellPosition) bool {
	if !m.InBound(pos) {
		return false
	}
	switch m.grid[pos.Row][pos.Col] {
	case Path, ExitGate:
		return true
	case SafeZoneGate:
		return m.gates[pos]
	default:
		return false
	}
}

// PassableForPlayer reports whether the player may stand on pos. It matches
// PassableForPursuer except that the glade itself is walkable.
func (m *Maze) PassableForPlayer(pos CellPosition) bool {
	if m.CellAt(pos) == SafeZoneCore && m.InBound(pos) {
		return true
	}
	return m.PassableForPursuer(pos)
}

// String provides a textual representation of the maze.
func (m *Maze) String() string {
	var sb strings.Builder
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			pos := CellPosition{Row: row, Col: col}
			switch m.grid[row][col] {
			case Wall:
				sb.WriteByte('#')
			case Path:
				sb.WriteByte(' ')
			case SafeZoneCore:
				sb.WriteByte('.')
			case SafeZoneRing:
				sb.WriteByte('%')
			case OuterBorder:
				sb.WriteByte('@')
			case SafeZoneGate:
				if m.gates[pos] {
					sb.WriteByte('+')
				} else {
					sb.WriteByte('-')
				}
			case ExitGate:
				sb.WriteByte('E')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
