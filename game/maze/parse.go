package maze

import (
	"fmt"
)

// Parse builds a maze from rows of glyphs as produced by String:
//
//	# wall   ' ' path   . glade   % ring   @ border   + open gate   - closed gate   E exit
//
// Parse does not enforce the generated geography, which makes it suitable for
// hand-built boards. Rows must all have the same length.
func Parse(lines []string) (*Maze, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, fmt.Errorf("empty layout")
	}

	width := len(lines[0])
	m := &Maze{
		width:  width,
		height: len(lines),
		grid:   make([][]Cell, len(lines)),
		gates:  make(map[CellPosition]bool),
		exits:  make(map[CellPosition]bool),
	}

	for row, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", row, len(line), width)
		}
		m.grid[row] = make([]Cell, width)
		for col, ch := range []byte(line) {
			pos := CellPosition{Row: row, Col: col}
			switch ch {
			case '#':
				m.grid[row][col] = Wall
			case ' ':
				m.grid[row][col] = Path
			case '.':
				m.grid[row][col] = SafeZoneCore
			case '%':
				m.grid[row][col] = SafeZoneRing
			case '@':
				m.grid[row][col] = OuterBorder
			case '+':
				m.setGate(pos, true)
			case '-':
				m.setGate(pos, false)
			case 'E':
				m.placeExit(pos)
			default:
				return nil, fmt.Errorf("unknown glyph %q at row %d col %d", ch, row, col)
			}
		}
	}

	return m, nil
}
