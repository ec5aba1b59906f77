package maze

import (
	"math/rand"
	"slices"
)

// Options describes the board to generate.
type Options struct {
	Width     int // Number of columns (at least MinDimension)
	Height    int // Number of rows (at least MinDimension)
	GateCount int // Requested number of glade gates
}

// GenerationReport describes the corrections applied while generating a maze.
type GenerationReport struct {
	GatesRequested int        // Gate count asked for
	GatesPlaced    int        // Gate count actually placed
	GatesClamped   bool       // True when fewer valid positions than requested existed
	Exits          ExitReport // Exit placement outcome
}

// ExitReport describes one round of exit placement.
type ExitReport struct {
	Retries      int            // Placements discarded because the exit was unreachable
	Removed      []CellPosition // Discarded exit positions, in discard order
	MissingSides []Side         // Sides left without any reachable candidate
}

// Generate builds a maze around the glade:
// walls, border, glade, ring, gates, a depth-first outer maze, and one validated exit per side.
func Generate(opts Options, rng *rand.Rand) (*Maze, GenerationReport, error) {
	m, err := newBlank(opts.Width, opts.Height)
	if err != nil {
		return nil, GenerationReport{}, err
	}

	m.stampOuterBorder()
	m.stampSafeZone()
	report := m.placeGates(opts.GateCount, rng)
	order := m.gateOrder()
	m.carve(order, rng)
	m.connectGates(order)
	report.Exits = m.placeExits(rng)

	return m, report, nil
}

func (m *Maze) stampOuterBorder() {
	for col := 0; col < m.width; col++ {
		m.grid[0][col] = OuterBorder
		m.grid[m.height-1][col] = OuterBorder
	}
	for row := 0; row < m.height; row++ {
		m.grid[row][0] = OuterBorder
		m.grid[row][m.width-1] = OuterBorder
	}
}

// stampSafeZone draws the 3x3 glade and the perimeter of the 5x5 square around it.
func (m *Maze) stampSafeZone() {
	c := m.Center()
	for row := c.Row - ringRadius; row <= c.Row+ringRadius; row++ {
		for col := c.Col - ringRadius; col <= c.Col+ringRadius; col++ {
			pos := CellPosition{Row: row, Col: col}
			if !m.InBound(pos) || m.grid[row][col] == OuterBorder {
				continue
			}
			if m.chebyshev(pos) <= coreRadius {
				m.grid[row][col] = SafeZoneCore
			} else {
				m.grid[row][col] = SafeZoneRing
			}
		}
	}
}

// placeGates picks count distinct ring positions and gives each a random state.
func (m *Maze) placeGates(count int, rng *rand.Rand) GenerationReport {
	valid := m.ValidGatePositions()
	report := GenerationReport{GatesRequested: count}
	if count < 1 {
		count = 1
	}
	if count > len(valid) {
		count = len(valid)
		report.GatesClamped = true
	}

	for _, idx := range rng.Perm(len(valid))[:count] {
		m.setGate(valid[idx], rng.Intn(2) == 0)
	}
	report.GatesPlaced = count
	return report
}

// gateOrder returns the registered gates in row-major order.
func (m *Maze) gateOrder() []CellPosition {
	order := make([]CellPosition, 0, len(m.gates))
	for pos := range m.gates {
		order = append(order, pos)
	}
	slices.SortFunc(order, comparePositions)
	return order
}

// carve runs a randomised depth-first search over the outer area, two cells per step,
// starting from the cell outside each gate. Visited cells one step from the border also open
// the rim cell between them, so the corridor touches the border whatever the lattice parity.
func (m *Maze) carve(gates []CellPosition, rng *rand.Rand) {
	var stack []CellPosition
	for _, gate := range gates {
		start := m.GateExterior(gate)
		if m.InBound(start) && m.grid[start.Row][start.Col] == Wall {
			m.grid[start.Row][start.Col] = Path
			m.openRim(start)
			stack = append(stack, start)
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		candidates := m.unvisitedNeighbors(cur)
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		between := cur.Add(d)
		next := between.Add(d)
		m.grid[between.Row][between.Col] = Path
		m.grid[next.Row][next.Col] = Path
		m.openRim(next)
		stack = append(stack, next)
	}
}

// openRim carves the wall between cur and the border when the border is two steps away.
func (m *Maze) openRim(cur CellPosition) {
	for _, name := range DirectionNames {
		d := Directions[name]
		rim := cur.Add(d)
		if m.IsOuterArea(rim) && m.grid[rim.Row][rim.Col] == Wall && m.CellAt(rim.Add(d)) == OuterBorder {
			m.grid[rim.Row][rim.Col] = Path
		}
	}
}

// unvisitedNeighbors returns the unit steps d for which cur+2d is an outer-area wall.
func (m *Maze) unvisitedNeighbors(cur CellPosition) []CellPosition {
	candidates := make([]CellPosition, 0, 4)
	for _, name := range DirectionNames {
		d := Directions[name]
		target := cur.Add(d).Add(d)
		if m.IsOuterArea(target) && m.grid[target.Row][target.Col] == Wall {
			candidates = append(candidates, d)
		}
	}
	return candidates
}

// connectGates opens the exterior cell of every gate that the search left as wall.
func (m *Maze) connectGates(gates []CellPosition) {
	for _, gate := range gates {
		ext := m.GateExterior(gate)
		if m.InBound(ext) && m.grid[ext.Row][ext.Col] == Wall {
			m.grid[ext.Row][ext.Col] = Path
		}
	}
}

// placeExits fills every side that lacks an exit with a random border cell, then validates.
// Unreachable exits are discarded and their side retried with the remaining candidates, so the
// loop ends even when a side has no reachable cell at all.
func (m *Maze) placeExits(rng *rand.Rand) ExitReport {
	var report ExitReport
	pools := make(map[Side][]CellPosition)
	for _, side := range Sides {
		if _, ok := m.ExitOn(side); !ok {
			pools[side] = m.ExitCandidates(side)
		}
	}

	for {
		placed := false
		for _, side := range Sides {
			pool, pending := pools[side]
			if !pending {
				continue
			}
			if _, ok := m.ExitOn(side); ok {
				delete(pools, side)
				continue
			}
			if len(pool) == 0 {
				delete(pools, side)
				report.MissingSides = append(report.MissingSides, side)
				continue
			}

			idx := rng.Intn(len(pool))
			pos := pool[idx]
			pools[side] = append(pool[:idx], pool[idx+1:]...)
			m.placeExit(pos)
			placed = true
		}

		if !placed {
			return report
		}

		removed := m.ValidateExits()
		report.Removed = append(report.Removed, removed...)
		report.Retries += len(removed)
	}
}
