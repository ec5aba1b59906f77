package maze

// The functions in this file are the only writers of the gate and exit registries.
// A registry entry always implies the matching cell tag and vice versa.

// setGate registers a gate at pos with the given state and stamps its tag.
func (m *Maze) setGate(pos CellPosition, open bool) {
	m.gates[pos] = open
	m.grid[pos.Row][pos.Col] = SafeZoneGate
}

// flipGate inverts the state of a registered gate.
func (m *Maze) flipGate(pos CellPosition) {
	if open, ok := m.gates[pos]; ok {
		m.gates[pos] = !open
	}
}

// placeExit registers an exit at pos and stamps its tag.
func (m *Maze) placeExit(pos CellPosition) {
	m.exits[pos] = true
	m.grid[pos.Row][pos.Col] = ExitGate
}

// removeExit drops the exit at pos and reverts the cell to border.
func (m *Maze) removeExit(pos CellPosition) {
	if _, ok := m.exits[pos]; !ok {
		return
	}
	delete(m.exits, pos)
	m.grid[pos.Row][pos.Col] = OuterBorder
}

// clearExits removes every exit.
func (m *Maze) clearExits() {
	for pos := range m.exits {
		m.removeExit(pos)
	}
}

// ValidGatePositions returns the non-corner cells of the glade ring in a fixed order:
// north, south, west, east, each scanned left to right or top to bottom.
func (m *Maze) ValidGatePositions() []CellPosition {
	c := m.Center()
	positions := make([]CellPosition, 0, 12)
	for col := c.Col - coreRadius; col <= c.Col+coreRadius; col++ {
		positions = append(positions, CellPosition{Row: c.Row - ringRadius, Col: col})
	}
	for col := c.Col - coreRadius; col <= c.Col+coreRadius; col++ {
		positions = append(positions, CellPosition{Row: c.Row + ringRadius, Col: col})
	}
	for row := c.Row - coreRadius; row <= c.Row+coreRadius; row++ {
		positions = append(positions, CellPosition{Row: row, Col: c.Col - ringRadius})
	}
	for row := c.Row - coreRadius; row <= c.Row+coreRadius; row++ {
		positions = append(positions, CellPosition{Row: row, Col: c.Col + ringRadius})
	}
	return positions
}

// GateSide returns the ring side a gate position sits on.
func (m *Maze) GateSide(pos CellPosition) Side {
	c := m.Center()
	switch {
	case pos.Row == c.Row-ringRadius:
		return North
	case pos.Row == c.Row+ringRadius:
		return South
	case pos.Col == c.Col-ringRadius:
		return West
	default:
		return East
	}
}

// GateExterior returns the cell immediately outside a gate, away from the glade.
func (m *Maze) GateExterior(pos CellPosition) CellPosition {
	return pos.Add(m.GateSide(pos).Outward())
}

// ExitSide returns the border side an exit position sits on.
func (m *Maze) ExitSide(pos CellPosition) Side {
	switch {
	case pos.Row == 0:
		return North
	case pos.Row == m.height-1:
		return South
	case pos.Col == 0:
		return West
	default:
		return East
	}
}

// ExitCandidates returns the non-corner border cells of a side.
func (m *Maze) ExitCandidates(side Side) []CellPosition {
	var positions []CellPosition
	switch side {
	case North, South:
		row := 0
		if side == South {
			row = m.height - 1
		}
		for col := 1; col < m.width-1; col++ {
			positions = append(positions, CellPosition{Row: row, Col: col})
		}
	case West, East:
		col := 0
		if side == East {
			col = m.width - 1
		}
		for row := 1; row < m.height-1; row++ {
			positions = append(positions, CellPosition{Row: row, Col: col})
		}
	}
	return positions
}

// ExitOn returns the exit registered on side, if any.
func (m *Maze) ExitOn(side Side) (CellPosition, bool) {
	for pos := range m.exits {
		if m.ExitSide(pos) == side {
			return pos, true
		}
	}
	return CellPosition{}, false
}
