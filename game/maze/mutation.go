package maze

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// ToggleGates flips each gate independently with probability p and returns how many flipped.
// Gates are visited in row-major order so a seeded rng reproduces the same flips.
func (m *Maze) ToggleGates(p float64, rng *rand.Rand) int {
	flipped := 0
	for _, pos := range m.gateOrder() {
		if rng.Float64() < p {
			m.flipGate(pos)
			flipped++
		}
	}
	return flipped
}

// RelocateExits clears every exit and places a fresh, validated exit on each side.
func (m *Maze) RelocateExits(rng *rand.Rand) ExitReport {
	m.clearExits()
	return m.placeExits(rng)
}

// Morph flips outer-area Wall and Path cells with probability p each. Gates, exits and the
// positions in protected are never touched. It reports whether any cell changed.
func (m *Maze) Morph(p float64, rng *rand.Rand, protected mapset.Set[CellPosition]) bool {
	changed := false
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			pos := CellPosition{Row: row, Col: col}
			tag := m.grid[row][col]
			if tag != Wall && tag != Path {
				continue
			}
			if !m.IsOuterArea(pos) || protected.Has(pos) {
				continue
			}
			if _, gate := m.gates[pos]; gate {
				continue
			}
			if _, exit := m.exits[pos]; exit {
				continue
			}

			if rng.Float64() < p {
				if tag == Wall {
					m.grid[row][col] = Path
				} else {
					m.grid[row][col] = Wall
				}
				changed = true
			}
		}
	}
	return changed
}
