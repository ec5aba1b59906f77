package maze

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"
)

// smallBoard is a hand-built 9x9 board with one open north gate and one exit above it.
var smallBoard = []string{
	"@@@@E@@@@",
	"@       @",
	"@ %%+%% @",
	"@ %...% @",
	"@ %...% @",
	"@ %...% @",
	"@ %%%%% @",
	"@       @",
	"@@@@@@@@@",
}

func generate(t *testing.T, width, height, gates int, seed int64) (*Maze, GenerationReport) {
	t.Helper()
	m, report, err := Generate(Options{Width: width, Height: height, GateCount: gates}, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return m, report
}

func lines(m *Maze) []string {
	return strings.Split(strings.TrimSuffix(m.String(), "\n"), "\n")
}

func TestGenerate(t *testing.T) {
	sizes := []struct{ w, h int }{{9, 9}, {21, 21}, {25, 25}, {31, 31}, {27, 19}}

	for _, size := range sizes {
		for seed := int64(1); seed <= 25; seed++ {
			m, report := generate(t, size.w, size.h, 4, seed)
			c := m.Center()

			t.Run("geography", func(t *testing.T) {
				for row := 0; row < m.Height(); row++ {
					for col := 0; col < m.Width(); col++ {
						pos := CellPosition{Row: row, Col: col}
						tag := m.CellAt(pos)
						onBorder := row == 0 || col == 0 || row == m.Height()-1 || col == m.Width()-1
						switch {
						case onBorder:
							assert.Contains(t, []Cell{OuterBorder, ExitGate}, tag, "border %v", pos)
						case m.InSafeZone(pos):
							assert.Equal(t, SafeZoneCore, tag, "core %v", pos)
						case !m.IsOuterArea(pos):
							assert.Contains(t, []Cell{SafeZoneRing, SafeZoneGate}, tag, "ring %v", pos)
						default:
							assert.Contains(t, []Cell{Wall, Path}, tag, "outer %v", pos)
						}
					}
				}
				assert.Equal(t, SafeZoneCore, m.CellAt(c))
			})

			t.Run("registries mirror tags", func(t *testing.T) {
				for row := 0; row < m.Height(); row++ {
					for col := 0; col < m.Width(); col++ {
						pos := CellPosition{Row: row, Col: col}
						_, gate := m.Gates()[pos]
						assert.Equal(t, gate, m.CellAt(pos) == SafeZoneGate, "gate %v", pos)
						assert.Equal(t, m.IsExit(pos), m.CellAt(pos) == ExitGate, "exit %v", pos)
					}
				}
			})

			t.Run("gates", func(t *testing.T) {
				assert.Len(t, m.Gates(), 4)
				assert.Equal(t, 4, report.GatesPlaced)
				assert.False(t, report.GatesClamped)
				valid := m.ValidGatePositions()
				for pos := range m.Gates() {
					assert.Contains(t, valid, pos)
					assert.Equal(t, Path, m.CellAt(m.GateExterior(pos)), "gate %v exterior", pos)
				}
			})

			t.Run("exits", func(t *testing.T) {
				exits := m.Exits()
				assert.Equal(t, len(exits), len(m.ReachableExits()))
				assert.Equal(t, 4, len(exits)+len(report.Exits.MissingSides))
				assert.NotEmpty(t, exits)

				sides := mapset.New[Side]()
				for pos := range exits {
					side := m.ExitSide(pos)
					assert.False(t, sides.Has(side), "two exits on %s", side)
					sides.Put(side)
					assert.Contains(t, m.ExitCandidates(side), pos)
				}
				if size.w >= 21 && size.h >= 19 {
					assert.Empty(t, report.Exits.MissingSides)
				}
			})
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, ra := generate(t, 25, 25, 4, 42)
	b, rb := generate(t, 25, 25, 4, 42)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, a.Gates(), b.Gates())
	assert.Equal(t, ra, rb)
}

func TestGenerateBoardTooSmall(t *testing.T) {
	_, _, err := Generate(Options{Width: 8, Height: 25, GateCount: 4}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrBoardTooSmall)

	_, _, err = Generate(Options{Width: 25, Height: 3, GateCount: 4}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrBoardTooSmall)
}

func TestGateCount(t *testing.T) {
	t.Run("clamped to ring capacity", func(t *testing.T) {
		m, report := generate(t, 25, 25, 20, 7)
		assert.Len(t, m.Gates(), 12)
		assert.True(t, report.GatesClamped)
		assert.Equal(t, 20, report.GatesRequested)
		assert.Equal(t, 12, report.GatesPlaced)
	})

	t.Run("at least one gate", func(t *testing.T) {
		m, report := generate(t, 25, 25, 0, 7)
		assert.Len(t, m.Gates(), 1)
		assert.Equal(t, 1, report.GatesPlaced)
	})
}

func TestValidGatePositions(t *testing.T) {
	m, err := Parse(smallBoard)
	require.NoError(t, err)

	positions := m.ValidGatePositions()
	assert.Len(t, positions, 12)
	for _, pos := range positions {
		assert.Equal(t, 2, m.chebyshev(pos))
		c := m.Center()
		assert.False(t, abs(pos.Row-c.Row) == 2 && abs(pos.Col-c.Col) == 2, "corner %v", pos)
	}

	assert.Equal(t, North, m.GateSide(CellPosition{Row: 2, Col: 4}))
	assert.Equal(t, CellPosition{Row: 1, Col: 4}, m.GateExterior(CellPosition{Row: 2, Col: 4}))
	assert.Equal(t, CellPosition{Row: 7, Col: 3}, m.GateExterior(CellPosition{Row: 6, Col: 3}))
	assert.Equal(t, CellPosition{Row: 5, Col: 1}, m.GateExterior(CellPosition{Row: 5, Col: 2}))
	assert.Equal(t, CellPosition{Row: 3, Col: 7}, m.GateExterior(CellPosition{Row: 3, Col: 6}))
}

func TestPassability(t *testing.T) {
	m, err := Parse(smallBoard)
	require.NoError(t, err)

	gate := CellPosition{Row: 2, Col: 4}
	core := CellPosition{Row: 3, Col: 4}
	ring := CellPosition{Row: 2, Col: 3}

	assert.True(t, m.PassableForPlayer(core))
	assert.False(t, m.PassableForPursuer(core))
	assert.True(t, m.PassableForPlayer(gate))
	assert.True(t, m.PassableForPursuer(gate))
	assert.False(t, m.PassableForPlayer(ring))
	assert.True(t, m.PassableForPlayer(CellPosition{Row: 0, Col: 4}))
	assert.False(t, m.PassableForPlayer(CellPosition{Row: 0, Col: 3}))
	assert.False(t, m.PassableForPlayer(CellPosition{Row: -1, Col: 4}))

	m.flipGate(gate)
	assert.False(t, m.PassableForPlayer(gate))
	assert.False(t, m.PassableForPursuer(gate))

	t.Run("pursuer passable implies player passable", func(t *testing.T) {
		g, _ := generate(t, 25, 25, 6, 3)
		for row := -1; row <= g.Height(); row++ {
			for col := -1; col <= g.Width(); col++ {
				pos := CellPosition{Row: row, Col: col}
				if g.PassableForPursuer(pos) {
					assert.True(t, g.PassableForPlayer(pos), "%v", pos)
				}
				if g.PassableForPlayer(pos) && !g.PassableForPursuer(pos) {
					assert.Equal(t, SafeZoneCore, g.CellAt(pos), "%v", pos)
				}
			}
		}
	})
}

func TestValidateExits(t *testing.T) {
	board := []string{
		"@E@@E@@@@",
		"@#      @",
		"@ %%+%% @",
		"@ %...% @",
		"@ %...% @",
		"@ %...% @",
		"@ %%%%% @",
		"@       @",
		"@@@@@@@@@",
	}
	m, err := Parse(board)
	require.NoError(t, err)

	reachable := m.ReachableExits()
	assert.Equal(t, map[CellPosition]bool{{Row: 0, Col: 4}: true}, reachable)
	assert.Len(t, m.Exits(), 2, "ReachableExits must not modify the maze")

	removed := m.ValidateExits()
	assert.Equal(t, []CellPosition{{Row: 0, Col: 1}}, removed)
	assert.Equal(t, OuterBorder, m.CellAt(CellPosition{Row: 0, Col: 1}))
	assert.False(t, m.IsExit(CellPosition{Row: 0, Col: 1}))
	assert.True(t, m.IsExit(CellPosition{Row: 0, Col: 4}))

	assert.Empty(t, m.ValidateExits())
	assert.Len(t, m.Exits(), 1)
}

func TestToggleGates(t *testing.T) {
	m, _ := generate(t, 25, 25, 6, 11)
	rng := rand.New(rand.NewSource(1))

	before := m.Gates()
	assert.Equal(t, 0, m.ToggleGates(0, rng))
	assert.Equal(t, before, m.Gates())

	assert.Equal(t, 6, m.ToggleGates(1, rng))
	for pos, open := range m.Gates() {
		assert.Equal(t, !before[pos], open)
		assert.Equal(t, SafeZoneGate, m.CellAt(pos))
	}
}

func TestRelocateExits(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m, _ := generate(t, 25, 25, 4, 5)
	gates := m.Gates()

	for i := 0; i < 20; i++ {
		report := m.RelocateExits(rng)
		assert.Empty(t, report.MissingSides)
		assert.Len(t, m.Exits(), 4)
		assert.Equal(t, m.Exits(), m.ReachableExits())
		for _, side := range Sides {
			_, ok := m.ExitOn(side)
			assert.True(t, ok, "no exit on %s", side)
		}
		for _, pos := range report.Removed {
			assert.Equal(t, OuterBorder, m.CellAt(pos))
		}
	}
	assert.Equal(t, gates, m.Gates())

	exitCells := 0
	for _, row := range m.Cells() {
		for _, c := range row {
			if c == ExitGate {
				exitCells++
			}
		}
	}
	assert.Equal(t, 4, exitCells)
}

func TestExitOnSideCenter(t *testing.T) {
	m, _ := generate(t, 25, 25, 4, 9)
	m.clearExits()
	m.grid[12][1] = Path
	m.placeExit(CellPosition{Row: 12, Col: 0})

	assert.Equal(t, West, m.ExitSide(CellPosition{Row: 12, Col: 0}))
	assert.True(t, m.ReachableExits()[CellPosition{Row: 12, Col: 0}])
	assert.Empty(t, m.ValidateExits())
	assert.Equal(t, ExitGate, m.CellAt(CellPosition{Row: 12, Col: 0}))
}

func TestMorph(t *testing.T) {
	m, _ := generate(t, 25, 25, 4, 13)
	rng := rand.New(rand.NewSource(13))

	assert.False(t, m.Morph(0, rng, mapset.New[CellPosition]()))

	protected := mapset.New[CellPosition]()
	var guarded []CellPosition
	for pos := range m.Gates() {
		guarded = append(guarded, m.GateExterior(pos))
		protected.Put(m.GateExterior(pos))
	}

	before := m.Cells()
	gates, exits := m.Gates(), m.Exits()
	assert.True(t, m.Morph(1, rng, protected))
	after := m.Cells()

	for row := range before {
		for col := range before[row] {
			pos := CellPosition{Row: row, Col: col}
			was, is := before[row][col], after[row][col]
			switch {
			case protected.Has(pos), !m.IsOuterArea(pos):
				assert.Equal(t, was, is, "%v", pos)
			case was == Wall:
				assert.Equal(t, Path, is, "%v", pos)
			case was == Path:
				assert.Equal(t, Wall, is, "%v", pos)
			default:
				assert.Equal(t, was, is, "%v", pos)
			}
		}
	}
	for _, pos := range guarded {
		assert.Equal(t, Path, m.CellAt(pos))
	}
	assert.Equal(t, gates, m.Gates())
	assert.Equal(t, exits, m.Exits())
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m, _ := generate(t, 21, 21, 5, 17)
		parsed, err := Parse(lines(m))
		require.NoError(t, err)
		assert.Equal(t, m.String(), parsed.String())
		assert.Equal(t, m.Gates(), parsed.Gates())
		assert.Equal(t, m.Exits(), parsed.Exits())
	})

	t.Run("hand built", func(t *testing.T) {
		m, err := Parse(smallBoard)
		require.NoError(t, err)
		assert.Equal(t, 9, m.Width())
		assert.Equal(t, CellPosition{Row: 4, Col: 4}, m.Center())
		assert.True(t, m.IsGateOpen(CellPosition{Row: 2, Col: 4}))
		assert.True(t, m.IsExit(CellPosition{Row: 0, Col: 4}))
		assert.Equal(t, 1, m.OpenGates())
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := Parse([]string{"@@@", "@@"})
		assert.Error(t, err)
	})

	t.Run("unknown glyph", func(t *testing.T) {
		_, err := Parse([]string{"@x@"})
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Parse(nil)
		assert.Error(t, err)
	})
}
