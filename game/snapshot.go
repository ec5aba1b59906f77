package game

import (
	"slices"

	"github.com/beka-birhanu/glade/game/maze"
	"github.com/google/uuid"
)

// GateState is one gate in a snapshot.
type GateState struct {
	Pos  maze.CellPosition
	Open bool
}

// PursuerState is one pursuer in a snapshot.
type PursuerState struct {
	ID   uuid.UUID
	Pos  maze.CellPosition
	Mode string
}

// Snapshot is a detached copy of everything a renderer needs for one frame.
type Snapshot struct {
	Version   int64
	Width     int
	Height    int
	Cells     [][]maze.Cell
	Gates     []GateState
	OpenGates int
	Exits     []maze.CellPosition
	Player    Player
	Pursuers  []PursuerState
	Victory   bool
	Defeat    bool
	ElapsedMs int64
	Moves     int
	Seed      int64
}

// Snapshot copies the current state. Gates and exits are listed in row-major order.
func (g *Game) Snapshot() Snapshot {
	gates := make([]GateState, 0, len(g.maze.Gates()))
	for pos, open := range g.maze.Gates() {
		gates = append(gates, GateState{Pos: pos, Open: open})
	}
	slices.SortFunc(gates, func(a, b GateState) int { return compare(a.Pos, b.Pos) })

	exits := make([]maze.CellPosition, 0, len(g.maze.Exits()))
	for pos := range g.maze.Exits() {
		exits = append(exits, pos)
	}
	slices.SortFunc(exits, compare)

	pursuers := make([]PursuerState, len(g.pursuers))
	for i, p := range g.pursuers {
		pursuers[i] = PursuerState{ID: p.ID, Pos: p.Pos, Mode: p.Mode.String()}
	}

	return Snapshot{
		Version:   g.version,
		Width:     g.maze.Width(),
		Height:    g.maze.Height(),
		Cells:     g.maze.Cells(),
		Gates:     gates,
		OpenGates: g.maze.OpenGates(),
		Exits:     exits,
		Player:    g.player,
		Pursuers:  pursuers,
		Victory:   g.victory,
		Defeat:    g.defeat,
		ElapsedMs: g.elapsed.Milliseconds(),
		Moves:     g.moves,
		Seed:      g.seed,
	}
}

func compare(a, b maze.CellPosition) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}
