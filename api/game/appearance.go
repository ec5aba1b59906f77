package gameapi

import (
	"github.com/beka-birhanu/glade/game"
	"github.com/beka-birhanu/glade/game/maze"
)

// Appearance keys sent to clients, one per cell.
const (
	AppearanceWall       = "wall"
	AppearancePath       = "path"
	AppearanceGlade      = "glade"
	AppearanceGladeRing  = "glade_ring"
	AppearanceOuterWall  = "outer_wall"
	AppearanceGateOpen   = "gate_open"
	AppearanceGateClosed = "gate_closed"
	AppearanceExit       = "exit"
)

var appearances = map[maze.Cell]string{
	maze.Wall:         AppearanceWall,
	maze.Path:         AppearancePath,
	maze.SafeZoneCore: AppearanceGlade,
	maze.SafeZoneRing: AppearanceGladeRing,
	maze.OuterBorder:  AppearanceOuterWall,
	maze.ExitGate:     AppearanceExit,
}

// Appearance maps a cell tag, and for gates their state, to its appearance key.
func Appearance(c maze.Cell, gateOpen bool) string {
	if c == maze.SafeZoneGate {
		if gateOpen {
			return AppearanceGateOpen
		}
		return AppearanceGateClosed
	}
	if a, ok := appearances[c]; ok {
		return a
	}
	return AppearanceWall
}

func appearanceGrid(s game.Snapshot) [][]string {
	open := make(map[maze.CellPosition]bool, len(s.Gates))
	for _, g := range s.Gates {
		open[g.Pos] = g.Open
	}

	grid := make([][]string, len(s.Cells))
	for row, cells := range s.Cells {
		grid[row] = make([]string, len(cells))
		for col, c := range cells {
			grid[row][col] = Appearance(c, open[maze.CellPosition{Row: row, Col: col}])
		}
	}
	return grid
}
