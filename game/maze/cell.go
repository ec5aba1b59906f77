package maze

// Cell is the tag stored in every grid slot.
type Cell uint8

const (
	Wall         Cell = iota // Carvable wall in the outer maze.
	Path                     // Walkable corridor.
	SafeZoneCore             // The 3x3 glade in the centre of the board.
	SafeZoneRing             // Permanent wall surrounding the glade.
	OuterBorder              // Outermost ring of the board.
	SafeZoneGate             // Toggleable opening in the ring.
	ExitGate                 // Border cell that ends the game in victory.
)

var cellNames = [...]string{
	Wall:         "Wall",
	Path:         "Path",
	SafeZoneCore: "SafeZoneCore",
	SafeZoneRing: "SafeZoneRing",
	OuterBorder:  "OuterBorder",
	SafeZoneGate: "SafeZoneGate",
	ExitGate:     "ExitGate",
}

// String returns the tag name.
func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return "Unknown"
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// Add returns the position shifted by delta.
func (cp CellPosition) Add(delta CellPosition) CellPosition {
	return CellPosition{Row: cp.Row + delta.Row, Col: cp.Col + delta.Col}
}

// Side names one of the four board edges (and, for gates, one of the four ring sides).
type Side uint8

const (
	North Side = iota
	South
	West
	East
)

// Sides lists the board edges in placement order.
var Sides = []Side{North, South, West, East}

func (s Side) String() string {
	switch s {
	case North:
		return "North"
	case South:
		return "South"
	case West:
		return "West"
	case East:
		return "East"
	}
	return "Unknown"
}

// Outward returns the unit step pointing away from the board centre on this side.
func (s Side) Outward() CellPosition {
	return Directions[s.String()]
}

var (
	// Directions maps a direction name to its unit step.
	Directions = map[string]CellPosition{
		"North": {Row: -1, Col: 0},
		"South": {Row: 1, Col: 0},
		"East":  {Row: 0, Col: 1},
		"West":  {Row: 0, Col: -1},
	}

	// DirectionNames fixes an iteration order over Directions so seeded runs are reproducible.
	DirectionNames = []string{"North", "South", "East", "West"}
)
