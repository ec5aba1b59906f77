// Package game is the simulation core of the glade: one player, a shifting maze and the
// pursuers hunting through it. A Game is advanced by an external clock through Tick and is
// not safe for concurrent use; callers serialise access.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/glade/game/maze"
	"github.com/beka-birhanu/glade/game/pursuer"
	"github.com/zyedidia/generic/mapset"
)

var (
	ErrGameOver         = errors.New("game is over")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidPosition  = errors.New("position is not walkable")
)

// Logger is the logging surface the core writes to.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
}

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}

// Player is the player's position and the derived glade flag.
type Player struct {
	Pos        maze.CellPosition
	InSafeZone bool
}

// MoveResult reports the outcome of AttemptPlayerMove.
type MoveResult struct {
	Accepted     bool
	Victory      bool
	EnteredGlade bool
	LeftGlade    bool
}

// TickReport reports what a Tick fired.
type TickReport struct {
	GatesFlipped   int
	ExitsRelocated bool
	Exits          maze.ExitReport
	Morphed        bool
	PursuersMoved  int
	Defeat         bool
}

// Game represents one run through the maze.
type Game struct {
	settings   Settings
	seed       int64
	rng        *rand.Rand
	maze       *maze.Maze
	generation maze.GenerationReport
	player     Player
	pursuers   []*pursuer.Pursuer
	victory    bool
	defeat     bool
	moves      int
	version    int64 // bumped on every visible change
	elapsed    time.Duration

	moveCooldown time.Duration
	gateTimer    time.Duration
	exitTimer    time.Duration
	mazeTimer    time.Duration
	pursuerTimer time.Duration

	logger Logger
}

// New generates a game. A nil seed draws one from the clock.
func New(settings Settings, seed *int64, logger Logger) (*Game, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	g := &Game{logger: logger}
	if err := g.Restart(settings, seed); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFromMaze wraps an existing maze, typically a hand-built one from maze.Parse.
func NewFromMaze(settings Settings, m *maze.Maze, start maze.CellPosition, pursuers []maze.CellPosition, seed int64, logger Logger) (*Game, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	if !m.PassableForPlayer(start) {
		return nil, fmt.Errorf("%w: player start %v", ErrInvalidPosition, start)
	}

	ps := make([]*pursuer.Pursuer, 0, len(pursuers))
	for _, pos := range pursuers {
		if !m.InBound(pos) {
			return nil, fmt.Errorf("%w: pursuer %v", maze.ErrOutOfBounds, pos)
		}
		ps = append(ps, pursuer.New(pos))
	}

	if settings.ExitChangeInterval == 0 {
		settings.ExitChangeInterval = 2 * settings.GateChangeInterval
	}

	return &Game{
		settings: settings,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		maze:     m,
		player:   Player{Pos: start, InSafeZone: m.InSafeZone(start)},
		pursuers: ps,
		logger:   logger,
	}, nil
}

// Restart discards the whole state and generates a new maze. A nil seed draws one from the
// clock. The current state is left untouched when the settings are invalid.
func (g *Game) Restart(settings Settings, seed *int64) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	rng := rand.New(rand.NewSource(s))

	m, report, err := maze.Generate(maze.Options{
		Width:     settings.Width,
		Height:    settings.Height,
		GateCount: settings.GateCount,
	}, rng)
	if err != nil {
		return err
	}
	g.logGeneration(report)

	start := m.Center()
	*g = Game{
		settings:   settings,
		seed:       s,
		rng:        rng,
		maze:       m,
		generation: report,
		player:     Player{Pos: start, InSafeZone: m.InSafeZone(start)},
		pursuers:   pursuer.Spawn(m, settings.PursuerCount),
		version:    g.version + 1,
		logger:     g.logger,
	}
	if len(g.pursuers) < settings.PursuerCount {
		g.logger.Warning(fmt.Sprintf("only %d of %d pursuers could be placed", len(g.pursuers), settings.PursuerCount))
	}
	g.logger.Info(fmt.Sprintf("maze generated: %dx%d, seed %d, %d gates", settings.Width, settings.Height, s, report.GatesPlaced))
	return nil
}

func (g *Game) logGeneration(r maze.GenerationReport) {
	if r.GatesClamped {
		g.logger.Warning(fmt.Sprintf("requested %d gates, only %d positions available", r.GatesRequested, r.GatesPlaced))
	}
	g.logExitReport(r.Exits)
}

func (g *Game) logExitReport(r maze.ExitReport) {
	if r.Retries > 0 {
		g.logger.Info(fmt.Sprintf("discarded %d unreachable exits: %v", r.Retries, r.Removed))
	}
	for _, side := range r.MissingSides {
		g.logger.Warning(fmt.Sprintf("no reachable exit on the %s side", side))
	}
}

// AttemptPlayerMove moves the player one cell in direction ("North", "South", "East", "West").
// Moves into walls, closed gates, the ring or off the board are rejected, as are moves while
// the move cooldown runs or after the game ended.
func (g *Game) AttemptPlayerMove(direction string) MoveResult {
	var result MoveResult
	d, ok := maze.Directions[direction]
	if !ok || g.Over() || g.moveCooldown > 0 {
		return result
	}

	next := g.player.Pos.Add(d)
	if !g.maze.PassableForPlayer(next) {
		return result
	}

	result.Accepted = true
	g.player.Pos = next
	g.moves++
	g.moveCooldown = g.settings.MoveDelay
	g.version++

	wasInside := g.player.InSafeZone
	g.player.InSafeZone = g.maze.InSafeZone(next)
	if wasInside != g.player.InSafeZone {
		g.gateTimer, g.exitTimer, g.mazeTimer = 0, 0, 0
		if g.player.InSafeZone {
			result.EnteredGlade = true
			g.logger.Info("player entered the glade, gates start shifting")
		} else {
			result.LeftGlade = true
			g.logger.Info("player left the glade, gates stabilise and the maze starts shifting")
		}
	}

	if g.maze.IsExit(next) {
		g.victory = true
		result.Victory = true
		g.logger.Info(fmt.Sprintf("player escaped through %v after %d moves", next, g.moves))
	}

	return result
}

// Tick advances the clocks by elapsedMillis and fires whichever subsystem is due:
// gates and exits while the player is in the glade, the maze morph while outside, then pursuers.
func (g *Game) Tick(elapsedMillis int64) TickReport {
	var report TickReport
	if g.Over() || elapsedMillis <= 0 {
		return report
	}

	dt := time.Duration(elapsedMillis) * time.Millisecond
	g.elapsed += dt
	g.moveCooldown = max(0, g.moveCooldown-dt)

	if g.player.InSafeZone {
		g.gateTimer += dt
		if g.gateTimer >= g.settings.GateChangeInterval {
			g.gateTimer = 0
			report.GatesFlipped = g.ToggleGates(g.settings.GateChangeProbability)
		}
		g.exitTimer += dt
		if g.exitTimer >= g.settings.ExitChangeInterval {
			g.exitTimer = 0
			report.Exits, report.ExitsRelocated = g.RelocateExits()
		}
	} else {
		g.mazeTimer += dt
		if g.mazeTimer >= g.settings.MazeChangeInterval {
			g.mazeTimer = 0
			report.Morphed = g.Morph(g.settings.MazeChangeProbability)
		}
	}

	g.pursuerTimer += dt
	if g.pursuerTimer >= g.settings.PursuerInterval {
		g.pursuerTimer = 0
		report.PursuersMoved = g.AdvancePursuers()
	}

	report.Defeat = g.defeat
	return report
}

// ToggleGates flips each gate with probability p. It does nothing unless the player is in the glade.
func (g *Game) ToggleGates(p float64) int {
	if !g.player.InSafeZone {
		return 0
	}
	flipped := g.maze.ToggleGates(p, g.rng)
	if flipped > 0 {
		g.version++
		g.logger.Info(fmt.Sprintf("%d gates changed state, %d/%d open", flipped, g.maze.OpenGates(), len(g.maze.Gates())))
	}
	return flipped
}

// RelocateExits moves every exit to a fresh validated position. It does nothing unless the
// player is in the glade; the second result reports whether it ran.
func (g *Game) RelocateExits() (maze.ExitReport, bool) {
	if !g.player.InSafeZone {
		return maze.ExitReport{}, false
	}
	report := g.maze.RelocateExits(g.rng)
	g.version++
	g.logExitReport(report)
	g.logger.Info("exits relocated")
	return report, true
}

// Morph flips outer maze cells with probability p. It does nothing while the player is in the
// glade. Cells under the player or a pursuer are left alone.
func (g *Game) Morph(p float64) bool {
	if g.player.InSafeZone {
		return false
	}
	occupied := mapset.New[maze.CellPosition]()
	occupied.Put(g.player.Pos)
	for _, p := range g.pursuers {
		occupied.Put(p.Pos)
	}

	changed := g.maze.Morph(p, g.rng, occupied)
	if changed {
		g.version++
	}
	return changed
}

// AdvancePursuers runs one decision for every pursuer and checks for a catch.
// It returns how many pursuers moved.
func (g *Game) AdvancePursuers() int {
	if g.Over() {
		return 0
	}
	moved := 0
	for _, p := range g.pursuers {
		if p.Decide(g.maze, g.player.Pos, g.player.InSafeZone, g.rng) {
			moved++
		}
		if p.Pos == g.player.Pos && !g.victory {
			g.defeat = true
			g.logger.Info(fmt.Sprintf("pursuer %s caught the player at %v", p.ID, p.Pos))
			break
		}
	}
	if moved > 0 || g.defeat {
		g.version++
	}
	return moved
}

// Over reports whether the run has ended.
func (g *Game) Over() bool {
	return g.victory || g.defeat
}

// Victory reports whether the player reached an exit.
func (g *Game) Victory() bool {
	return g.victory
}

// Defeat reports whether a pursuer caught the player.
func (g *Game) Defeat() bool {
	return g.defeat
}

// Maze returns the live maze.
func (g *Game) Maze() *maze.Maze {
	return g.maze
}

// Player returns the player state.
func (g *Game) Player() Player {
	return g.player
}

// Pursuers returns copies of the pursuers.
func (g *Game) Pursuers() []pursuer.Pursuer {
	out := make([]pursuer.Pursuer, len(g.pursuers))
	for i, p := range g.pursuers {
		out[i] = *p
	}
	return out
}

// Settings returns the settings the game runs with.
func (g *Game) Settings() Settings {
	return g.settings
}

// Seed returns the seed of the current maze.
func (g *Game) Seed() int64 {
	return g.seed
}

// Generation returns the corrections applied when the maze was generated.
func (g *Game) Generation() maze.GenerationReport {
	return g.generation
}

// Moves returns the number of accepted player moves.
func (g *Game) Moves() int {
	return g.moves
}

// Elapsed returns the simulated time since the maze was generated.
func (g *Game) Elapsed() time.Duration {
	return g.elapsed
}

// Version increases whenever the visible state changes.
func (g *Game) Version() int64 {
	return g.version
}
