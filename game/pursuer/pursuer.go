// Package pursuer drives the adversaries that hunt the player through the maze.
package pursuer

import (
	"math/rand"

	"github.com/beka-birhanu/glade/game/maze"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// Mode is the behaviour a pursuer used on its last decision.
type Mode uint8

const (
	Patrol Mode = iota // player is in the glade: wander the outer maze
	Chase              // player is outside: step along the shortest path
)

func (m Mode) String() string {
	if m == Chase {
		return "Chase"
	}
	return "Patrol"
}

// Board is the read-only view of the maze a pursuer needs.
type Board interface {
	InBound(maze.CellPosition) bool
	IsOuterArea(maze.CellPosition) bool
	PassableForPursuer(maze.CellPosition) bool
}

// Pursuer is a single adversary. It keeps no path between decisions.
type Pursuer struct {
	ID   uuid.UUID
	Pos  maze.CellPosition
	Mode Mode
}

// New returns a patrolling pursuer at pos.
func New(pos maze.CellPosition) *Pursuer {
	return &Pursuer{
		ID:   uuid.New(),
		Pos:  pos,
		Mode: Patrol,
	}
}

// Decide takes one decision tick: patrol while the player hides in the glade, chase otherwise.
// It reports whether the pursuer moved.
func (p *Pursuer) Decide(b Board, player maze.CellPosition, playerInSafeZone bool, rng *rand.Rand) bool {
	if playerInSafeZone {
		p.Mode = Patrol
		return p.patrol(b, rng)
	}
	p.Mode = Chase
	return p.chase(b, player)
}

// patrol moves to the first passable outer-area neighbour in a random direction order.
func (p *Pursuer) patrol(b Board, rng *rand.Rand) bool {
	for _, idx := range rng.Perm(len(maze.DirectionNames)) {
		next := p.Pos.Add(maze.Directions[maze.DirectionNames[idx]])
		if b.PassableForPursuer(next) && b.IsOuterArea(next) {
			p.Pos = next
			return true
		}
	}
	return false
}

// chase advances one cell along a shortest path to target, holding when none exists.
func (p *Pursuer) chase(b Board, target maze.CellPosition) bool {
	path := ShortestPath(b, p.Pos, target)
	if len(path) < 2 {
		return false
	}
	p.Pos = path[1]
	return true
}

// ShortestPath returns the cells from start to target inclusive, moving in the four cardinal
// directions over pursuer-passable cells. The start cell itself need not be passable.
// It returns nil when target cannot be reached.
func ShortestPath(b Board, start, target maze.CellPosition) []maze.CellPosition {
	if start == target {
		return []maze.CellPosition{start}
	}
	if !b.InBound(start) || !b.PassableForPursuer(target) {
		return nil
	}

	cameFrom := make(map[maze.CellPosition]maze.CellPosition)
	visited := mapset.New[maze.CellPosition]()
	visited.Put(start)
	queue := []maze.CellPosition{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == target {
			var path []maze.CellPosition
			for cur != start {
				path = append(path, cur)
				cur = cameFrom[cur]
			}
			path = append(path, start)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, name := range maze.DirectionNames {
			next := cur.Add(maze.Directions[name])
			if visited.Has(next) || !b.PassableForPursuer(next) {
				continue
			}
			visited.Put(next)
			cameFrom[next] = cur
			queue = append(queue, next)
		}
	}

	return nil
}
