package i

import (
	"github.com/beka-birhanu/glade/game"
	"github.com/google/uuid"
)

// Player identifies the owner of a game session.
type Player struct {
	ID       uuid.UUID
	Username string
}

// SessionState is what a client sees of its session.
type SessionState struct {
	SessionID  uuid.UUID
	Difficulty string
	Snapshot   game.Snapshot
}

// GameSessionManager runs one live game per player.
type GameSessionManager interface {
	// Start replaces any running session of the player with a fresh game.
	Start(p Player, difficulty string, seed *int64) (SessionState, error)
	Current(playerID uuid.UUID) (SessionState, error)
	Move(playerID uuid.UUID, direction string) (game.MoveResult, SessionState, error)
	// Restart regenerates the game; an empty difficulty keeps the current one.
	Restart(playerID uuid.UUID, difficulty string, seed *int64) (SessionState, error)
	Close(playerID uuid.UUID) error
	// Subscribe streams states until the session ends or cancel is called.
	Subscribe(playerID uuid.UUID) (<-chan SessionState, func(), error)
	StopAll()
}
