// Package gameapi exposes game sessions, run history and leaderboards over HTTP.
package gameapi

import (
	"time"

	dmn "github.com/beka-birhanu/glade/domain"
	"github.com/beka-birhanu/glade/game/maze"
	"github.com/beka-birhanu/glade/service/i"
)

// Session statuses.
const (
	StatusPlaying = "playing"
	StatusEscaped = "escaped"
	StatusCaught  = "caught"
)

// StartRequest opens or restarts a session. Empty difficulty selects the default
// (or, on restart, keeps the current one); a nil seed draws a random one.
type StartRequest struct {
	Difficulty string `json:"difficulty"`
	Seed       *int64 `json:"seed"`
}

// MoveRequest asks to move the player one cell.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required,oneof=North South East West"`
}

// Position is a board cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Gate is a glade gate and its state.
type Gate struct {
	Position
	Open bool `json:"open"`
}

// Pursuer is one adversary.
type Pursuer struct {
	ID string `json:"id"`
	Position
	Mode string `json:"mode"`
}

// SessionResponse is a full frame of a session.
type SessionResponse struct {
	SessionID  string     `json:"session_id"`
	Difficulty string     `json:"difficulty"`
	Status     string     `json:"status"`
	Version    int64      `json:"version"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Cells      [][]string `json:"cells"`
	Gates      []Gate     `json:"gates"`
	OpenGates  int        `json:"open_gates"`
	Exits      []Position `json:"exits"`
	Player     Position   `json:"player"`
	InGlade    bool       `json:"in_glade"`
	Pursuers   []Pursuer  `json:"pursuers"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	Moves      int        `json:"moves"`
	Seed       int64      `json:"seed"`
}

// MoveResponse reports a move and the resulting frame.
type MoveResponse struct {
	Accepted     bool            `json:"accepted"`
	Victory      bool            `json:"victory"`
	EnteredGlade bool            `json:"entered_glade"`
	LeftGlade    bool            `json:"left_glade"`
	Session      SessionResponse `json:"session"`
}

// RunResponse is one finished run.
type RunResponse struct {
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty"`
	Outcome    string    `json:"outcome"`
	Seed       int64     `json:"seed"`
	Moves      int       `json:"moves"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// LeaderboardResponse lists the fastest escapes on a difficulty.
type LeaderboardResponse struct {
	Difficulty string                 `json:"difficulty"`
	Total      int64                  `json:"total"` // Ranked players
	Entries    []dmn.LeaderboardEntry `json:"entries"`
}

func position(p maze.CellPosition) Position {
	return Position{Row: p.Row, Col: p.Col}
}

func toSessionResponse(state i.SessionState) SessionResponse {
	s := state.Snapshot

	status := StatusPlaying
	switch {
	case s.Victory:
		status = StatusEscaped
	case s.Defeat:
		status = StatusCaught
	}

	gates := make([]Gate, len(s.Gates))
	for idx, g := range s.Gates {
		gates[idx] = Gate{Position: position(g.Pos), Open: g.Open}
	}
	exits := make([]Position, len(s.Exits))
	for idx, e := range s.Exits {
		exits[idx] = position(e)
	}
	pursuers := make([]Pursuer, len(s.Pursuers))
	for idx, p := range s.Pursuers {
		pursuers[idx] = Pursuer{ID: p.ID.String(), Position: position(p.Pos), Mode: p.Mode}
	}

	return SessionResponse{
		SessionID:  state.SessionID.String(),
		Difficulty: state.Difficulty,
		Status:     status,
		Version:    s.Version,
		Width:      s.Width,
		Height:     s.Height,
		Cells:      appearanceGrid(s),
		Gates:      gates,
		OpenGates:  s.OpenGates,
		Exits:      exits,
		Player:     position(s.Player.Pos),
		InGlade:    s.Player.InSafeZone,
		Pursuers:   pursuers,
		ElapsedMs:  s.ElapsedMs,
		Moves:      s.Moves,
		Seed:       s.Seed,
	}
}

func toRunResponse(r *dmn.Run) RunResponse {
	return RunResponse{
		ID:         r.ID.String(),
		Difficulty: r.Difficulty,
		Outcome:    string(r.Outcome),
		Seed:       r.Seed,
		Moves:      r.Moves,
		ElapsedMs:  r.ElapsedMs,
		FinishedAt: r.FinishedAt,
	}
}
