package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeEscaped   Outcome = "escaped"   // player reached an exit
	OutcomeCaught    Outcome = "caught"    // a pursuer reached the player
	OutcomeAbandoned Outcome = "abandoned" // closed by the player or timed out
)

// Run is the summary of one finished game.
type Run struct {
	ID         uuid.UUID `bson:"_id"`
	UserID     uuid.UUID `bson:"userId"`
	Username   string    `bson:"username"`
	Difficulty string    `bson:"difficulty"`
	Seed       int64     `bson:"seed"`
	Outcome    Outcome   `bson:"outcome"`
	Moves      int       `bson:"moves"`
	ElapsedMs  int64     `bson:"elapsedMs"` // simulated time
	FinishedAt time.Time `bson:"finishedAt"`
}
