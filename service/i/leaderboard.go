package i

import (
	"context"

	dmn "github.com/beka-birhanu/glade/domain"
)

// Leaderboard ranks the fastest escapes per difficulty.
type Leaderboard interface {
	// Submit records an escape and reports whether it improved the player's best time.
	Submit(ctx context.Context, difficulty, username string, elapsedMs int64) (bool, error)
	Top(ctx context.Context, difficulty string, limit int64) ([]dmn.LeaderboardEntry, error)
	Count(ctx context.Context, difficulty string) (int64, error)
}
