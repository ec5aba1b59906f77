package domain

// LeaderboardEntry is one ranked best time on a difficulty.
type LeaderboardEntry struct {
	Rank      int64  `json:"rank"`
	Username  string `json:"username"`
	ElapsedMs int64  `json:"elapsed_ms"`
}
