package models

import "time"

// MoodDetail is one entry of the serialized log behind a player's sports
// mood score. The log is overwritten wholesale on every recomputation.
type MoodDetail struct {
	MatchID    int64   `json:"match_id"`
	Date       string  `json:"date"`
	IsWin      bool    `json:"is_win"`
	Difficulty string  `json:"difficulty"`
	Weight     float64 `json:"weight"`
}

// PlayerStat is the per-player row holding the current sports mood score and
// the last-10 window it was derived from.
type PlayerStat struct {
	PlayerID       int64        `json:"player_id"`
	SportsMood     float64      `json:"sports_mood_score"`
	PersonalMood   float64      `json:"personal_mood_score"`
	Last10Wins     int          `json:"last_10_matches_wins"`
	Last10Losses   int          `json:"last_10_matches_losses"`
	Last10Details  []MoodDetail `json:"last_10_matches_details"`
	UpdatedAt      *time.Time   `json:"updated_at,omitempty"`
}

// SurfaceHistory is the per-(player, surface) win-rate row. WinRate covers
// the last-10 window; the total counts come from a full history scan.
type SurfaceHistory struct {
	PlayerID     int64      `json:"player_id"`
	SurfaceID    int64      `json:"surface_id"`
	Last10Wins   int        `json:"last_10_wins"`
	Last10Losses int        `json:"last_10_losses"`
	WinRate      float64    `json:"win_rate"`
	TotalWins    int        `json:"total_wins"`
	TotalLosses  int        `json:"total_losses"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// HeadToHead is the cumulative tally between two players across all recorded
// meetings, in either player-slot order.
type HeadToHead struct {
	TotalMatches int `json:"total_matches"`
	Player1Wins  int `json:"player_1_wins"`
	Player2Wins  int `json:"player_2_wins"`
}
