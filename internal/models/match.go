package models

import "time"

// Match is a single fixture between two players. A match with WinnerID == nil
// is pending; once a winner is recorded the row is immutable except for
// administrative correction.
type Match struct {
	ID           int64     `json:"id"`
	TournamentID int64     `json:"tournament_id"`
	Date         time.Time `json:"date"`
	RoundID      *int64    `json:"round_id,omitempty"`
	CourtTypeID  *int64    `json:"court_type_id,omitempty"`
	SurfaceID    *int64    `json:"surface_id,omitempty"`
	BestOf       *int      `json:"best_of,omitempty"`
	Player1ID    int64     `json:"player_1_id"`
	Player2ID    int64     `json:"player_2_id"`
	WinnerID     *int64    `json:"winner_id,omitempty"`
	Rank1        *int      `json:"rank_1,omitempty"`
	Rank2        *int      `json:"rank_2,omitempty"`
	Points1      *int      `json:"pts_1,omitempty"`
	Points2      *int      `json:"pts_2,omitempty"`
	Odds1        *float64  `json:"odd_1,omitempty"`
	Odds2        *float64  `json:"odd_2,omitempty"`
	Score        *string   `json:"score,omitempty"`
	TotalSets    *int      `json:"total_sets,omitempty"`
	TotalGames   *int      `json:"total_games,omitempty"`
}

// MatchContext is the joined view of a match used by the feature engineer:
// the match row enriched with tournament series, player identities and the
// current estimator outputs for both players. Nullable columns stay nullable
// here; imputation happens in the feature engineer, not in the store.
type MatchContext struct {
	MatchID        int64     `json:"match_id"`
	Date           time.Time `json:"date"`
	TournamentID   int64     `json:"tournament_id"`
	TournamentName string    `json:"tournament_name,omitempty"`
	Series         *string   `json:"tournament_series,omitempty"`

	Player1ID   int64  `json:"player_1_id"`
	Player2ID   int64  `json:"player_2_id"`
	Player1Name string `json:"player_1_name,omitempty"`
	Player2Name string `json:"player_2_name,omitempty"`

	Rank1   *int `json:"rank_1,omitempty"`
	Rank2   *int `json:"rank_2,omitempty"`
	Points1 *int `json:"pts_1,omitempty"`
	Points2 *int `json:"pts_2,omitempty"`

	SurfaceID   *int64 `json:"surface_id,omitempty"`
	CourtTypeID *int64 `json:"court_type_id,omitempty"`
	RoundID     *int64 `json:"round_id,omitempty"`

	SportsMood1   *float64 `json:"player_1_sports_mood,omitempty"`
	SportsMood2   *float64 `json:"player_2_sports_mood,omitempty"`
	PersonalMood1 *float64 `json:"player_1_personal_mood,omitempty"`
	PersonalMood2 *float64 `json:"player_2_personal_mood,omitempty"`
	SurfaceRate1  *float64 `json:"player_1_surface_win_rate,omitempty"`
	SurfaceRate2  *float64 `json:"player_2_surface_win_rate,omitempty"`

	WinnerID   *int64 `json:"winner_id,omitempty"`
	TotalSets  *int   `json:"total_sets,omitempty"`
	TotalGames *int   `json:"total_games,omitempty"`
}
