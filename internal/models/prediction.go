package models

import "time"

// Prediction is one model's call on one match. Created pending; the error
// analyzer back-fills the actual outcome once the match resolves, and a
// resolved prediction is never re-resolved.
type Prediction struct {
	ID                 int64     `json:"id"`
	ModelID            int64     `json:"model_id"`
	MatchDate          time.Time `json:"match_date"`
	TournamentID       int64     `json:"tournament_id"`
	Player1ID          int64     `json:"player_1_id"`
	Player2ID          int64     `json:"player_2_id"`
	PredictedWinnerID  int64     `json:"predicted_winner_id"`
	PredictedTotalSets int       `json:"predicted_total_sets"`
	PredictedTotalGames int      `json:"predicted_total_games"`
	WinnerProbability  float64   `json:"winner_probability"`
	ConfidenceScore    float64   `json:"confidence_score"`
	PredictionTime     time.Time `json:"prediction_timestamp"`

	ActualWinnerID   *int64 `json:"actual_winner_id,omitempty"`
	ActualTotalSets  *int   `json:"actual_total_sets,omitempty"`
	ActualTotalGames *int   `json:"actual_total_games,omitempty"`
}

// RankFlags are the eight ranking-tier booleans attached to every analyzed
// prediction: whether any / both players were ranked inside the tier at
// match time.
type RankFlags struct {
	AnyTop10   bool `json:"any_top_10"`
	AnyTop20   bool `json:"any_top_20"`
	AnyTop50   bool `json:"any_top_50"`
	AnyTop100  bool `json:"any_top_100"`
	BothTop10  bool `json:"both_top_10"`
	BothTop20  bool `json:"both_top_20"`
	BothTop50  bool `json:"both_top_50"`
	BothTop100 bool `json:"both_top_100"`
}

// PredictionError is the per-prediction correctness record written when a
// prediction is resolved against the real outcome.
type PredictionError struct {
	ID            int64     `json:"id"`
	PredictionID  int64     `json:"prediction_id"`
	ModelID       int64     `json:"model_id"`
	MatchID       int64     `json:"match_id"`
	MatchDate     time.Time `json:"match_date"`
	Player1ID     int64     `json:"player_1_id"`
	Player2ID     int64     `json:"player_2_id"`
	WinnerCorrect bool      `json:"winner_correct"`
	SetsError     int       `json:"sets_error"`
	GamesError    int       `json:"games_error"`
	Player1Rank   *int      `json:"player_1_rank,omitempty"`
	Player2Rank   *int      `json:"player_2_rank,omitempty"`
	RankFlags
}

// ErrorMetric is the per-(model, period) rolling aggregate, recomputed from
// scratch and upserted keyed by (model_id, period, end_date).
type ErrorMetric struct {
	ModelID          int64     `json:"model_id"`
	Period           string    `json:"period"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalPredictions int       `json:"total_predictions"`
	CorrectWinners   int       `json:"correct_winners"`
	Accuracy         float64   `json:"accuracy"`
	AvgSetsError     float64   `json:"avg_sets_error"`
	AvgGamesError    float64   `json:"avg_games_error"`

	AccuracyTop10      float64 `json:"accuracy_top_10"`
	AccuracyTop20      float64 `json:"accuracy_top_20"`
	AccuracyTop50      float64 `json:"accuracy_top_50"`
	AccuracyTop100     float64 `json:"accuracy_top_100"`
	AccuracyBothTop10  float64 `json:"accuracy_both_top_10"`
	AccuracyBothTop20  float64 `json:"accuracy_both_top_20"`
	AccuracyBothTop50  float64 `json:"accuracy_both_top_50"`
	AccuracyBothTop100 float64 `json:"accuracy_both_top_100"`
}

// BookmakerOdds is a cached odds quote for a fixture, upserted per
// (match fixture, bookmaker).
type BookmakerOdds struct {
	MatchDate    time.Time `json:"match_date"`
	TournamentID int64     `json:"tournament_id"`
	Player1ID    int64     `json:"player_1_id"`
	Player2ID    int64     `json:"player_2_id"`
	Bookmaker    string    `json:"bookmaker_name"`
	Player1Odds  float64   `json:"player_1_odds"`
	Player2Odds  float64   `json:"player_2_odds"`
	FetchedAt    time.Time `json:"fetched_at"`
}
