package models

// CustomMatchRequest is the body of an ad hoc single-match prediction. Ranks
// are optional; the predictor falls back to the stored current ranks.
type CustomMatchRequest struct {
	Player1    string `json:"player_1" validate:"required"`
	Player2    string `json:"player_2" validate:"required"`
	Tournament string `json:"tournament"`
	Series     string `json:"series"`
	Surface    string `json:"surface"`
	CourtType  string `json:"court_type"`
	Round      string `json:"round"`
	Rank1      *int   `json:"rank_1,omitempty" validate:"omitempty,gte=1"`
	Rank2      *int   `json:"rank_2,omitempty" validate:"omitempty,gte=1"`
}

// CustomMatchResponse reports the outcome of an ad hoc prediction.
type CustomMatchResponse struct {
	Player1         string  `json:"player_1"`
	Player2         string  `json:"player_2"`
	PredictedWinner string  `json:"predicted_winner"`
	WinProbability  float64 `json:"win_probability"`
	Confidence      float64 `json:"confidence"`
	ModelType       string  `json:"model_type"`
	ModelVersion    string  `json:"model_version"`
}

// PredictionSummary is the human-facing line item returned by batch
// prediction runs and the predictions API.
type PredictionSummary struct {
	PredictionID    int64   `json:"prediction_id"`
	Matchup         string  `json:"match"`
	Tournament      string  `json:"tournament"`
	PredictedWinner string  `json:"predicted_winner"`
	Confidence      float64 `json:"confidence"`
}
