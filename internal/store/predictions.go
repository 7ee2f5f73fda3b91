package store

import (
	"context"
	"fmt"
	"time"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// InsertPrediction records a pending prediction. The unique key on
// (model_id, match_date, players) makes a re-run of the daily job converge.
func (s *Store) InsertPrediction(ctx context.Context, p *models.Prediction) (int64, error) {
	var id int64
	err := s.pg.QueryRow(ctx, `
		INSERT INTO predictions
		(model_id, match_date, tournament_id, player_1_id, player_2_id,
		 predicted_winner_id, predicted_total_sets, predicted_total_games,
		 winner_probability, confidence_score, prediction_timestamp)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (model_id, match_date, player_1_id, player_2_id) DO UPDATE SET
			predicted_winner_id = EXCLUDED.predicted_winner_id,
			predicted_total_sets = EXCLUDED.predicted_total_sets,
			predicted_total_games = EXCLUDED.predicted_total_games,
			winner_probability = EXCLUDED.winner_probability,
			confidence_score = EXCLUDED.confidence_score,
			prediction_timestamp = EXCLUDED.prediction_timestamp
		RETURNING id`,
		p.ModelID, p.MatchDate, p.TournamentID, p.Player1ID, p.Player2ID,
		p.PredictedWinnerID, p.PredictedTotalSets, p.PredictedTotalGames,
		p.WinnerProbability, p.ConfidenceScore, p.PredictionTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert prediction: %w", err)
	}
	return id, nil
}

const predictionColumns = `
	id, model_id, match_date, tournament_id, player_1_id, player_2_id,
	predicted_winner_id, predicted_total_sets, predicted_total_games,
	winner_probability, confidence_score, prediction_timestamp,
	actual_winner_id, actual_total_sets, actual_total_games`

func scanPrediction(row interface{ Scan(...any) error }) (*models.Prediction, error) {
	var p models.Prediction
	err := row.Scan(&p.ID, &p.ModelID, &p.MatchDate, &p.TournamentID,
		&p.Player1ID, &p.Player2ID,
		&p.PredictedWinnerID, &p.PredictedTotalSets, &p.PredictedTotalGames,
		&p.WinnerProbability, &p.ConfidenceScore, &p.PredictionTime,
		&p.ActualWinnerID, &p.ActualTotalSets, &p.ActualTotalGames)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UnresolvedOnDate returns pending predictions for a match date whose match
// has since resolved, together with the resolving match row id and outcome.
type ResolvedOutcome struct {
	Prediction *models.Prediction
	MatchID    int64
	WinnerID   int64
	TotalSets  *int
	TotalGames *int
	Rank1      *int
	Rank2      *int
}

func (s *Store) UnresolvedOnDate(ctx context.Context, date time.Time) ([]*ResolvedOutcome, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT p.id, p.model_id, p.match_date, p.tournament_id, p.player_1_id, p.player_2_id,
		       p.predicted_winner_id, p.predicted_total_sets, p.predicted_total_games,
		       p.winner_probability, p.confidence_score, p.prediction_timestamp,
		       p.actual_winner_id, p.actual_total_sets, p.actual_total_games,
		       m.id, m.winner_id, m.total_sets, m.total_games, m.rank_1, m.rank_2
		FROM predictions p
		JOIN matches m ON m.date = p.match_date
			AND ((m.player_1_id = p.player_1_id AND m.player_2_id = p.player_2_id)
			  OR (m.player_1_id = p.player_2_id AND m.player_2_id = p.player_1_id))
		WHERE p.match_date = $1
		AND p.actual_winner_id IS NULL
		AND m.winner_id IS NOT NULL`, date)
	if err != nil {
		return nil, fmt.Errorf("unresolved predictions for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []*ResolvedOutcome
	for rows.Next() {
		var p models.Prediction
		var r ResolvedOutcome
		err := rows.Scan(&p.ID, &p.ModelID, &p.MatchDate, &p.TournamentID,
			&p.Player1ID, &p.Player2ID,
			&p.PredictedWinnerID, &p.PredictedTotalSets, &p.PredictedTotalGames,
			&p.WinnerProbability, &p.ConfidenceScore, &p.PredictionTime,
			&p.ActualWinnerID, &p.ActualTotalSets, &p.ActualTotalGames,
			&r.MatchID, &r.WinnerID, &r.TotalSets, &r.TotalGames, &r.Rank1, &r.Rank2)
		if err != nil {
			return nil, err
		}
		r.Prediction = &p
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ResolvePrediction back-fills the actual outcome onto a pending prediction.
func (s *Store) ResolvePrediction(ctx context.Context, predictionID, winnerID int64, totalSets, totalGames *int) error {
	_, err := s.pg.Exec(ctx, `
		UPDATE predictions
		SET actual_winner_id = $1, actual_total_sets = $2, actual_total_games = $3
		WHERE id = $4 AND actual_winner_id IS NULL`,
		winnerID, totalSets, totalGames, predictionID)
	if err != nil {
		return fmt.Errorf("resolve prediction %d: %w", predictionID, err)
	}
	return nil
}

func (s *Store) PredictionsForDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE match_date = $1 ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("predictions for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ModelIDsPredictedOn lists the models that produced a prediction on the
// given date, so aggregate windows are only recomputed for models active in
// that run. Retired models keep their last written windows.
func (s *Store) ModelIDsPredictedOn(ctx context.Context, date time.Time) ([]int64, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT DISTINCT model_id FROM predictions
		WHERE match_date = $1 ORDER BY model_id`, date)
	if err != nil {
		return nil, fmt.Errorf("models predicted on %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
