package store

import (
	"context"
	"fmt"
	"time"

	"github.com/courtiq/tennis-predictor/internal/models"
)

func (s *Store) InsertPredictionError(ctx context.Context, e *models.PredictionError) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO prediction_errors
		(prediction_id, model_id, match_id, match_date, player_1_id, player_2_id,
		 winner_correct, sets_error, games_error, player_1_rank, player_2_rank,
		 any_top_10, any_top_20, any_top_50, any_top_100,
		 both_top_10, both_top_20, both_top_50, both_top_100)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		e.PredictionID, e.ModelID, e.MatchID, e.MatchDate, e.Player1ID, e.Player2ID,
		e.WinnerCorrect, e.SetsError, e.GamesError, e.Player1Rank, e.Player2Rank,
		e.AnyTop10, e.AnyTop20, e.AnyTop50, e.AnyTop100,
		e.BothTop10, e.BothTop20, e.BothTop50, e.BothTop100)
	if err != nil {
		return fmt.Errorf("insert prediction error for prediction %d: %w", e.PredictionID, err)
	}
	return nil
}

// Tier accuracies share the whole window as denominator: the share of
// predictions that were both inside the tier and correct.
const aggregateWindowSQL = `
	SELECT COUNT(*),
	       COALESCE(SUM(CASE WHEN winner_correct THEN 1 ELSE 0 END), 0),
	       COALESCE(AVG(sets_error), 0),
	       COALESCE(AVG(games_error), 0),
	       COALESCE(AVG(CASE WHEN any_top_10 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN any_top_20 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN any_top_50 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN any_top_100 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN both_top_10 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN both_top_20 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN both_top_50 AND winner_correct THEN 1.0 ELSE 0.0 END), 0),
	       COALESCE(AVG(CASE WHEN both_top_100 AND winner_correct THEN 1.0 ELSE 0.0 END), 0)
	FROM prediction_errors
	WHERE model_id = $1 AND match_date >= $2 AND match_date <= $3`

// AggregateWindow recomputes one rolling window for one model from the raw
// per-prediction error rows.
func (s *Store) AggregateWindow(ctx context.Context, modelID int64, period string, start, end time.Time) (*models.ErrorMetric, error) {
	m := models.ErrorMetric{
		ModelID:   modelID,
		Period:    period,
		StartDate: start,
		EndDate:   end,
	}
	err := s.pg.QueryRow(ctx, aggregateWindowSQL, modelID, start, end).Scan(
		&m.TotalPredictions, &m.CorrectWinners, &m.AvgSetsError, &m.AvgGamesError,
		&m.AccuracyTop10, &m.AccuracyTop20, &m.AccuracyTop50, &m.AccuracyTop100,
		&m.AccuracyBothTop10, &m.AccuracyBothTop20, &m.AccuracyBothTop50, &m.AccuracyBothTop100)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s window for model %d: %w", period, modelID, err)
	}
	if m.TotalPredictions > 0 {
		m.Accuracy = float64(m.CorrectWinners) / float64(m.TotalPredictions)
	}
	return &m, nil
}

// UpsertErrorMetric writes a window aggregate keyed by (model, period,
// end date), so the nightly recomputation overwrites rather than accumulates.
func (s *Store) UpsertErrorMetric(ctx context.Context, m *models.ErrorMetric) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO error_metrics
		(model_id, period, start_date, end_date, total_predictions, correct_winners,
		 accuracy, avg_sets_error, avg_games_error,
		 accuracy_top_10, accuracy_top_20, accuracy_top_50, accuracy_top_100,
		 accuracy_both_top_10, accuracy_both_top_20, accuracy_both_top_50, accuracy_both_top_100,
		 updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now())
		ON CONFLICT (model_id, period, end_date) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			total_predictions = EXCLUDED.total_predictions,
			correct_winners = EXCLUDED.correct_winners,
			accuracy = EXCLUDED.accuracy,
			avg_sets_error = EXCLUDED.avg_sets_error,
			avg_games_error = EXCLUDED.avg_games_error,
			accuracy_top_10 = EXCLUDED.accuracy_top_10,
			accuracy_top_20 = EXCLUDED.accuracy_top_20,
			accuracy_top_50 = EXCLUDED.accuracy_top_50,
			accuracy_top_100 = EXCLUDED.accuracy_top_100,
			accuracy_both_top_10 = EXCLUDED.accuracy_both_top_10,
			accuracy_both_top_20 = EXCLUDED.accuracy_both_top_20,
			accuracy_both_top_50 = EXCLUDED.accuracy_both_top_50,
			accuracy_both_top_100 = EXCLUDED.accuracy_both_top_100,
			updated_at = now()`,
		m.ModelID, m.Period, m.StartDate, m.EndDate, m.TotalPredictions, m.CorrectWinners,
		m.Accuracy, m.AvgSetsError, m.AvgGamesError,
		m.AccuracyTop10, m.AccuracyTop20, m.AccuracyTop50, m.AccuracyTop100,
		m.AccuracyBothTop10, m.AccuracyBothTop20, m.AccuracyBothTop50, m.AccuracyBothTop100)
	if err != nil {
		return fmt.Errorf("upsert %s error metric for model %d: %w", m.Period, m.ModelID, err)
	}
	return nil
}

// ErrorMetricsForModel lists the stored window aggregates for a model,
// newest windows first.
func (s *Store) ErrorMetricsForModel(ctx context.Context, modelID int64) ([]*models.ErrorMetric, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT model_id, period, start_date, end_date, total_predictions, correct_winners,
		       accuracy, avg_sets_error, avg_games_error,
		       accuracy_top_10, accuracy_top_20, accuracy_top_50, accuracy_top_100,
		       accuracy_both_top_10, accuracy_both_top_20, accuracy_both_top_50, accuracy_both_top_100
		FROM error_metrics
		WHERE model_id = $1
		ORDER BY end_date DESC, period`, modelID)
	if err != nil {
		return nil, fmt.Errorf("error metrics for model %d: %w", modelID, err)
	}
	defer rows.Close()

	var out []*models.ErrorMetric
	for rows.Next() {
		var m models.ErrorMetric
		err := rows.Scan(&m.ModelID, &m.Period, &m.StartDate, &m.EndDate,
			&m.TotalPredictions, &m.CorrectWinners,
			&m.Accuracy, &m.AvgSetsError, &m.AvgGamesError,
			&m.AccuracyTop10, &m.AccuracyTop20, &m.AccuracyTop50, &m.AccuracyTop100,
			&m.AccuracyBothTop10, &m.AccuracyBothTop20, &m.AccuracyBothTop50, &m.AccuracyBothTop100)
		if err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
