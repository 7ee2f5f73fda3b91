package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// ErrNoActiveModel is returned when prediction is requested and no model row
// is marked active.
var ErrNoActiveModel = errors.New("no active model")

func (s *Store) InsertModel(ctx context.Context, m *models.Model) (int64, error) {
	hyper, err := json.Marshal(m.Hyperparameters)
	if err != nil {
		return 0, fmt.Errorf("encode hyperparameters: %w", err)
	}
	metrics, err := json.Marshal(m.ValidationMetrics)
	if err != nil {
		return 0, fmt.Errorf("encode validation metrics: %w", err)
	}
	columns, err := json.Marshal(m.FeatureColumns)
	if err != nil {
		return 0, fmt.Errorf("encode feature columns: %w", err)
	}
	importance, err := json.Marshal(m.FeatureImportance)
	if err != nil {
		return 0, fmt.Errorf("encode feature importance: %w", err)
	}

	var id int64
	err = s.pg.QueryRow(ctx, `
		INSERT INTO models
		(model_name, model_type, model_version, training_configuration_id,
		 feature_configuration_id, hyperparameters, training_date,
		 validation_accuracy, validation_metrics, model_file_path,
		 feature_columns, feature_importance, is_active, use_error_feedback)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id`,
		m.Name, m.Type, m.Version, m.TrainingConfigID, m.FeatureConfigID,
		hyper, m.TrainingDate, m.ValidationAccuracy, metrics, m.FilePath,
		columns, importance, m.IsActive, m.UseErrorFeedback).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert model %q: %w", m.Name, err)
	}
	return id, nil
}

const modelColumns = `
	id, model_name, model_type, model_version, training_configuration_id,
	feature_configuration_id, hyperparameters, training_date,
	validation_accuracy, validation_metrics, model_file_path,
	feature_columns, feature_importance, is_active, use_error_feedback`

func scanModel(row interface{ Scan(...any) error }) (*models.Model, error) {
	var m models.Model
	var hyper, metrics, columns, importance []byte
	err := row.Scan(&m.ID, &m.Name, &m.Type, &m.Version, &m.TrainingConfigID,
		&m.FeatureConfigID, &hyper, &m.TrainingDate,
		&m.ValidationAccuracy, &metrics, &m.FilePath,
		&columns, &importance, &m.IsActive, &m.UseErrorFeedback)
	if err != nil {
		return nil, err
	}
	if len(hyper) > 0 {
		if err := json.Unmarshal(hyper, &m.Hyperparameters); err != nil {
			return nil, fmt.Errorf("decode hyperparameters for model %d: %w", m.ID, err)
		}
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &m.ValidationMetrics); err != nil {
			return nil, fmt.Errorf("decode validation metrics for model %d: %w", m.ID, err)
		}
	}
	if err := json.Unmarshal(columns, &m.FeatureColumns); err != nil {
		return nil, fmt.Errorf("decode feature columns for model %d: %w", m.ID, err)
	}
	if len(importance) > 0 {
		if err := json.Unmarshal(importance, &m.FeatureImportance); err != nil {
			return nil, fmt.Errorf("decode feature importance for model %d: %w", m.ID, err)
		}
	}
	return &m, nil
}

// ActiveModel returns the active model with the highest validation accuracy.
func (s *Store) ActiveModel(ctx context.Context) (*models.Model, error) {
	m, err := scanModel(s.pg.QueryRow(ctx, `
		SELECT `+modelColumns+`
		FROM models WHERE is_active = true
		ORDER BY validation_accuracy DESC
		LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveModel
	}
	if err != nil {
		return nil, fmt.Errorf("load active model: %w", err)
	}
	return m, nil
}

func (s *Store) ModelByID(ctx context.Context, id int64) (*models.Model, error) {
	m, err := scanModel(s.pg.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM models WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("load model %d: %w", id, err)
	}
	return m, nil
}

func (s *Store) ListModels(ctx context.Context) ([]*models.Model, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT `+modelColumns+` FROM models ORDER BY training_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []*models.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeactivateAllModels(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, `UPDATE models SET is_active = false WHERE is_active = true`); err != nil {
		return fmt.Errorf("deactivate models: %w", err)
	}
	return nil
}

func (s *Store) ActivateModel(ctx context.Context, id int64) error {
	tag, err := s.pg.Exec(ctx, `UPDATE models SET is_active = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate model %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activate model %d: no such model", id)
	}
	return nil
}
