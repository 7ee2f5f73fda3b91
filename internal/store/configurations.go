package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courtiq/tennis-predictor/internal/models"
)

func (s *Store) scanFeatureConfig(row interface{ Scan(...any) error }) (*models.FeatureConfiguration, error) {
	var fc models.FeatureConfiguration
	var raw []byte
	var desc *string
	if err := row.Scan(&fc.ID, &fc.Name, &desc, &raw, &fc.IsDefault); err != nil {
		return nil, err
	}
	if desc != nil {
		fc.Description = *desc
	}
	if err := json.Unmarshal(raw, &fc.Configuration); err != nil {
		return nil, fmt.Errorf("decode feature configuration %q: %w", fc.Name, err)
	}
	return &fc, nil
}

func (s *Store) DefaultFeatureConfiguration(ctx context.Context) (*models.FeatureConfiguration, error) {
	fc, err := s.scanFeatureConfig(s.pg.QueryRow(ctx, `
		SELECT id, name, description, configuration, is_default
		FROM feature_configurations WHERE is_default = true
		ORDER BY id LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("default feature configuration: %w", err)
	}
	return fc, nil
}

func (s *Store) FeatureConfigurationByID(ctx context.Context, id int64) (*models.FeatureConfiguration, error) {
	fc, err := s.scanFeatureConfig(s.pg.QueryRow(ctx, `
		SELECT id, name, description, configuration, is_default
		FROM feature_configurations WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("feature configuration %d: %w", id, err)
	}
	return fc, nil
}

func (s *Store) scanTrainingConfig(row interface{ Scan(...any) error }) (*models.TrainingConfiguration, error) {
	var tc models.TrainingConfiguration
	var desc *string
	err := row.Scan(&tc.ID, &tc.Name, &desc, &tc.TrainSplitRatio,
		&tc.ValidationSplitRatio, &tc.RandomSeed, &tc.UseErrorFeedback, &tc.IsDefault)
	if err != nil {
		return nil, err
	}
	if desc != nil {
		tc.Description = *desc
	}
	return &tc, nil
}

func (s *Store) DefaultTrainingConfiguration(ctx context.Context) (*models.TrainingConfiguration, error) {
	tc, err := s.scanTrainingConfig(s.pg.QueryRow(ctx, `
		SELECT id, name, description, train_split_ratio, validation_split_ratio,
		       random_seed, use_error_feedback, is_default
		FROM training_configurations WHERE is_default = true
		ORDER BY id LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("default training configuration: %w", err)
	}
	return tc, nil
}

func (s *Store) TrainingConfigurationByID(ctx context.Context, id int64) (*models.TrainingConfiguration, error) {
	tc, err := s.scanTrainingConfig(s.pg.QueryRow(ctx, `
		SELECT id, name, description, train_split_ratio, validation_split_ratio,
		       random_seed, use_error_feedback, is_default
		FROM training_configurations WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("training configuration %d: %w", id, err)
	}
	return tc, nil
}
