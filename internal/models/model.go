package models

import "time"

// Model is a versioned classifier artifact. At most one row has
// IsActive == true at any time; the trainer promotes the best model of a run
// and deactivates the rest.
type Model struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"model_name"`
	Type               string             `json:"model_type"`
	Version            string             `json:"model_version"`
	TrainingConfigID   *int64             `json:"training_configuration_id,omitempty"`
	FeatureConfigID    *int64             `json:"feature_configuration_id,omitempty"`
	Hyperparameters    map[string]float64 `json:"hyperparameters"`
	TrainingDate       time.Time          `json:"training_date"`
	ValidationAccuracy float64            `json:"validation_accuracy"`
	ValidationMetrics  ValidationMetrics  `json:"validation_metrics"`
	FilePath           string             `json:"model_file_path"`
	FeatureColumns     []string           `json:"feature_columns"`
	FeatureImportance  map[string]float64 `json:"feature_importance,omitempty"`
	IsActive           bool               `json:"is_active"`
	UseErrorFeedback   bool               `json:"use_error_feedback"`
}

// ValidationMetrics are the held-out evaluation results recorded with a model.
type ValidationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}
