package models

// TrainingConfiguration names a train/validation split protocol. Exactly one
// row is marked default.
type TrainingConfiguration struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description,omitempty"`
	TrainSplitRatio      float64 `json:"train_split_ratio"`
	ValidationSplitRatio float64 `json:"validation_split_ratio"`
	RandomSeed           int64   `json:"random_seed"`
	UseErrorFeedback     bool    `json:"use_error_feedback"`
	IsDefault            bool    `json:"is_default"`
}

// FeatureConfiguration names a multiplicative weighting profile over the
// fixed feature set. The raw jsonb mapping is decoded and validated for
// completeness by the features package.
type FeatureConfiguration struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Configuration map[string]float64 `json:"configuration"`
	IsDefault     bool               `json:"is_default"`
}
