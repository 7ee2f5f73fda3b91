package trainer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/features"
	"github.com/courtiq/tennis-predictor/internal/ml"
	"github.com/courtiq/tennis-predictor/internal/models"
)

// Store is the slice of the persistence layer the trainer drives.
type Store interface {
	TrainingMatchContexts(ctx context.Context, limit int) ([]*models.MatchContext, error)
	DefaultTrainingConfiguration(ctx context.Context) (*models.TrainingConfiguration, error)
	TrainingConfigurationByID(ctx context.Context, id int64) (*models.TrainingConfiguration, error)
	DefaultFeatureConfiguration(ctx context.Context) (*models.FeatureConfiguration, error)
	FeatureConfigurationByID(ctx context.Context, id int64) (*models.FeatureConfiguration, error)
	InsertModel(ctx context.Context, m *models.Model) (int64, error)
	DeactivateAllModels(ctx context.Context) error
	ActivateModel(ctx context.Context, id int64) error
}

// Engineer turns match contexts into supervised rows.
type Engineer interface {
	TrainingSet(ctx context.Context, contexts []*models.MatchContext) ([]*features.TrainingRow, error)
}

// EngineerFactory builds an engineer bound to a weight profile. The trainer
// loads the profile from the feature configuration, so it cannot hold a
// ready-made engineer.
type EngineerFactory func(weights features.Weights) Engineer

// Options select the run's configurations and tuning behavior.
type Options struct {
	TrainingConfigID *int64
	FeatureConfigID  *int64
	Limit            int
	Tune             bool
	TuneIterations   int
	CVFolds          int
}

// TrainedModel is one successfully trained and stored candidate.
type TrainedModel struct {
	ModelID   int64
	ModelType string
	Metrics   models.ValidationMetrics
}

// Result summarizes a training run.
type Result struct {
	Trained    []TrainedModel
	PromotedID int64
	Samples    int
}

type Trainer struct {
	store       Store
	newEngineer EngineerFactory
	modelsDir   string
	logger      *zap.SugaredLogger
}

func New(store Store, newEngineer EngineerFactory, modelsDir string, logger *zap.SugaredLogger) *Trainer {
	return &Trainer{
		store:       store,
		newEngineer: newEngineer,
		modelsDir:   modelsDir,
		logger:      logger,
	}
}

func (t *Trainer) loadConfigs(ctx context.Context, opts Options) (*models.TrainingConfiguration, *models.FeatureConfiguration, error) {
	var tc *models.TrainingConfiguration
	var err error
	if opts.TrainingConfigID != nil {
		tc, err = t.store.TrainingConfigurationByID(ctx, *opts.TrainingConfigID)
	} else {
		tc, err = t.store.DefaultTrainingConfiguration(ctx)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load training configuration: %w", err)
	}

	var fc *models.FeatureConfiguration
	if opts.FeatureConfigID != nil {
		fc, err = t.store.FeatureConfigurationByID(ctx, *opts.FeatureConfigID)
	} else {
		fc, err = t.store.DefaultFeatureConfiguration(ctx)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load feature configuration: %w", err)
	}
	return tc, fc, nil
}

// Run executes the full training protocol: extract, engineer, split, train
// every registered classifier type, store each candidate inactive, then
// promote the candidate with the best validation accuracy. A type that fails
// is logged and skipped; a run with zero successes leaves the previously
// active model untouched.
func (t *Trainer) Run(ctx context.Context, opts Options) (*Result, error) {
	tc, fc, err := t.loadConfigs(ctx, opts)
	if err != nil {
		return nil, err
	}
	weights, err := features.FromMap(fc.Configuration)
	if err != nil {
		return nil, fmt.Errorf("feature configuration %q: %w", fc.Name, err)
	}

	contexts, err := t.store.TrainingMatchContexts(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		return nil, fmt.Errorf("no resolved matches with rank data to train on")
	}

	rows, err := t.newEngineer(weights).TrainingSet(ctx, contexts)
	if err != nil {
		return nil, fmt.Errorf("engineer training set: %w", err)
	}
	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, row := range rows {
		X[i] = row.Features
		y[i] = row.Label
	}

	XTrain, yTrain, XVal, yVal, err := ml.StratifiedSplit(X, y, tc.TrainSplitRatio, tc.RandomSeed)
	if err != nil {
		return nil, err
	}
	t.logger.Infow("training data prepared",
		"samples", len(X), "train", len(XTrain), "validation", len(XVal))

	if err := os.MkdirAll(t.modelsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create models dir: %w", err)
	}

	version := time.Now().UTC().Format("20060102_150405")
	result := Result{Samples: len(X)}
	var bestID int64
	bestAccuracy := -1.0

	for _, modelType := range ml.Types() {
		trained, err := t.trainOne(ctx, modelType, version, tc, fc, opts, XTrain, yTrain, XVal, yVal)
		if err != nil {
			t.logger.Errorw("model training failed, skipping type",
				"model_type", modelType, "error", err)
			continue
		}
		result.Trained = append(result.Trained, *trained)
		if trained.Metrics.Accuracy > bestAccuracy {
			bestAccuracy = trained.Metrics.Accuracy
			bestID = trained.ModelID
		}
	}

	if len(result.Trained) == 0 {
		return nil, fmt.Errorf("all model types failed to train")
	}

	// Two statements, not a transaction: a crash in between leaves no
	// active model until the next run.
	if err := t.store.DeactivateAllModels(ctx); err != nil {
		return nil, err
	}
	if err := t.store.ActivateModel(ctx, bestID); err != nil {
		return nil, err
	}
	result.PromotedID = bestID

	t.logger.Infow("training run complete",
		"candidates", len(result.Trained),
		"promoted_model_id", bestID,
		"validation_accuracy", bestAccuracy)
	return &result, nil
}

func (t *Trainer) trainOne(ctx context.Context, modelType, version string,
	tc *models.TrainingConfiguration, fc *models.FeatureConfiguration, opts Options,
	XTrain [][]float64, yTrain []int, XVal [][]float64, yVal []int) (*TrainedModel, error) {

	params, err := ml.DefaultHyperparameters(modelType)
	if err != nil {
		return nil, err
	}
	if opts.Tune {
		tuner := ml.NewTuner(opts.TuneIterations, opts.CVFolds, tc.RandomSeed)
		tuned, score, err := tuner.Tune(modelType, XTrain, yTrain)
		if err != nil {
			return nil, fmt.Errorf("tune: %w", err)
		}
		for k, v := range tuned {
			params[k] = v
		}
		t.logger.Infow("hyperparameter search finished",
			"model_type", modelType, "cv_accuracy", score, "params", tuned)
	}

	c, err := ml.New(modelType, params)
	if err != nil {
		return nil, err
	}
	if err := c.Train(XTrain, yTrain); err != nil {
		return nil, err
	}

	yPred := make([]int, len(XVal))
	for i, x := range XVal {
		pred, err := c.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("validate: %w", err)
		}
		yPred[i] = pred
	}
	metrics := ml.Evaluate(yVal, yPred)

	path := filepath.Join(t.modelsDir, fmt.Sprintf("%s_%s.json", modelType, uuid.New()))
	if err := ml.Save(c, path); err != nil {
		return nil, err
	}

	var importance map[string]float64
	if scores := c.FeatureImportance(); scores != nil {
		importance = make(map[string]float64, len(scores))
		for i, name := range features.Columns() {
			importance[name] = scores[i]
		}
	}

	modelID, err := t.store.InsertModel(ctx, &models.Model{
		Name:               modelType,
		Type:               modelType,
		Version:            version,
		TrainingConfigID:   opts.TrainingConfigID,
		FeatureConfigID:    opts.FeatureConfigID,
		Hyperparameters:    c.Hyperparameters(),
		TrainingDate:       time.Now().UTC(),
		ValidationAccuracy: metrics.Accuracy,
		ValidationMetrics:  metrics,
		FilePath:           path,
		FeatureColumns:     features.Columns(),
		FeatureImportance:  importance,
		UseErrorFeedback:   tc.UseErrorFeedback,
	})
	if err != nil {
		return nil, err
	}

	t.logger.Infow("model candidate stored",
		"model_type", modelType, "model_id", modelID,
		"accuracy", metrics.Accuracy, "f1", metrics.F1)
	return &TrainedModel{ModelID: modelID, ModelType: modelType, Metrics: metrics}, nil
}
