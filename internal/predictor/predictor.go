package predictor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/features"
	"github.com/courtiq/tennis-predictor/internal/ml"
	"github.com/courtiq/tennis-predictor/internal/models"
)

// Placeholder totals until dedicated set/game regressors exist.
const (
	placeholderSets  = 3
	placeholderGames = 20
)

// defaultRankFallback is the rank assumed for an unranked player in ad hoc
// predictions.
const defaultRankFallback = 100

// Store is the slice of the persistence layer the predictor drives.
type Store interface {
	ActiveModel(ctx context.Context) (*models.Model, error)
	DefaultFeatureConfiguration(ctx context.Context) (*models.FeatureConfiguration, error)
	FeatureConfigurationByID(ctx context.Context, id int64) (*models.FeatureConfiguration, error)
	PendingMatchContexts(ctx context.Context, date time.Time, series []string) ([]*models.MatchContext, error)
	InsertPrediction(ctx context.Context, p *models.Prediction) (int64, error)

	GetOrCreatePlayer(ctx context.Context, name string, country *string) (int64, error)
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)
	GetOrCreateTournament(ctx context.Context, name string, series *string) (int64, error)
	SurfaceID(ctx context.Context, name string) (int64, bool, error)
	CourtTypeID(ctx context.Context, name string) (int64, bool, error)
	RoundID(ctx context.Context, name string) (int64, bool, error)
	InsertMatch(ctx context.Context, m *models.Match) (int64, error)
	MatchContextByID(ctx context.Context, matchID int64) (*models.MatchContext, error)
	DeleteMatch(ctx context.Context, id int64) error
}

// Estimator refreshes the derived rows for the two players of an ad hoc
// fixture before scoring it.
type Estimator interface {
	UpdateMood(ctx context.Context, playerID int64) error
	UpdateSurfaceHistory(ctx context.Context, playerID, surfaceID int64) error
}

// Engineer builds inference vectors.
type Engineer interface {
	Vector(ctx context.Context, mc *models.MatchContext) ([]float64, error)
}

// EngineerFactory binds an engineer to the active model's weight profile.
type EngineerFactory func(weights features.Weights) Engineer

// RunResult summarizes a batch prediction run.
type RunResult struct {
	ModelID     int64
	Matches     int
	Predictions []models.PredictionSummary
	Skipped     int
}

type Predictor struct {
	store       Store
	estimator   Estimator
	newEngineer EngineerFactory
	series      []string
	loadModel   func(path string) (ml.Classifier, error)
	logger      *zap.SugaredLogger
}

func New(store Store, estimator Estimator, newEngineer EngineerFactory, series []string, logger *zap.SugaredLogger) *Predictor {
	return &Predictor{
		store:       store,
		estimator:   estimator,
		newEngineer: newEngineer,
		series:      series,
		loadModel:   ml.Load,
		logger:      logger,
	}
}

// activeScorer is the loaded active model with everything needed to score.
type activeScorer struct {
	model      *models.Model
	classifier ml.Classifier
	engineer   Engineer
}

// loadActive fetches the active model, checks its persisted feature schema
// against the current one and reconstructs the classifier. Schema drift is a
// hard error; scoring with reordered columns would be silently wrong.
func (p *Predictor) loadActive(ctx context.Context) (*activeScorer, error) {
	model, err := p.store.ActiveModel(ctx)
	if err != nil {
		return nil, err
	}
	if !features.SameColumns(model.FeatureColumns) {
		return nil, fmt.Errorf("model %d was trained on a different feature schema; retrain before predicting", model.ID)
	}

	classifier, err := p.loadModel(model.FilePath)
	if err != nil {
		return nil, fmt.Errorf("load model %d: %w", model.ID, err)
	}

	var fc *models.FeatureConfiguration
	if model.FeatureConfigID != nil {
		fc, err = p.store.FeatureConfigurationByID(ctx, *model.FeatureConfigID)
	} else {
		fc, err = p.store.DefaultFeatureConfiguration(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load feature configuration for model %d: %w", model.ID, err)
	}
	weights, err := features.FromMap(fc.Configuration)
	if err != nil {
		return nil, fmt.Errorf("feature configuration %q: %w", fc.Name, err)
	}

	p.logger.Infow("active model loaded",
		"model_id", model.ID, "model_type", model.Type,
		"validation_accuracy", model.ValidationAccuracy)
	return &activeScorer{model: model, classifier: classifier, engineer: p.newEngineer(weights)}, nil
}

type scored struct {
	winnerID    int64
	probability float64
	confidence  float64
}

func (s *activeScorer) score(ctx context.Context, mc *models.MatchContext) (*scored, error) {
	vector, err := s.engineer.Vector(ctx, mc)
	if err != nil {
		return nil, err
	}
	class, err := s.classifier.Predict(vector)
	if err != nil {
		return nil, err
	}
	proba, err := s.classifier.PredictProba(vector)
	if err != nil {
		return nil, err
	}

	out := scored{probability: proba[class]}
	if class == 1 {
		out.winnerID = mc.Player1ID
	} else {
		out.winnerID = mc.Player2ID
	}
	if proba[0] > proba[1] {
		out.confidence = proba[0]
	} else {
		out.confidence = proba[1]
	}
	return &out, nil
}

// PredictDate scores every pending fixture on the date whose tournament
// series passes the inclusion filter. A match that fails to score is logged
// and skipped; the run carries on.
func (p *Predictor) PredictDate(ctx context.Context, date time.Time) (*RunResult, error) {
	scorer, err := p.loadActive(ctx)
	if err != nil {
		return nil, err
	}

	contexts, err := p.store.PendingMatchContexts(ctx, date, p.series)
	if err != nil {
		return nil, err
	}
	result := RunResult{ModelID: scorer.model.ID, Matches: len(contexts)}
	if len(contexts) == 0 {
		p.logger.Infow("no pending matches to predict", "date", date.Format("2006-01-02"))
		return &result, nil
	}

	for _, mc := range contexts {
		sc, err := scorer.score(ctx, mc)
		if err != nil {
			p.logger.Errorw("match scoring failed, skipping",
				"match_id", mc.MatchID, "error", err)
			result.Skipped++
			continue
		}

		predictionID, err := p.store.InsertPrediction(ctx, &models.Prediction{
			ModelID:             scorer.model.ID,
			MatchDate:           date,
			TournamentID:        mc.TournamentID,
			Player1ID:           mc.Player1ID,
			Player2ID:           mc.Player2ID,
			PredictedWinnerID:   sc.winnerID,
			PredictedTotalSets:  placeholderSets,
			PredictedTotalGames: placeholderGames,
			WinnerProbability:   sc.probability,
			ConfidenceScore:     sc.confidence,
			PredictionTime:      time.Now().UTC(),
		})
		if err != nil {
			p.logger.Errorw("prediction insert failed, skipping",
				"match_id", mc.MatchID, "error", err)
			result.Skipped++
			continue
		}

		winnerName := mc.Player2Name
		if sc.winnerID == mc.Player1ID {
			winnerName = mc.Player1Name
		}
		result.Predictions = append(result.Predictions, models.PredictionSummary{
			PredictionID:    predictionID,
			Matchup:         fmt.Sprintf("%s vs %s", mc.Player1Name, mc.Player2Name),
			Tournament:      mc.TournamentName,
			PredictedWinner: winnerName,
			Confidence:      sc.confidence,
		})
		p.logger.Infow("match predicted",
			"match_id", mc.MatchID,
			"predicted_winner", winnerName,
			"confidence", sc.confidence)
	}
	return &result, nil
}
