package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/analyzer"
	"github.com/courtiq/tennis-predictor/internal/models"
	"github.com/courtiq/tennis-predictor/internal/predictor"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// PredictionService scores matches with the active model.
type PredictionService interface {
	PredictDate(ctx context.Context, date time.Time) (*predictor.RunResult, error)
	PredictCustom(ctx context.Context, req *models.CustomMatchRequest) (*models.CustomMatchResponse, error)
}

// TrainingService runs the full training protocol.
type TrainingService interface {
	Run(ctx context.Context, opts trainer.Options) (*trainer.Result, error)
}

// AnalysisService resolves predictions and recomputes rolling error windows.
type AnalysisService interface {
	Run(ctx context.Context) (*analyzer.Result, error)
}

// EstimatorService recomputes player form and surface statistics.
type EstimatorService interface {
	RefreshAll(ctx context.Context) error
}

// ReportStore is the read-only slice of the persistence layer the API serves.
type ReportStore interface {
	PredictionsForDate(ctx context.Context, date time.Time) ([]*models.Prediction, error)
	ListModels(ctx context.Context) ([]*models.Model, error)
	ModelByID(ctx context.Context, id int64) (*models.Model, error)
	ErrorMetricsForModel(ctx context.Context, modelID int64) ([]*models.ErrorMetric, error)
}

type Config struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Logger   *zap.Logger
	CacheTTL time.Duration
	// Services
	Store     ReportStore
	Predictor PredictionService
	Trainer   TrainingService
	Analyzer  AnalysisService
	Estimator EstimatorService
}

type Handler struct {
	pg        *pgxpool.Pool
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
	cacheTTL  time.Duration
	store     ReportStore
	predictor PredictionService
	trainer   TrainingService
	analyzer  AnalysisService
	estimator EstimatorService
}

func New(cfg Config) *Handler {
	return &Handler{
		pg:        cfg.Postgres,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		cacheTTL:  cfg.CacheTTL,
		store:     cfg.Store,
		predictor: cfg.Predictor,
		trainer:   cfg.Trainer,
		analyzer:  cfg.Analyzer,
		estimator: cfg.Estimator,
	}
}
