// Package app wires the shared service graph used by every binary.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/analyzer"
	"github.com/courtiq/tennis-predictor/internal/config"
	"github.com/courtiq/tennis-predictor/internal/features"
	"github.com/courtiq/tennis-predictor/internal/ingest"
	"github.com/courtiq/tennis-predictor/internal/predictor"
	"github.com/courtiq/tennis-predictor/internal/stats"
	"github.com/courtiq/tennis-predictor/internal/store"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

// App is the connected service graph.
type App struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Store  *store.Store

	Estimator *stats.Estimator
	Trainer   *trainer.Trainer
	Predictor *predictor.Predictor
	Analyzer  *analyzer.Analyzer
	Loader    *ingest.Loader
}

// NewLogger builds the zap logger for the configured environment.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Setup loads configuration, connects the backing stores and builds every
// service. Callers own Close.
func Setup(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Env)
	if err != nil {
		return nil, err
	}
	sugar := logger.Sugar()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)

	st := store.New(pool)
	estimator := stats.NewEstimator(st, nil, stats.DefaultMoodWeights, cfg.RefreshConcurrency, sugar)

	a := &App{
		Cfg:       cfg,
		Logger:    logger,
		Pool:      pool,
		Redis:     rdb,
		Store:     st,
		Estimator: estimator,
		Trainer: trainer.New(st, func(w features.Weights) trainer.Engineer {
			return features.NewEngineer(st, w)
		}, cfg.ModelsDir, sugar),
		Predictor: predictor.New(st, estimator, func(w features.Weights) predictor.Engineer {
			return features.NewEngineer(st, w)
		}, cfg.MinSeries, sugar),
		Analyzer: analyzer.New(st, sugar),
		Loader:   ingest.NewLoader(st, sugar),
	}
	return a, nil
}

// Close releases the backing connections.
func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Logger != nil {
		a.Logger.Sync()
	}
}
