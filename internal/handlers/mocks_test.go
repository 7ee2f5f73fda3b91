package handlers

import (
	"context"
	"time"

	"github.com/courtiq/tennis-predictor/internal/analyzer"
	"github.com/courtiq/tennis-predictor/internal/models"
	"github.com/courtiq/tennis-predictor/internal/predictor"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

// Mocks

type MockReportStore struct {
	PredictionsForDateFunc   func(ctx context.Context, date time.Time) ([]*models.Prediction, error)
	ListModelsFunc           func(ctx context.Context) ([]*models.Model, error)
	ModelByIDFunc            func(ctx context.Context, id int64) (*models.Model, error)
	ErrorMetricsForModelFunc func(ctx context.Context, modelID int64) ([]*models.ErrorMetric, error)
}

func (m *MockReportStore) PredictionsForDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	if m.PredictionsForDateFunc != nil {
		return m.PredictionsForDateFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockReportStore) ListModels(ctx context.Context) ([]*models.Model, error) {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return nil, nil
}

func (m *MockReportStore) ModelByID(ctx context.Context, id int64) (*models.Model, error) {
	if m.ModelByIDFunc != nil {
		return m.ModelByIDFunc(ctx, id)
	}
	return &models.Model{ID: id}, nil
}

func (m *MockReportStore) ErrorMetricsForModel(ctx context.Context, modelID int64) ([]*models.ErrorMetric, error) {
	if m.ErrorMetricsForModelFunc != nil {
		return m.ErrorMetricsForModelFunc(ctx, modelID)
	}
	return nil, nil
}

type MockPredictionService struct {
	PredictDateFunc   func(ctx context.Context, date time.Time) (*predictor.RunResult, error)
	PredictCustomFunc func(ctx context.Context, req *models.CustomMatchRequest) (*models.CustomMatchResponse, error)
}

func (m *MockPredictionService) PredictDate(ctx context.Context, date time.Time) (*predictor.RunResult, error) {
	if m.PredictDateFunc != nil {
		return m.PredictDateFunc(ctx, date)
	}
	return &predictor.RunResult{}, nil
}

func (m *MockPredictionService) PredictCustom(ctx context.Context, req *models.CustomMatchRequest) (*models.CustomMatchResponse, error) {
	if m.PredictCustomFunc != nil {
		return m.PredictCustomFunc(ctx, req)
	}
	return &models.CustomMatchResponse{}, nil
}

type MockTrainingService struct {
	RunFunc func(ctx context.Context, opts trainer.Options) (*trainer.Result, error)
}

func (m *MockTrainingService) Run(ctx context.Context, opts trainer.Options) (*trainer.Result, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, opts)
	}
	return &trainer.Result{}, nil
}

type MockAnalysisService struct {
	RunFunc func(ctx context.Context) (*analyzer.Result, error)
}

func (m *MockAnalysisService) Run(ctx context.Context) (*analyzer.Result, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx)
	}
	return &analyzer.Result{}, nil
}

type MockEstimatorService struct {
	RefreshAllFunc func(ctx context.Context) error
}

func (m *MockEstimatorService) RefreshAll(ctx context.Context) error {
	if m.RefreshAllFunc != nil {
		return m.RefreshAllFunc(ctx)
	}
	return nil
}
