package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/models"
	"github.com/courtiq/tennis-predictor/internal/predictor"
	"github.com/courtiq/tennis-predictor/internal/store"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

func newTestHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Store == nil {
		cfg.Store = &MockReportStore{}
	}
	if cfg.Predictor == nil {
		cfg.Predictor = &MockPredictionService{}
	}
	if cfg.Trainer == nil {
		cfg.Trainer = &MockTrainingService{}
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = &MockAnalysisService{}
	}
	if cfg.Estimator == nil {
		cfg.Estimator = &MockEstimatorService{}
	}
	return New(cfg)
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewRouter(h, []string{"*"}).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestHandler(Config{})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestReadyWithoutDependencies(t *testing.T) {
	h := newTestHandler(Config{})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 with no backing stores", rec.Code)
	}
}

func TestGetPredictions(t *testing.T) {
	var gotDate time.Time
	st := &MockReportStore{
		PredictionsForDateFunc: func(_ context.Context, date time.Time) ([]*models.Prediction, error) {
			gotDate = date
			return []*models.Prediction{
				{ID: 1, ModelID: 9, PredictedWinnerID: 10},
				{ID: 2, ModelID: 9, PredictedWinnerID: 20},
			}, nil
		},
	}
	h := newTestHandler(Config{Store: st})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/predictions?date=2026-08-31", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC); !gotDate.Equal(want) {
		t.Errorf("queried date = %v, want %v", gotDate, want)
	}

	var body struct {
		Count       int                  `json:"count"`
		Predictions []*models.Prediction `json:"predictions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 2 || len(body.Predictions) != 2 {
		t.Errorf("count = %d with %d predictions, want 2/2", body.Count, len(body.Predictions))
	}
}

func TestGetPredictionsBadDate(t *testing.T) {
	h := newTestHandler(Config{})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/predictions?date=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPredictCustomMatch(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		predictErr     error
		expectedStatus int
	}{
		{
			name:           "valid request",
			body:           `{"player_1": "Alpha", "player_2": "Beta", "surface": "Clay"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing player",
			body:           `{"player_1": "Alpha"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "same player twice",
			body:           `{"player_1": "Alpha", "player_2": "Alpha"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid rank",
			body:           `{"player_1": "Alpha", "player_2": "Beta", "rank_1": 0}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"player_1": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "predictor failure",
			body:           `{"player_1": "Alpha", "player_2": "Beta"}`,
			predictErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPredictionService{
				PredictCustomFunc: func(_ context.Context, req *models.CustomMatchRequest) (*models.CustomMatchResponse, error) {
					if tt.predictErr != nil {
						return nil, tt.predictErr
					}
					return &models.CustomMatchResponse{
						Player1:         req.Player1,
						Player2:         req.Player2,
						PredictedWinner: req.Player1,
						WinProbability:  0.8,
						Confidence:      0.8,
					}, nil
				},
			}
			h := newTestHandler(Config{Predictor: svc})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(h, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if tt.expectedStatus == http.StatusOK {
				var resp models.CustomMatchResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatal(err)
				}
				if resp.PredictedWinner != "Alpha" {
					t.Errorf("predicted winner = %q, want Alpha", resp.PredictedWinner)
				}
			}
		})
	}
}

func TestGetModelMetrics(t *testing.T) {
	st := &MockReportStore{
		ErrorMetricsForModelFunc: func(_ context.Context, modelID int64) ([]*models.ErrorMetric, error) {
			return []*models.ErrorMetric{
				{ModelID: modelID, Period: "last_week", TotalPredictions: 10, Accuracy: 0.6},
			}, nil
		},
	}
	h := newTestHandler(Config{Store: st})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/models/7/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Metrics []*models.ErrorMetric `json:"metrics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Metrics) != 1 || body.Metrics[0].ModelID != 7 {
		t.Errorf("metrics = %+v, want one row for model 7", body.Metrics)
	}
}

func TestGetModelMetricsBadID(t *testing.T) {
	h := newTestHandler(Config{})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/models/abc/metrics", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTriggerPredictNoActiveModel(t *testing.T) {
	svc := &MockPredictionService{
		PredictDateFunc: func(context.Context, time.Time) (*predictor.RunResult, error) {
			return nil, store.ErrNoActiveModel
		},
	}
	h := newTestHandler(Config{Predictor: svc})

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/predict", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 when no model is active", rec.Code)
	}
}

func TestTriggerTrainPassesTuneFlag(t *testing.T) {
	var gotOpts trainer.Options
	svc := &MockTrainingService{
		RunFunc: func(_ context.Context, opts trainer.Options) (*trainer.Result, error) {
			gotOpts = opts
			return &trainer.Result{PromotedID: 3, Samples: 100}, nil
		},
	}
	h := newTestHandler(Config{Trainer: svc})

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/train?tune=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !gotOpts.Tune {
		t.Error("tune flag was not passed through")
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["promoted_id"].(float64) != 3 {
		t.Errorf("promoted_id = %v, want 3", body["promoted_id"])
	}
}

func TestTriggerRefreshFailure(t *testing.T) {
	svc := &MockEstimatorService{
		RefreshAllFunc: func(context.Context) error { return errors.New("db down") },
	}
	h := newTestHandler(Config{Estimator: svc})

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/refresh", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestTriggerAnalyze(t *testing.T) {
	h := newTestHandler(Config{})
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/analyze", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
