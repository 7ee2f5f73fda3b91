package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/courtiq/tennis-predictor/internal/store"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

// TriggerRefresh recomputes form and surface statistics for every player
// @Summary Trigger Statistics Refresh
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]string
// @Router /jobs/refresh [post]
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.estimator.RefreshAll(r.Context()); err != nil {
		h.logger.Errorw("Statistics refresh failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Statistics refresh failed")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// TriggerPredict generates predictions for today's eligible matches
// @Summary Trigger Daily Prediction
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "No Active Model"
// @Router /jobs/predict [post]
func (h *Handler) TriggerPredict(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	result, err := h.predictor.PredictDate(r.Context(), today)
	if err != nil {
		if errors.Is(err, store.ErrNoActiveModel) {
			h.errorResponse(w, http.StatusConflict, "No active model; run training first")
			return
		}
		h.logger.Errorw("Prediction run failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Prediction run failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"model_id":    result.ModelID,
		"matches":     result.Matches,
		"skipped":     result.Skipped,
		"predictions": result.Predictions,
	})
}

// TriggerAnalyze resolves yesterday's predictions and rebuilds error windows
// @Summary Trigger Error Analysis
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /jobs/analyze [post]
func (h *Handler) TriggerAnalyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyzer.Run(r.Context())
	if err != nil {
		h.logger.Errorw("Error analysis failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Error analysis failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"resolved":        result.Resolved,
		"metrics_written": result.MetricsWritten,
	})
}

// TriggerTrain runs the full training protocol and promotes the best model
// @Summary Trigger Training
// @Tags Jobs
// @Produce json
// @Param tune query bool false "Run hyperparameter search" default(false)
// @Success 200 {object} map[string]interface{}
// @Router /jobs/train [post]
func (h *Handler) TriggerTrain(w http.ResponseWriter, r *http.Request) {
	opts := trainer.Options{
		Tune: r.URL.Query().Get("tune") == "true",
	}

	result, err := h.trainer.Run(r.Context(), opts)
	if err != nil {
		h.logger.Errorw("Training run failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Training run failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"promoted_id": result.PromotedID,
		"candidates":  len(result.Trained),
		"samples":     result.Samples,
	})
}
