package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ListModels returns every stored model, newest first
// @Summary List Models
// @Tags Models
// @Produce json
// @Success 200 {array} models.Model
// @Router /models [get]
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	h.cachedJSON(w, r, "models:all", func(ctx context.Context) (interface{}, error) {
		list, err := h.store.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"count":  len(list),
			"models": list,
		}, nil
	})
}

// GetModelMetrics returns the rolling error windows for one model
// @Summary Get Model Error Metrics
// @Tags Models
// @Produce json
// @Param id path int true "Model ID"
// @Success 200 {array} models.ErrorMetric
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /models/{id}/metrics [get]
func (h *Handler) GetModelMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.errorResponse(w, http.StatusBadRequest, "Model ID must be a positive integer")
		return
	}

	key := fmt.Sprintf("metrics:model:%d", id)
	h.cachedJSON(w, r, key, func(ctx context.Context) (interface{}, error) {
		model, err := h.store.ModelByID(ctx, id)
		if err != nil {
			return nil, err
		}
		metrics, err := h.store.ErrorMetricsForModel(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"model":   model,
			"metrics": metrics,
		}, nil
	})
}
