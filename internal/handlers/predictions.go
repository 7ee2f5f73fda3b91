package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// GetPredictions returns the stored predictions for a date
// @Summary Get Predictions For Date
// @Tags Predictions
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} models.Prediction
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /predictions [get]
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	key := fmt.Sprintf("predictions:%s", date.Format("2006-01-02"))
	h.cachedJSON(w, r, key, func(ctx context.Context) (interface{}, error) {
		preds, err := h.store.PredictionsForDate(ctx, date)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"date":        date.Format("2006-01-02"),
			"count":       len(preds),
			"predictions": preds,
		}, nil
	})
}

// PredictCustomMatch scores an ad hoc matchup with the active model
// @Summary Predict Custom Match
// @Tags Predictions
// @Accept json
// @Produce json
// @Param request body models.CustomMatchRequest true "Matchup"
// @Success 200 {object} models.CustomMatchResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /predict [post]
func (h *Handler) PredictCustomMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.CustomMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Player1 == req.Player2 {
		h.errorResponse(w, http.StatusBadRequest, "Players must differ")
		return
	}

	resp, err := h.predictor.PredictCustom(r.Context(), &req)
	if err != nil {
		h.logger.Errorw("Failed to predict custom match",
			"error", err, "player_1", req.Player1, "player_2", req.Player2)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to predict match")
		return
	}

	h.jsonResponse(w, http.StatusOK, resp)
}
