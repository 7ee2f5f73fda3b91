package stats

import (
	"context"
	"fmt"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// ComputeSurfaceHistory derives the (player, surface) win-rate row. WinRate
// covers the player's last-10 matches on the surface and is 0.0 with no
// history; the totals scan the entire record.
func (e *Estimator) ComputeSurfaceHistory(ctx context.Context, playerID, surfaceID int64) (*models.SurfaceHistory, error) {
	matches, err := e.history.LastNMatches(ctx, playerID, windowSize, &surfaceID)
	if err != nil {
		return nil, fmt.Errorf("surface history for player %d surface %d: %w", playerID, surfaceID, err)
	}

	h := models.SurfaceHistory{PlayerID: playerID, SurfaceID: surfaceID}
	for i := range matches {
		isWin, _, _ := playerPerspective(&matches[i], playerID)
		if isWin {
			h.Last10Wins++
		} else {
			h.Last10Losses++
		}
	}
	if n := h.Last10Wins + h.Last10Losses; n > 0 {
		h.WinRate = float64(h.Last10Wins) / float64(n)
	}

	total, wins, err := e.history.SurfaceRecord(ctx, playerID, surfaceID)
	if err != nil {
		return nil, err
	}
	h.TotalWins = wins
	h.TotalLosses = total - wins
	return &h, nil
}

// UpdateSurfaceHistory recomputes and stores one (player, surface) row.
func (e *Estimator) UpdateSurfaceHistory(ctx context.Context, playerID, surfaceID int64) error {
	h, err := e.ComputeSurfaceHistory(ctx, playerID, surfaceID)
	if err != nil {
		return err
	}
	return e.history.UpsertSurfaceHistory(ctx, h)
}
