package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// UpsertPlayerStat overwrites the player's mood row, details log included.
// The estimator recomputes from scratch, so the previous log is discarded.
func (s *Store) UpsertPlayerStat(ctx context.Context, stat *models.PlayerStat) error {
	details, err := json.Marshal(stat.Last10Details)
	if err != nil {
		return fmt.Errorf("encode mood details for player %d: %w", stat.PlayerID, err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO player_stats
		(player_id, sports_mood_score, personal_mood_score,
		 last_10_matches_wins, last_10_matches_losses, last_10_matches_details, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (player_id) DO UPDATE SET
			sports_mood_score = EXCLUDED.sports_mood_score,
			personal_mood_score = EXCLUDED.personal_mood_score,
			last_10_matches_wins = EXCLUDED.last_10_matches_wins,
			last_10_matches_losses = EXCLUDED.last_10_matches_losses,
			last_10_matches_details = EXCLUDED.last_10_matches_details,
			updated_at = now()`,
		stat.PlayerID, stat.SportsMood, stat.PersonalMood,
		stat.Last10Wins, stat.Last10Losses, details)
	if err != nil {
		return fmt.Errorf("upsert player stat %d: %w", stat.PlayerID, err)
	}
	return nil
}

func (s *Store) GetPlayerStat(ctx context.Context, playerID int64) (*models.PlayerStat, error) {
	var stat models.PlayerStat
	var details []byte
	err := s.pg.QueryRow(ctx, `
		SELECT player_id, sports_mood_score, personal_mood_score,
		       last_10_matches_wins, last_10_matches_losses, last_10_matches_details, updated_at
		FROM player_stats WHERE player_id = $1`, playerID).
		Scan(&stat.PlayerID, &stat.SportsMood, &stat.PersonalMood,
			&stat.Last10Wins, &stat.Last10Losses, &details, &stat.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get player stat %d: %w", playerID, err)
	}
	if err := json.Unmarshal(details, &stat.Last10Details); err != nil {
		return nil, fmt.Errorf("decode mood details for player %d: %w", playerID, err)
	}
	return &stat, nil
}

// UpsertSurfaceHistory overwrites the (player, surface) win-rate row.
func (s *Store) UpsertSurfaceHistory(ctx context.Context, h *models.SurfaceHistory) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO surface_history
		(player_id, surface_id, last_10_wins, last_10_losses, win_rate,
		 total_wins, total_losses, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (player_id, surface_id) DO UPDATE SET
			last_10_wins = EXCLUDED.last_10_wins,
			last_10_losses = EXCLUDED.last_10_losses,
			win_rate = EXCLUDED.win_rate,
			total_wins = EXCLUDED.total_wins,
			total_losses = EXCLUDED.total_losses,
			last_updated = now()`,
		h.PlayerID, h.SurfaceID, h.Last10Wins, h.Last10Losses, h.WinRate,
		h.TotalWins, h.TotalLosses)
	if err != nil {
		return fmt.Errorf("upsert surface history %d/%d: %w", h.PlayerID, h.SurfaceID, err)
	}
	return nil
}

func (s *Store) GetSurfaceHistory(ctx context.Context, playerID, surfaceID int64) (*models.SurfaceHistory, error) {
	var h models.SurfaceHistory
	err := s.pg.QueryRow(ctx, `
		SELECT player_id, surface_id, last_10_wins, last_10_losses, win_rate,
		       total_wins, total_losses, last_updated
		FROM surface_history WHERE player_id = $1 AND surface_id = $2`,
		playerID, surfaceID).
		Scan(&h.PlayerID, &h.SurfaceID, &h.Last10Wins, &h.Last10Losses, &h.WinRate,
			&h.TotalWins, &h.TotalLosses, &h.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("get surface history %d/%d: %w", playerID, surfaceID, err)
	}
	return &h, nil
}
