package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// GetOrCreatePlayer resolves a player id by name, creating the row if the
// player has not been seen before.
func (s *Store) GetOrCreatePlayer(ctx context.Context, name string, country *string) (int64, error) {
	var id int64
	err := s.pg.QueryRow(ctx, `SELECT id FROM players WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lookup player %q: %w", name, err)
	}

	err = s.pg.QueryRow(ctx, `
		INSERT INTO players (name, country, is_active)
		VALUES ($1, $2, true)
		RETURNING id`, name, country).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create player %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	var p models.Player
	err := s.pg.QueryRow(ctx, `
		SELECT id, name, country, current_rank, current_points, is_active
		FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Country, &p.CurrentRank, &p.CurrentPoints, &p.IsActive)
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return &p, nil
}

// UpdatePlayerRank refreshes a player's current rank and points from the most
// recent ranked-match data.
func (s *Store) UpdatePlayerRank(ctx context.Context, playerID int64, rank, points int) error {
	_, err := s.pg.Exec(ctx, `
		UPDATE players
		SET current_rank = $1, current_points = $2, updated_at = now()
		WHERE id = $3`, rank, points, playerID)
	if err != nil {
		return fmt.Errorf("update rank for player %d: %w", playerID, err)
	}
	return nil
}

// ActivePlayerIDs lists every player included in estimator refresh sweeps.
func (s *Store) ActivePlayerIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pg.Query(ctx, `SELECT id FROM players WHERE is_active = true ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
