package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetOrCreateTournament(ctx context.Context, name string, series *string) (int64, error) {
	var id int64
	err := s.pg.QueryRow(ctx, `SELECT id FROM tournaments WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lookup tournament %q: %w", name, err)
	}

	err = s.pg.QueryRow(ctx, `
		INSERT INTO tournaments (name, series, is_active)
		VALUES ($1, $2, true)
		RETURNING id`, name, series).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create tournament %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) lookupRefID(ctx context.Context, table, name string) (int64, bool, error) {
	var id int64
	// table is one of the three fixed reference tables, never user input
	err := s.pg.QueryRow(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, table), name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup %s %q: %w", table, name, err)
	}
	return id, true, nil
}

func (s *Store) SurfaceID(ctx context.Context, name string) (int64, bool, error) {
	return s.lookupRefID(ctx, "surfaces", name)
}

func (s *Store) CourtTypeID(ctx context.Context, name string) (int64, bool, error) {
	return s.lookupRefID(ctx, "court_types", name)
}

func (s *Store) RoundID(ctx context.Context, name string) (int64, bool, error) {
	return s.lookupRefID(ctx, "rounds", name)
}

// SurfaceIDs lists all surfaces, used for the per-surface refresh sweep.
func (s *Store) SurfaceIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pg.Query(ctx, `SELECT id FROM surfaces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list surfaces: %w", err)
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
