package store

import (
	"context"
	"fmt"
	"time"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// UpsertOdds caches a bookmaker quote for a fixture, replacing any earlier
// quote from the same bookmaker.
func (s *Store) UpsertOdds(ctx context.Context, o *models.BookmakerOdds) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO betting_odds
		(match_date, tournament_id, player_1_id, player_2_id, bookmaker_name,
		 player_1_odds, player_2_odds, fetched_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (match_date, tournament_id, player_1_id, player_2_id, bookmaker_name)
		DO UPDATE SET
			player_1_odds = EXCLUDED.player_1_odds,
			player_2_odds = EXCLUDED.player_2_odds,
			fetched_at = now()`,
		o.MatchDate, o.TournamentID, o.Player1ID, o.Player2ID, o.Bookmaker,
		o.Player1Odds, o.Player2Odds)
	if err != nil {
		return fmt.Errorf("upsert odds for fixture %d/%d on %s: %w",
			o.Player1ID, o.Player2ID, o.MatchDate.Format("2006-01-02"), err)
	}
	return nil
}

// OddsForFixture returns all cached quotes for a fixture, in either
// player-slot order.
func (s *Store) OddsForFixture(ctx context.Context, date time.Time, p1, p2 int64) ([]*models.BookmakerOdds, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT match_date, tournament_id, player_1_id, player_2_id, bookmaker_name,
		       player_1_odds, player_2_odds, fetched_at
		FROM betting_odds
		WHERE match_date = $1
		AND ((player_1_id = $2 AND player_2_id = $3)
		  OR (player_1_id = $3 AND player_2_id = $2))
		ORDER BY bookmaker_name`, date, p1, p2)
	if err != nil {
		return nil, fmt.Errorf("odds for fixture %d/%d: %w", p1, p2, err)
	}
	defer rows.Close()

	var out []*models.BookmakerOdds
	for rows.Next() {
		var o models.BookmakerOdds
		err := rows.Scan(&o.MatchDate, &o.TournamentID, &o.Player1ID, &o.Player2ID,
			&o.Bookmaker, &o.Player1Odds, &o.Player2Odds, &o.FetchedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
