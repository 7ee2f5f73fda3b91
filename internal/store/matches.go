package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// matchContextColumns is the joined projection shared by the training
// extract, the pending-match fetch and the single-match lookup. Estimator
// values come through LEFT JOINs and stay nullable; imputation is the
// feature engineer's job.
const matchContextColumns = `
	m.id, m.date, m.tournament_id, t.name, t.series,
	m.player_1_id, m.player_2_id, p1.name, p2.name,
	m.rank_1, m.rank_2, m.pts_1, m.pts_2,
	m.surface_id, m.court_type_id, m.round_id,
	ps1.sports_mood_score, ps2.sports_mood_score,
	ps1.personal_mood_score, ps2.personal_mood_score,
	sh1.win_rate, sh2.win_rate,
	m.winner_id, m.total_sets, m.total_games`

const matchContextJoins = `
	FROM matches m
	JOIN tournaments t ON m.tournament_id = t.id
	JOIN players p1 ON m.player_1_id = p1.id
	JOIN players p2 ON m.player_2_id = p2.id
	LEFT JOIN player_stats ps1 ON m.player_1_id = ps1.player_id
	LEFT JOIN player_stats ps2 ON m.player_2_id = ps2.player_id
	LEFT JOIN surface_history sh1 ON m.player_1_id = sh1.player_id AND m.surface_id = sh1.surface_id
	LEFT JOIN surface_history sh2 ON m.player_2_id = sh2.player_id AND m.surface_id = sh2.surface_id`

func scanMatchContext(rows pgx.Rows) (*models.MatchContext, error) {
	var mc models.MatchContext
	err := rows.Scan(
		&mc.MatchID, &mc.Date, &mc.TournamentID, &mc.TournamentName, &mc.Series,
		&mc.Player1ID, &mc.Player2ID, &mc.Player1Name, &mc.Player2Name,
		&mc.Rank1, &mc.Rank2, &mc.Points1, &mc.Points2,
		&mc.SurfaceID, &mc.CourtTypeID, &mc.RoundID,
		&mc.SportsMood1, &mc.SportsMood2,
		&mc.PersonalMood1, &mc.PersonalMood2,
		&mc.SurfaceRate1, &mc.SurfaceRate2,
		&mc.WinnerID, &mc.TotalSets, &mc.TotalGames,
	)
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

func (s *Store) InsertMatch(ctx context.Context, m *models.Match) (int64, error) {
	var id int64
	err := s.pg.QueryRow(ctx, `
		INSERT INTO matches
		(tournament_id, date, round_id, court_type_id, surface_id, best_of,
		 player_1_id, player_2_id, winner_id, rank_1, rank_2, pts_1, pts_2,
		 odd_1, odd_2, score, total_sets, total_games)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id`,
		m.TournamentID, m.Date, m.RoundID, m.CourtTypeID, m.SurfaceID, m.BestOf,
		m.Player1ID, m.Player2ID, m.WinnerID, m.Rank1, m.Rank2, m.Points1, m.Points2,
		m.Odds1, m.Odds2, m.Score, m.TotalSets, m.TotalGames,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return id, nil
}

// MatchExists reports whether the fixture already exists for the tournament
// and date, checking both player-slot orders.
func (s *Store) MatchExists(ctx context.Context, tournamentID int64, date time.Time, p1, p2 int64) (int64, bool, error) {
	var id int64
	err := s.pg.QueryRow(ctx, `
		SELECT id FROM matches
		WHERE tournament_id = $1 AND date = $2
		AND ((player_1_id = $3 AND player_2_id = $4)
		  OR (player_1_id = $4 AND player_2_id = $3))`,
		tournamentID, date, p1, p2).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("check match exists: %w", err)
	}
	return id, true, nil
}

// DeleteMatch removes a match row; used only for the transient fixtures
// created by ad hoc predictions.
func (s *Store) DeleteMatch(ctx context.Context, id int64) error {
	if _, err := s.pg.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete match %d: %w", id, err)
	}
	return nil
}

// SetMatchResult records a final outcome. Administrative correction path;
// normal resolution arrives through the loader.
func (s *Store) SetMatchResult(ctx context.Context, id, winnerID int64, score string, totalSets, totalGames int) error {
	_, err := s.pg.Exec(ctx, `
		UPDATE matches
		SET winner_id = $1, score = $2, total_sets = $3, total_games = $4
		WHERE id = $5`, winnerID, score, totalSets, totalGames, id)
	if err != nil {
		return fmt.Errorf("set result for match %d: %w", id, err)
	}
	return nil
}

// LastNMatches returns a player's most recent resolved matches, newest
// first, optionally restricted to one surface.
func (s *Store) LastNMatches(ctx context.Context, playerID int64, n int, surfaceID *int64) ([]models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.date, m.round_id, m.court_type_id, m.surface_id,
		       m.best_of, m.player_1_id, m.player_2_id, m.winner_id,
		       m.rank_1, m.rank_2, m.pts_1, m.pts_2, m.odd_1, m.odd_2,
		       m.score, m.total_sets, m.total_games
		FROM matches m
		WHERE (m.player_1_id = $1 OR m.player_2_id = $1)
		AND m.winner_id IS NOT NULL`
	args := []any{playerID}
	if surfaceID != nil {
		query += ` AND m.surface_id = $2 ORDER BY m.date DESC LIMIT $3`
		args = append(args, *surfaceID, n)
	} else {
		query += ` ORDER BY m.date DESC LIMIT $2`
		args = append(args, n)
	}

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("last %d matches for player %d: %w", n, playerID, err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Date, &m.RoundID, &m.CourtTypeID, &m.SurfaceID,
			&m.BestOf, &m.Player1ID, &m.Player2ID, &m.WinnerID,
			&m.Rank1, &m.Rank2, &m.Points1, &m.Points2, &m.Odds1, &m.Odds2,
			&m.Score, &m.TotalSets, &m.TotalGames,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// SurfaceRecord counts a player's entire resolved history on a surface.
// Independent of the last-10 window by design.
func (s *Store) SurfaceRecord(ctx context.Context, playerID, surfaceID int64) (total, wins int, err error) {
	err = s.pg.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN winner_id = $1 THEN 1 ELSE 0 END), 0)
		FROM matches
		WHERE (player_1_id = $1 OR player_2_id = $1)
		AND surface_id = $2
		AND winner_id IS NOT NULL`, playerID, surfaceID).Scan(&total, &wins)
	if err != nil {
		return 0, 0, fmt.Errorf("surface record for player %d surface %d: %w", playerID, surfaceID, err)
	}
	return total, wins, nil
}

// LastNWinRate computes a player's win rate over their most recent n
// resolved matches. Zero history yields 0.0.
func (s *Store) LastNWinRate(ctx context.Context, playerID int64, n int) (float64, error) {
	var total, wins int
	err := s.pg.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN winner_id = $1 THEN 1 ELSE 0 END), 0)
		FROM (
			SELECT winner_id FROM matches
			WHERE (player_1_id = $1 OR player_2_id = $1)
			AND winner_id IS NOT NULL
			ORDER BY date DESC
			LIMIT $2
		) recent`, playerID, n).Scan(&total, &wins)
	if err != nil {
		return 0, fmt.Errorf("last %d win rate for player %d: %w", n, playerID, err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(wins) / float64(total), nil
}

// HeadToHead tallies all prior meetings between two players in either
// player-slot order.
func (s *Store) HeadToHead(ctx context.Context, p1, p2 int64) (models.HeadToHead, error) {
	var h2h models.HeadToHead
	err := s.pg.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN winner_id = $1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN winner_id = $2 THEN 1 ELSE 0 END), 0)
		FROM matches
		WHERE (player_1_id = $1 AND player_2_id = $2)
		   OR (player_1_id = $2 AND player_2_id = $1)`, p1, p2).
		Scan(&h2h.TotalMatches, &h2h.Player1Wins, &h2h.Player2Wins)
	if err != nil {
		return models.HeadToHead{}, fmt.Errorf("head to head %d vs %d: %w", p1, p2, err)
	}
	return h2h, nil
}

// TrainingMatchContexts extracts every resolved match with complete rank
// data, newest first, joined with the current estimator outputs.
func (s *Store) TrainingMatchContexts(ctx context.Context, limit int) ([]*models.MatchContext, error) {
	query := `SELECT ` + matchContextColumns + matchContextJoins + `
		WHERE m.winner_id IS NOT NULL
		AND m.rank_1 IS NOT NULL
		AND m.rank_2 IS NOT NULL
		ORDER BY m.date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("extract training matches: %w", err)
	}
	defer rows.Close()

	var out []*models.MatchContext
	for rows.Next() {
		mc, err := scanMatchContext(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// PendingMatchContexts returns unresolved fixtures on a date whose
// tournament series is in the inclusion filter, with current player ranks
// and points substituted from the players table.
func (s *Store) PendingMatchContexts(ctx context.Context, date time.Time, series []string) ([]*models.MatchContext, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT
			m.id, m.date, m.tournament_id, t.name, t.series,
			m.player_1_id, m.player_2_id, p1.name, p2.name,
			p1.current_rank, p2.current_rank, p1.current_points, p2.current_points,
			m.surface_id, m.court_type_id, m.round_id,
			ps1.sports_mood_score, ps2.sports_mood_score,
			ps1.personal_mood_score, ps2.personal_mood_score,
			sh1.win_rate, sh2.win_rate,
			m.winner_id, m.total_sets, m.total_games`+matchContextJoins+`
		WHERE m.date = $1
		AND m.winner_id IS NULL
		AND t.series = ANY($2)`, date, series)
	if err != nil {
		return nil, fmt.Errorf("pending matches for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []*models.MatchContext
	for rows.Next() {
		mc, err := scanMatchContext(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// MatchContextByID fetches the joined view of one match, used by ad hoc
// predictions against a transient fixture.
func (s *Store) MatchContextByID(ctx context.Context, matchID int64) (*models.MatchContext, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT `+matchContextColumns+matchContextJoins+` WHERE m.id = $1`, matchID)
	if err != nil {
		return nil, fmt.Errorf("match context %d: %w", matchID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("match %d not found", matchID)
	}
	return scanMatchContext(rows)
}
