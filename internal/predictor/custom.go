package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/courtiq/tennis-predictor/internal/models"
)

func (p *Predictor) resolveRank(ctx context.Context, playerID int64, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	player, err := p.store.GetPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	if player.CurrentRank != nil {
		return *player.CurrentRank, nil
	}
	return defaultRankFallback, nil
}

// PredictCustom scores an ad hoc matchup that is not on any schedule. It
// creates the players if needed, refreshes their estimator rows, scores a
// transient match row and deletes it afterwards. Nothing about the matchup
// persists except possibly the player and tournament rows.
func (p *Predictor) PredictCustom(ctx context.Context, req *models.CustomMatchRequest) (*models.CustomMatchResponse, error) {
	scorer, err := p.loadActive(ctx)
	if err != nil {
		return nil, err
	}

	p1, err := p.store.GetOrCreatePlayer(ctx, req.Player1, nil)
	if err != nil {
		return nil, err
	}
	p2, err := p.store.GetOrCreatePlayer(ctx, req.Player2, nil)
	if err != nil {
		return nil, err
	}

	rank1, err := p.resolveRank(ctx, p1, req.Rank1)
	if err != nil {
		return nil, err
	}
	rank2, err := p.resolveRank(ctx, p2, req.Rank2)
	if err != nil {
		return nil, err
	}

	tournamentName := req.Tournament
	if tournamentName == "" {
		tournamentName = "Custom Match"
	}
	series := req.Series
	if series == "" {
		series = "ATP500"
	}
	tournamentID, err := p.store.GetOrCreateTournament(ctx, tournamentName, &series)
	if err != nil {
		return nil, err
	}

	match := models.Match{
		TournamentID: tournamentID,
		Date:         time.Now().UTC().Truncate(24 * time.Hour),
		Player1ID:    p1,
		Player2ID:    p2,
		Rank1:        &rank1,
		Rank2:        &rank2,
	}

	if req.Surface != "" {
		id, ok, err := p.store.SurfaceID(ctx, req.Surface)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unknown surface %q", req.Surface)
		}
		match.SurfaceID = &id
	}
	if req.CourtType != "" {
		id, ok, err := p.store.CourtTypeID(ctx, req.CourtType)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unknown court type %q", req.CourtType)
		}
		match.CourtTypeID = &id
	}
	if req.Round != "" {
		id, ok, err := p.store.RoundID(ctx, req.Round)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unknown round %q", req.Round)
		}
		match.RoundID = &id
	}

	if err := p.estimator.UpdateMood(ctx, p1); err != nil {
		return nil, err
	}
	if err := p.estimator.UpdateMood(ctx, p2); err != nil {
		return nil, err
	}
	if match.SurfaceID != nil {
		if err := p.estimator.UpdateSurfaceHistory(ctx, p1, *match.SurfaceID); err != nil {
			return nil, err
		}
		if err := p.estimator.UpdateSurfaceHistory(ctx, p2, *match.SurfaceID); err != nil {
			return nil, err
		}
	}

	matchID, err := p.store.InsertMatch(ctx, &match)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := p.store.DeleteMatch(ctx, matchID); err != nil {
			p.logger.Warnw("failed to delete transient match", "match_id", matchID, "error", err)
		}
	}()

	mc, err := p.store.MatchContextByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	sc, err := scorer.score(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("score custom match: %w", err)
	}

	winnerName := req.Player2
	if sc.winnerID == p1 {
		winnerName = req.Player1
	}
	p.logger.Infow("custom match predicted",
		"player_1", req.Player1, "player_2", req.Player2,
		"predicted_winner", winnerName, "confidence", sc.confidence)

	return &models.CustomMatchResponse{
		Player1:         req.Player1,
		Player2:         req.Player2,
		PredictedWinner: winnerName,
		WinProbability:  sc.probability,
		Confidence:      sc.confidence,
		ModelType:       scorer.model.Type,
		ModelVersion:    scorer.model.Version,
	}, nil
}
