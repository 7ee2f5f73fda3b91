package stats

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/courtiq/tennis-predictor/internal/models"
)

const windowSize = 10

// Win/loss difficulty classes. A result is easy when the rank gap between the
// player and the opponent exceeds the threshold in the expected direction;
// anything with a missing rank counts as hard.
const (
	DifficultyEasyWin  = "easy_win"
	DifficultyHardWin  = "hard_win"
	DifficultyEasyLoss = "easy_loss"
	DifficultyHardLoss = "hard_loss"

	rankGapThreshold = 20
)

// MoodWeights maps each difficulty class to its contribution to the sports
// mood score.
type MoodWeights struct {
	EasyWin  float64
	HardWin  float64
	EasyLoss float64
	HardLoss float64
}

// DefaultMoodWeights rewards wins and punishes losses, doubling the weight
// when the result contradicts the rank gap.
var DefaultMoodWeights = MoodWeights{
	EasyWin:  2.0,
	HardWin:  1.0,
	EasyLoss: -2.0,
	HardLoss: -1.0,
}

func (w MoodWeights) weight(difficulty string) float64 {
	switch difficulty {
	case DifficultyEasyWin:
		return w.EasyWin
	case DifficultyHardWin:
		return w.HardWin
	case DifficultyEasyLoss:
		return w.EasyLoss
	default:
		return w.HardLoss
	}
}

// MatchHistory is the slice of the store the estimators read and write.
type MatchHistory interface {
	LastNMatches(ctx context.Context, playerID int64, n int, surfaceID *int64) ([]models.Match, error)
	SurfaceRecord(ctx context.Context, playerID, surfaceID int64) (total, wins int, err error)
	HeadToHead(ctx context.Context, p1, p2 int64) (models.HeadToHead, error)
	ActivePlayerIDs(ctx context.Context) ([]int64, error)
	SurfaceIDs(ctx context.Context) ([]int64, error)
	UpsertPlayerStat(ctx context.Context, stat *models.PlayerStat) error
	UpsertSurfaceHistory(ctx context.Context, h *models.SurfaceHistory) error
}

// PersonalMoodSource supplies off-court mood signals. No live source is wired
// yet; implementations must return ok == false when they have nothing, and
// the estimator then stores a neutral zero.
type PersonalMoodSource interface {
	PersonalMood(ctx context.Context, playerID int64) (score float64, ok bool, err error)
}

// NoPersonalMood is the default source: it never has data.
type NoPersonalMood struct{}

func (NoPersonalMood) PersonalMood(context.Context, int64) (float64, bool, error) {
	return 0, false, nil
}

// Estimator recomputes the derived per-player tables from raw match history.
type Estimator struct {
	history     MatchHistory
	personal    PersonalMoodSource
	weights     MoodWeights
	concurrency int
	logger      *zap.SugaredLogger
}

func NewEstimator(history MatchHistory, personal PersonalMoodSource, weights MoodWeights, concurrency int, logger *zap.SugaredLogger) *Estimator {
	if personal == nil {
		personal = NoPersonalMood{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Estimator{
		history:     history,
		personal:    personal,
		weights:     weights,
		concurrency: concurrency,
		logger:      logger,
	}
}

// classify buckets one historical result for a player. rankGap is the
// player's rank minus the opponent's; lower rank is better, so a win against
// a much better-ranked opponent (large positive gap) is hard.
func classify(isWin bool, playerRank, opponentRank *int) string {
	if playerRank == nil || opponentRank == nil {
		if isWin {
			return DifficultyHardWin
		}
		return DifficultyHardLoss
	}
	gap := *playerRank - *opponentRank
	if isWin {
		if gap < -rankGapThreshold {
			return DifficultyEasyWin
		}
		return DifficultyHardWin
	}
	if gap > rankGapThreshold {
		return DifficultyEasyLoss
	}
	return DifficultyHardLoss
}

// playerPerspective extracts the per-player view of a resolved match.
func playerPerspective(m *models.Match, playerID int64) (isWin bool, playerRank, opponentRank *int) {
	isWin = m.WinnerID != nil && *m.WinnerID == playerID
	if m.Player1ID == playerID {
		return isWin, m.Rank1, m.Rank2
	}
	return isWin, m.Rank2, m.Rank1
}

// ComputeMood derives the sports mood score from a player's last-10 resolved
// matches. An empty history yields a zero score with an empty details log.
func (e *Estimator) ComputeMood(ctx context.Context, playerID int64) (*models.PlayerStat, error) {
	matches, err := e.history.LastNMatches(ctx, playerID, windowSize, nil)
	if err != nil {
		return nil, fmt.Errorf("mood history for player %d: %w", playerID, err)
	}

	stat := models.PlayerStat{
		PlayerID:      playerID,
		Last10Details: make([]models.MoodDetail, 0, len(matches)),
	}
	for i := range matches {
		m := &matches[i]
		isWin, playerRank, opponentRank := playerPerspective(m, playerID)
		difficulty := classify(isWin, playerRank, opponentRank)
		weight := e.weights.weight(difficulty)

		stat.SportsMood += weight
		if isWin {
			stat.Last10Wins++
		} else {
			stat.Last10Losses++
		}
		stat.Last10Details = append(stat.Last10Details, models.MoodDetail{
			MatchID:    m.ID,
			Date:       m.Date.Format("2006-01-02"),
			IsWin:      isWin,
			Difficulty: difficulty,
			Weight:     weight,
		})
	}

	score, ok, err := e.personal.PersonalMood(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("personal mood for player %d: %w", playerID, err)
	}
	if ok {
		stat.PersonalMood = score
	}
	return &stat, nil
}

// UpdateMood recomputes and stores one player's mood row.
func (e *Estimator) UpdateMood(ctx context.Context, playerID int64) error {
	stat, err := e.ComputeMood(ctx, playerID)
	if err != nil {
		return err
	}
	return e.history.UpsertPlayerStat(ctx, stat)
}

func (e *Estimator) refreshPlayer(ctx context.Context, playerID int64, surfaceIDs []int64) error {
	if err := e.UpdateMood(ctx, playerID); err != nil {
		return err
	}
	for _, surfaceID := range surfaceIDs {
		if err := e.UpdateSurfaceHistory(ctx, playerID, surfaceID); err != nil {
			return err
		}
	}
	return nil
}

// RefreshAll recomputes moods and surface histories for every active player,
// bounded by the configured concurrency. A player that fails is logged and
// skipped; one bad player must not stop the nightly sweep.
func (e *Estimator) RefreshAll(ctx context.Context) error {
	playerIDs, err := e.history.ActivePlayerIDs(ctx)
	if err != nil {
		return err
	}
	surfaceIDs, err := e.history.SurfaceIDs(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	var failed atomic.Int64
	for _, playerID := range playerIDs {
		playerID := playerID
		g.Go(func() error {
			if err := e.refreshPlayer(ctx, playerID, surfaceIDs); err != nil {
				failed.Add(1)
				e.logger.Warnw("player refresh failed, skipping",
					"player_id", playerID, "error", err)
			}
			return nil
		})
	}
	g.Wait()

	e.logger.Infow("refreshed player stats",
		"players", len(playerIDs), "failed", failed.Load(), "surfaces", len(surfaceIDs))
	return nil
}
