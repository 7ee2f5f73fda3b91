package features

import (
	"context"
	"fmt"

	"github.com/courtiq/tennis-predictor/internal/models"
)

const last5Window = 5

// Fallback targets for resolved matches whose score could not be parsed.
const (
	defaultTargetSets  = 3
	defaultTargetGames = 20
)

// seriesEncoding maps tournament series names to their ordinal prestige
// level. Unknown or missing series encode as International.
var seriesEncoding = map[string]float64{
	"International": 1,
	"ATP250":        2,
	"ATP500":        3,
	"Masters 1000":  4,
	"Grand Slam":    5,
}

// PairwiseStats is the slice of the store the engineer queries per match:
// head-to-head tallies and recent-form win rates.
type PairwiseStats interface {
	HeadToHead(ctx context.Context, p1, p2 int64) (models.HeadToHead, error)
	LastNWinRate(ctx context.Context, playerID int64, n int) (float64, error)
}

// TrainingRow is one engineered example: the weighted feature vector plus the
// supervision targets.
type TrainingRow struct {
	MatchID     int64
	Features    []float64
	Label       int // 1 when player 1 won
	TargetSets  int
	TargetGames int
}

// Engineer turns joined match contexts into fixed-width feature vectors.
type Engineer struct {
	stats   PairwiseStats
	weights Weights
}

func NewEngineer(stats PairwiseStats, weights Weights) *Engineer {
	return &Engineer{stats: stats, weights: weights}
}

func impute(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func imputeInt(v *int, def float64) float64 {
	if v == nil {
		return def
	}
	return float64(*v)
}

func imputeID(v *int64, def float64) float64 {
	if v == nil {
		return def
	}
	return float64(*v)
}

func encodeSeries(series *string) float64 {
	if series == nil {
		return 1
	}
	if enc, ok := seriesEncoding[*series]; ok {
		return enc
	}
	return 1
}

// Vector engineers the weighted inference vector for a match, in schema
// order. Missing estimator values are imputed: points and moods neutral at 0,
// surface win rate at the uninformative 0.5, encodings at 1.
func (e *Engineer) Vector(ctx context.Context, mc *models.MatchContext) ([]float64, error) {
	rank1 := imputeInt(mc.Rank1, 0)
	rank2 := imputeInt(mc.Rank2, 0)
	pts1 := imputeInt(mc.Points1, 0)
	pts2 := imputeInt(mc.Points2, 0)
	mood1 := impute(mc.SportsMood1, 0)
	mood2 := impute(mc.SportsMood2, 0)
	personal1 := impute(mc.PersonalMood1, 0)
	personal2 := impute(mc.PersonalMood2, 0)
	rate1 := impute(mc.SurfaceRate1, 0.5)
	rate2 := impute(mc.SurfaceRate2, 0.5)

	h2h, err := e.stats.HeadToHead(ctx, mc.Player1ID, mc.Player2ID)
	if err != nil {
		return nil, fmt.Errorf("h2h for match %d: %w", mc.MatchID, err)
	}
	last5p1, err := e.stats.LastNWinRate(ctx, mc.Player1ID, last5Window)
	if err != nil {
		return nil, fmt.Errorf("last 5 win rate for player %d: %w", mc.Player1ID, err)
	}
	last5p2, err := e.stats.LastNWinRate(ctx, mc.Player2ID, last5Window)
	if err != nil {
		return nil, fmt.Errorf("last 5 win rate for player %d: %w", mc.Player2ID, err)
	}

	raw := []float64{
		rank1, rank2, rank1 - rank2,
		pts1, pts2, pts1 - pts2,
		mood1, mood2, mood1 - mood2,
		personal1, personal2, personal1 - personal2,
		rate1, rate2, rate1 - rate2,
		float64(h2h.Player1Wins), float64(h2h.Player2Wins), float64(h2h.TotalMatches),
		encodeSeries(mc.Series),
		imputeID(mc.SurfaceID, 1), imputeID(mc.CourtTypeID, 1), imputeID(mc.RoundID, 1),
		last5p1, last5p2,
	}
	return e.weights.Apply(raw), nil
}

// TrainingRow engineers one supervised example from a resolved match. The
// match must have a winner; set and game targets fall back to 3 and 20 when
// the score was unparseable.
func (e *Engineer) TrainingRow(ctx context.Context, mc *models.MatchContext) (*TrainingRow, error) {
	if mc.WinnerID == nil {
		return nil, fmt.Errorf("match %d is unresolved", mc.MatchID)
	}
	vector, err := e.Vector(ctx, mc)
	if err != nil {
		return nil, err
	}

	row := TrainingRow{
		MatchID:     mc.MatchID,
		Features:    vector,
		TargetSets:  defaultTargetSets,
		TargetGames: defaultTargetGames,
	}
	if *mc.WinnerID == mc.Player1ID {
		row.Label = 1
	}
	if mc.TotalSets != nil {
		row.TargetSets = *mc.TotalSets
	}
	if mc.TotalGames != nil {
		row.TargetGames = *mc.TotalGames
	}
	return &row, nil
}

// TrainingSet engineers every context into a row, in order.
func (e *Engineer) TrainingSet(ctx context.Context, contexts []*models.MatchContext) ([]*TrainingRow, error) {
	rows := make([]*TrainingRow, 0, len(contexts))
	for _, mc := range contexts {
		row, err := e.TrainingRow(ctx, mc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
