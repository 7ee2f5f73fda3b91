package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/models"
	"github.com/courtiq/tennis-predictor/internal/store"
)

// Rolling windows recomputed on every run, keyed by their day spans.
var periods = []struct {
	Name string
	Days int
}{
	{"last_day", 1},
	{"last_week", 7},
	{"last_15_days", 15},
	{"last_month", 30},
}

// Store is the slice of the persistence layer the analyzer drives.
type Store interface {
	UnresolvedOnDate(ctx context.Context, date time.Time) ([]*store.ResolvedOutcome, error)
	ResolvePrediction(ctx context.Context, predictionID, winnerID int64, totalSets, totalGames *int) error
	InsertPredictionError(ctx context.Context, e *models.PredictionError) error
	ModelIDsPredictedOn(ctx context.Context, date time.Time) ([]int64, error)
	AggregateWindow(ctx context.Context, modelID int64, period string, start, end time.Time) (*models.ErrorMetric, error)
	UpsertErrorMetric(ctx context.Context, m *models.ErrorMetric) error
}

// Result summarizes one analyzer run.
type Result struct {
	Resolved       int
	MetricsWritten int
}

type Analyzer struct {
	store  Store
	now    func() time.Time
	logger *zap.SugaredLogger
}

func New(st Store, logger *zap.SugaredLogger) *Analyzer {
	return &Analyzer{store: st, now: time.Now, logger: logger}
}

func rankInTier(rank *int, tier int) bool {
	return rank != nil && *rank <= tier
}

// rankFlags computes the eight ranking-tier booleans from the ranks the
// players held at match time. A missing rank counts as outside every tier.
func rankFlags(rank1, rank2 *int) models.RankFlags {
	var f models.RankFlags
	f.AnyTop10 = rankInTier(rank1, 10) || rankInTier(rank2, 10)
	f.AnyTop20 = rankInTier(rank1, 20) || rankInTier(rank2, 20)
	f.AnyTop50 = rankInTier(rank1, 50) || rankInTier(rank2, 50)
	f.AnyTop100 = rankInTier(rank1, 100) || rankInTier(rank2, 100)
	f.BothTop10 = rankInTier(rank1, 10) && rankInTier(rank2, 10)
	f.BothTop20 = rankInTier(rank1, 20) && rankInTier(rank2, 20)
	f.BothTop50 = rankInTier(rank1, 50) && rankInTier(rank2, 50)
	f.BothTop100 = rankInTier(rank1, 100) && rankInTier(rank2, 100)
	return f
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// resolveOne writes the error record for a freshly completed match and
// back-fills the prediction's actual outcome. Resolution is one-way; the
// UnresolvedOnDate query never returns an already resolved prediction.
func (a *Analyzer) resolveOne(ctx context.Context, r *store.ResolvedOutcome) error {
	p := r.Prediction

	e := models.PredictionError{
		PredictionID:  p.ID,
		ModelID:       p.ModelID,
		MatchID:       r.MatchID,
		MatchDate:     p.MatchDate,
		Player1ID:     p.Player1ID,
		Player2ID:     p.Player2ID,
		WinnerCorrect: p.PredictedWinnerID == r.WinnerID,
		Player1Rank:   r.Rank1,
		Player2Rank:   r.Rank2,
		RankFlags:     rankFlags(r.Rank1, r.Rank2),
	}
	if r.TotalSets != nil {
		e.SetsError = absInt(p.PredictedTotalSets - *r.TotalSets)
	}
	if r.TotalGames != nil {
		e.GamesError = absInt(p.PredictedTotalGames - *r.TotalGames)
	}

	if err := a.store.InsertPredictionError(ctx, &e); err != nil {
		return err
	}
	return a.store.ResolvePrediction(ctx, p.ID, r.WinnerID, r.TotalSets, r.TotalGames)
}

// Run resolves yesterday's predictions against completed matches and then
// recomputes every rolling window for every model that predicted on that
// date. Zero-sample windows are skipped, not written.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	today := a.now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	outcomes, err := a.store.UnresolvedOnDate(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	a.logger.Infow("resolving completed matches",
		"date", yesterday.Format("2006-01-02"), "count", len(outcomes))

	var result Result
	for _, r := range outcomes {
		if err := a.resolveOne(ctx, r); err != nil {
			return nil, fmt.Errorf("resolve prediction %d: %w", r.Prediction.ID, err)
		}
		result.Resolved++
	}

	modelIDs, err := a.store.ModelIDsPredictedOn(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	for _, modelID := range modelIDs {
		for _, period := range periods {
			start := today.AddDate(0, 0, -period.Days)
			metric, err := a.store.AggregateWindow(ctx, modelID, period.Name, start, today)
			if err != nil {
				return nil, err
			}
			if metric.TotalPredictions == 0 {
				continue
			}
			if err := a.store.UpsertErrorMetric(ctx, metric); err != nil {
				return nil, err
			}
			result.MetricsWritten++
		}
	}

	a.logger.Infow("error analysis complete",
		"resolved", result.Resolved,
		"metrics_written", result.MetricsWritten,
		"models", len(modelIDs))
	return &result, nil
}
