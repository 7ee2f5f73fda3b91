package analyzer

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/models"
	"github.com/courtiq/tennis-predictor/internal/store"
)

type mockStore struct {
	outcomes []*store.ResolvedOutcome
	// models that predicted on a date, keyed by YYYY-MM-DD
	modelIDs map[string][]int64
	// aggregate results keyed by period name
	windows map[string]*models.ErrorMetric

	insertedErrors []*models.PredictionError
	resolvedIDs    []int64
	upserted       []*models.ErrorMetric
}

func (m *mockStore) UnresolvedOnDate(_ context.Context, _ time.Time) ([]*store.ResolvedOutcome, error) {
	return m.outcomes, nil
}

func (m *mockStore) ResolvePrediction(_ context.Context, predictionID, _ int64, _, _ *int) error {
	m.resolvedIDs = append(m.resolvedIDs, predictionID)
	return nil
}

func (m *mockStore) InsertPredictionError(_ context.Context, e *models.PredictionError) error {
	m.insertedErrors = append(m.insertedErrors, e)
	return nil
}

func (m *mockStore) ModelIDsPredictedOn(_ context.Context, date time.Time) ([]int64, error) {
	return m.modelIDs[date.Format("2006-01-02")], nil
}

func (m *mockStore) AggregateWindow(_ context.Context, modelID int64, period string, start, end time.Time) (*models.ErrorMetric, error) {
	if metric, ok := m.windows[period]; ok {
		out := *metric
		out.ModelID = modelID
		out.Period = period
		out.StartDate = start
		out.EndDate = end
		return &out, nil
	}
	return &models.ErrorMetric{ModelID: modelID, Period: period, StartDate: start, EndDate: end}, nil
}

func (m *mockStore) UpsertErrorMetric(_ context.Context, metric *models.ErrorMetric) error {
	m.upserted = append(m.upserted, metric)
	return nil
}

func intPtr(v int) *int { return &v }

func outcome(predictionID, predictedWinner, actualWinner int64, rank1, rank2 *int, actualSets, actualGames *int) *store.ResolvedOutcome {
	return &store.ResolvedOutcome{
		Prediction: &models.Prediction{
			ID:                  predictionID,
			ModelID:             1,
			MatchDate:           time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			Player1ID:           10,
			Player2ID:           20,
			PredictedWinnerID:   predictedWinner,
			PredictedTotalSets:  3,
			PredictedTotalGames: 20,
		},
		MatchID:    100 + predictionID,
		WinnerID:   actualWinner,
		TotalSets:  actualSets,
		TotalGames: actualGames,
		Rank1:      rank1,
		Rank2:      rank2,
	}
}

func fixedNow(a *Analyzer) {
	a.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}
}

func TestRankFlags(t *testing.T) {
	tests := []struct {
		name  string
		rank1 *int
		rank2 *int
		want  models.RankFlags
	}{
		{
			name:  "both elite",
			rank1: intPtr(3),
			rank2: intPtr(8),
			want: models.RankFlags{
				AnyTop10: true, AnyTop20: true, AnyTop50: true, AnyTop100: true,
				BothTop10: true, BothTop20: true, BothTop50: true, BothTop100: true,
			},
		},
		{
			name:  "one elite one mid",
			rank1: intPtr(5),
			rank2: intPtr(60),
			want: models.RankFlags{
				AnyTop10: true, AnyTop20: true, AnyTop50: true, AnyTop100: true,
				BothTop100: true,
			},
		},
		{
			name:  "missing rank never qualifies",
			rank1: nil,
			rank2: intPtr(4),
			want: models.RankFlags{
				AnyTop10: true, AnyTop20: true, AnyTop50: true, AnyTop100: true,
			},
		},
		{
			name:  "both unranked",
			rank1: nil,
			rank2: nil,
			want:  models.RankFlags{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankFlags(tt.rank1, tt.rank2); got != tt.want {
				t.Errorf("rankFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunResolvesPredictions(t *testing.T) {
	st := &mockStore{
		outcomes: []*store.ResolvedOutcome{
			outcome(1, 10, 10, intPtr(5), intPtr(15), intPtr(4), intPtr(35)),
			outcome(2, 10, 20, intPtr(70), nil, nil, nil),
		},
	}
	a := New(st, zap.NewNop().Sugar())
	fixedNow(a)

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Resolved != 2 {
		t.Errorf("Resolved = %d, want 2", result.Resolved)
	}
	if len(st.resolvedIDs) != 2 {
		t.Fatalf("back-filled %d predictions, want 2", len(st.resolvedIDs))
	}

	correct := st.insertedErrors[0]
	if !correct.WinnerCorrect {
		t.Error("first prediction should be marked correct")
	}
	if correct.SetsError != 1 || correct.GamesError != 15 {
		t.Errorf("errors = %d sets / %d games, want 1/15", correct.SetsError, correct.GamesError)
	}
	if !correct.AnyTop10 || correct.BothTop10 {
		t.Errorf("flags = %+v, want any_top_10 without both_top_10", correct.RankFlags)
	}

	wrong := st.insertedErrors[1]
	if wrong.WinnerCorrect {
		t.Error("second prediction should be marked wrong")
	}
	if wrong.SetsError != 0 || wrong.GamesError != 0 {
		t.Errorf("missing actual totals should yield zero errors, got %d/%d",
			wrong.SetsError, wrong.GamesError)
	}
}

func TestRunWritesAllWindowsWithData(t *testing.T) {
	st := &mockStore{
		modelIDs: map[string][]int64{
			// model 2 last predicted long before the resolved date and
			// must not be re-aggregated
			"2026-08-31": {1},
			"2026-06-01": {2},
		},
		windows: map[string]*models.ErrorMetric{
			"last_day":     {TotalPredictions: 3, CorrectWinners: 2, Accuracy: 2.0 / 3.0},
			"last_week":    {TotalPredictions: 10, CorrectWinners: 6, Accuracy: 0.6},
			"last_15_days": {TotalPredictions: 20, CorrectWinners: 11, Accuracy: 0.55},
			"last_month":   {TotalPredictions: 40, CorrectWinners: 22, Accuracy: 0.55},
		},
	}
	a := New(st, zap.NewNop().Sugar())
	fixedNow(a)

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.MetricsWritten != 4 {
		t.Errorf("MetricsWritten = %d, want 4", result.MetricsWritten)
	}

	// window spans anchor on today
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, m := range st.upserted {
		if m.ModelID != 1 {
			t.Fatalf("aggregated model %d, which did not predict on the resolved date", m.ModelID)
		}
		var wantDays int
		switch m.Period {
		case "last_day":
			wantDays = 1
		case "last_week":
			wantDays = 7
		case "last_15_days":
			wantDays = 15
		case "last_month":
			wantDays = 30
		default:
			t.Fatalf("unexpected period %q", m.Period)
		}
		if !m.EndDate.Equal(today) {
			t.Errorf("%s end date = %v, want %v", m.Period, m.EndDate, today)
		}
		if got := int(m.EndDate.Sub(m.StartDate).Hours() / 24); got != wantDays {
			t.Errorf("%s span = %d days, want %d", m.Period, got, wantDays)
		}
	}
}

func TestRunSkipsEmptyWindows(t *testing.T) {
	st := &mockStore{
		modelIDs: map[string][]int64{"2026-08-31": {1}},
		windows: map[string]*models.ErrorMetric{
			"last_month": {TotalPredictions: 5, CorrectWinners: 3, Accuracy: 0.6},
		},
	}
	a := New(st, zap.NewNop().Sugar())
	fixedNow(a)

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.MetricsWritten != 1 {
		t.Errorf("MetricsWritten = %d, want 1 (three empty windows skipped)", result.MetricsWritten)
	}
}

func TestRunNothingToDo(t *testing.T) {
	st := &mockStore{}
	a := New(st, zap.NewNop().Sugar())
	fixedNow(a)

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Resolved != 0 || result.MetricsWritten != 0 {
		t.Errorf("result = %+v, want zeros", result)
	}
}
