package stats

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/models"
)

type mockHistory struct {
	matches        map[int64][]models.Match
	surfaceMatches map[int64]map[int64][]models.Match
	surfaceTotals  map[int64]map[int64][2]int
	h2h            models.HeadToHead
	playerIDs      []int64
	surfaceIDs     []int64
	failStatFor    map[int64]error

	mu               sync.Mutex
	upsertedStats    []*models.PlayerStat
	upsertedSurfaces []*models.SurfaceHistory
}

func (m *mockHistory) LastNMatches(_ context.Context, playerID int64, n int, surfaceID *int64) ([]models.Match, error) {
	if surfaceID != nil {
		byPlayer := m.surfaceMatches[playerID]
		return byPlayer[*surfaceID], nil
	}
	matches := m.matches[playerID]
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

func (m *mockHistory) SurfaceRecord(_ context.Context, playerID, surfaceID int64) (int, int, error) {
	totals := m.surfaceTotals[playerID][surfaceID]
	return totals[0], totals[1], nil
}

func (m *mockHistory) HeadToHead(_ context.Context, _, _ int64) (models.HeadToHead, error) {
	return m.h2h, nil
}

func (m *mockHistory) ActivePlayerIDs(_ context.Context) ([]int64, error) {
	return m.playerIDs, nil
}

func (m *mockHistory) SurfaceIDs(_ context.Context) ([]int64, error) {
	return m.surfaceIDs, nil
}

func (m *mockHistory) UpsertPlayerStat(_ context.Context, stat *models.PlayerStat) error {
	if err := m.failStatFor[stat.PlayerID]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertedStats = append(m.upsertedStats, stat)
	return nil
}

func (m *mockHistory) UpsertSurfaceHistory(_ context.Context, h *models.SurfaceHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertedSurfaces = append(m.upsertedSurfaces, h)
	return nil
}

func intPtr(v int) *int       { return &v }
func i64Ptr(v int64) *int64   { return &v }

func resolvedMatch(id, winnerID, p1, p2 int64, rank1, rank2 *int) models.Match {
	return models.Match{
		ID:        id,
		Date:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Player1ID: p1,
		Player2ID: p2,
		WinnerID:  i64Ptr(winnerID),
		Rank1:     rank1,
		Rank2:     rank2,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		isWin        bool
		playerRank   *int
		opponentRank *int
		want         string
	}{
		{"win against much worse rank is easy", true, intPtr(5), intPtr(80), DifficultyEasyWin},
		{"win against close rank is hard", true, intPtr(10), intPtr(15), DifficultyHardWin},
		{"win at exactly the threshold is hard", true, intPtr(10), intPtr(30), DifficultyHardWin},
		{"loss against much better rank is easy", false, intPtr(80), intPtr(5), DifficultyEasyLoss},
		{"loss against close rank is hard", false, intPtr(15), intPtr(10), DifficultyHardLoss},
		{"loss at exactly the threshold is hard", false, intPtr(30), intPtr(10), DifficultyHardLoss},
		{"win with missing player rank is hard", true, nil, intPtr(10), DifficultyHardWin},
		{"loss with missing opponent rank is hard", false, intPtr(10), nil, DifficultyHardLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.isWin, tt.playerRank, tt.opponentRank); got != tt.want {
				t.Errorf("classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputeMood(t *testing.T) {
	history := &mockHistory{
		matches: map[int64][]models.Match{
			1: {
				// rank 5 beats rank 80: easy win, +2.0
				resolvedMatch(101, 1, 1, 2, intPtr(5), intPtr(80)),
				// rank 5 loses to rank 8: hard loss, -1.0
				resolvedMatch(102, 3, 1, 3, intPtr(5), intPtr(8)),
			},
		},
	}
	e := NewEstimator(history, nil, DefaultMoodWeights, 1, zap.NewNop().Sugar())

	stat, err := e.ComputeMood(context.Background(), 1)
	if err != nil {
		t.Fatalf("ComputeMood() error = %v", err)
	}

	if stat.SportsMood != 1.0 {
		t.Errorf("SportsMood = %v, want 1.0", stat.SportsMood)
	}
	if stat.Last10Wins != 1 || stat.Last10Losses != 1 {
		t.Errorf("wins/losses = %d/%d, want 1/1", stat.Last10Wins, stat.Last10Losses)
	}
	if stat.PersonalMood != 0 {
		t.Errorf("PersonalMood = %v, want neutral 0", stat.PersonalMood)
	}

	wantDetails := []models.MoodDetail{
		{MatchID: 101, Date: "2026-08-01", IsWin: true, Difficulty: DifficultyEasyWin, Weight: 2.0},
		{MatchID: 102, Date: "2026-08-01", IsWin: false, Difficulty: DifficultyHardLoss, Weight: -1.0},
	}
	if !reflect.DeepEqual(stat.Last10Details, wantDetails) {
		t.Errorf("details = %+v, want %+v", stat.Last10Details, wantDetails)
	}
}

func TestComputeMoodEmptyHistory(t *testing.T) {
	history := &mockHistory{matches: map[int64][]models.Match{}}
	e := NewEstimator(history, nil, DefaultMoodWeights, 1, zap.NewNop().Sugar())

	stat, err := e.ComputeMood(context.Background(), 42)
	if err != nil {
		t.Fatalf("ComputeMood() error = %v", err)
	}
	if stat.SportsMood != 0 {
		t.Errorf("SportsMood = %v, want 0 for empty history", stat.SportsMood)
	}
	if len(stat.Last10Details) != 0 {
		t.Errorf("details = %v, want empty", stat.Last10Details)
	}
}

func TestComputeMoodIdempotent(t *testing.T) {
	history := &mockHistory{
		matches: map[int64][]models.Match{
			1: {resolvedMatch(101, 1, 1, 2, intPtr(5), intPtr(80))},
		},
	}
	e := NewEstimator(history, nil, DefaultMoodWeights, 1, zap.NewNop().Sugar())

	first, err := e.ComputeMood(context.Background(), 1)
	if err != nil {
		t.Fatalf("first ComputeMood() error = %v", err)
	}
	second, err := e.ComputeMood(context.Background(), 1)
	if err != nil {
		t.Fatalf("second ComputeMood() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation changed the result: %+v vs %+v", first, second)
	}
}

func TestComputeSurfaceHistory(t *testing.T) {
	history := &mockHistory{
		surfaceMatches: map[int64]map[int64][]models.Match{
			1: {2: {
				resolvedMatch(201, 1, 1, 5, nil, nil),
				resolvedMatch(202, 5, 1, 5, nil, nil),
				resolvedMatch(203, 1, 1, 6, nil, nil),
			}},
		},
		surfaceTotals: map[int64]map[int64][2]int{
			1: {2: {40, 25}},
		},
	}
	e := NewEstimator(history, nil, DefaultMoodWeights, 1, zap.NewNop().Sugar())

	h, err := e.ComputeSurfaceHistory(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ComputeSurfaceHistory() error = %v", err)
	}
	if h.Last10Wins != 2 || h.Last10Losses != 1 {
		t.Errorf("last 10 = %d/%d, want 2/1", h.Last10Wins, h.Last10Losses)
	}
	if math.Abs(h.WinRate-2.0/3.0) > 1e-9 {
		t.Errorf("WinRate = %v, want 2/3", h.WinRate)
	}
	if h.TotalWins != 25 || h.TotalLosses != 15 {
		t.Errorf("totals = %d/%d, want 25/15", h.TotalWins, h.TotalLosses)
	}
}

func TestComputeSurfaceHistoryNoMatches(t *testing.T) {
	history := &mockHistory{
		surfaceMatches: map[int64]map[int64][]models.Match{},
		surfaceTotals:  map[int64]map[int64][2]int{},
	}
	e := NewEstimator(history, nil, DefaultMoodWeights, 1, zap.NewNop().Sugar())

	h, err := e.ComputeSurfaceHistory(context.Background(), 9, 1)
	if err != nil {
		t.Fatalf("ComputeSurfaceHistory() error = %v", err)
	}
	if h.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0 with no surface history", h.WinRate)
	}
}

func TestHeadToHeadNeverMet(t *testing.T) {
	history := &mockHistory{}
	e := NewEstimator(history, nil, DefaultMoodWeights, 1, zap.NewNop().Sugar())

	h2h, err := e.HeadToHead(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("HeadToHead() error = %v", err)
	}
	if h2h.TotalMatches != 0 || h2h.Player1Wins != 0 || h2h.Player2Wins != 0 {
		t.Errorf("h2h = %+v, want all zeros", h2h)
	}
}

func TestRefreshAll(t *testing.T) {
	history := &mockHistory{
		matches: map[int64][]models.Match{
			1: {resolvedMatch(101, 1, 1, 2, intPtr(5), intPtr(80))},
			2: {resolvedMatch(101, 1, 1, 2, intPtr(5), intPtr(80))},
		},
		surfaceMatches: map[int64]map[int64][]models.Match{},
		surfaceTotals:  map[int64]map[int64][2]int{},
		playerIDs:      []int64{1, 2},
		surfaceIDs:     []int64{1, 2, 3},
	}
	e := NewEstimator(history, nil, DefaultMoodWeights, 4, zap.NewNop().Sugar())

	if err := e.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if len(history.upsertedStats) != 2 {
		t.Errorf("upserted %d player stats, want 2", len(history.upsertedStats))
	}
	if len(history.upsertedSurfaces) != 6 {
		t.Errorf("upserted %d surface rows, want 6", len(history.upsertedSurfaces))
	}
}

func TestRefreshAllSkipsFailingPlayer(t *testing.T) {
	history := &mockHistory{
		matches: map[int64][]models.Match{
			1: {resolvedMatch(101, 1, 1, 2, intPtr(5), intPtr(80))},
			2: {resolvedMatch(102, 2, 2, 3, intPtr(12), intPtr(40))},
			3: {resolvedMatch(103, 3, 3, 1, intPtr(40), intPtr(12))},
		},
		surfaceMatches: map[int64]map[int64][]models.Match{},
		surfaceTotals:  map[int64]map[int64][2]int{},
		playerIDs:      []int64{1, 2, 3},
		surfaceIDs:     []int64{1, 2},
		failStatFor:    map[int64]error{2: errors.New("constraint violation")},
	}
	e := NewEstimator(history, nil, DefaultMoodWeights, 4, zap.NewNop().Sugar())

	if err := e.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll() error = %v, want nil with one bad player", err)
	}

	if len(history.upsertedStats) != 2 {
		t.Fatalf("upserted %d player stats, want 2", len(history.upsertedStats))
	}
	for _, stat := range history.upsertedStats {
		if stat.PlayerID == 2 {
			t.Error("failing player's stat row was upserted")
		}
	}
	// the failing player is skipped before its surface rows; the others
	// still get all of theirs
	if len(history.upsertedSurfaces) != 4 {
		t.Errorf("upserted %d surface rows, want 4", len(history.upsertedSurfaces))
	}
}
