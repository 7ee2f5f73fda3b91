package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// MatchSource supplies upcoming fixtures from an external schedule feed.
// Implementations must return an empty slice, not an error, when the feed has
// nothing for the date.
type MatchSource interface {
	FixturesForDate(ctx context.Context, date time.Time) ([]Row, error)
}

// NoMatchSource is the default source: it never has fixtures.
type NoMatchSource struct{}

func (NoMatchSource) FixturesForDate(context.Context, time.Time) ([]Row, error) {
	return nil, nil
}

// OddsSource supplies bookmaker quotes for a fixture. Implementations must
// return an empty slice, not an error, when no quotes exist.
type OddsSource interface {
	QuotesForFixture(ctx context.Context, date time.Time, player1, player2 string) ([]models.BookmakerOdds, error)
}

// NoOddsSource is the default source: it never has quotes.
type NoOddsSource struct{}

func (NoOddsSource) QuotesForFixture(context.Context, time.Time, string, string) ([]models.BookmakerOdds, error) {
	return nil, nil
}

// OddsStore is the slice of the persistence layer the odds sync writes to.
type OddsStore interface {
	UpsertOdds(ctx context.Context, o *models.BookmakerOdds) error
}

// OddsSync caches quotes from a source into the store.
type OddsSync struct {
	source OddsSource
	store  OddsStore
	logger *zap.SugaredLogger
}

func NewOddsSync(source OddsSource, store OddsStore, logger *zap.SugaredLogger) *OddsSync {
	if source == nil {
		source = NoOddsSource{}
	}
	return &OddsSync{source: source, store: store, logger: logger}
}

// SyncFixture fetches and caches all quotes for one fixture. No quotes is a
// no-op.
func (s *OddsSync) SyncFixture(ctx context.Context, date time.Time, player1, player2 string) (int, error) {
	quotes, err := s.source.QuotesForFixture(ctx, date, player1, player2)
	if err != nil {
		return 0, err
	}
	for i := range quotes {
		if err := s.store.UpsertOdds(ctx, &quotes[i]); err != nil {
			return i, err
		}
	}
	if len(quotes) > 0 {
		s.logger.Infow("bookmaker quotes cached",
			"player_1", player1, "player_2", player2, "quotes", len(quotes))
	}
	return len(quotes), nil
}

// FixtureSync inserts upcoming fixtures from a schedule feed using the same
// per-row path as the CSV loader.
type FixtureSync struct {
	source MatchSource
	loader *Loader
	logger *zap.SugaredLogger
}

func NewFixtureSync(source MatchSource, loader *Loader, logger *zap.SugaredLogger) *FixtureSync {
	if source == nil {
		source = NoMatchSource{}
	}
	return &FixtureSync{source: source, loader: loader, logger: logger}
}

// SyncDate pulls the feed's fixtures for a date into the store.
func (s *FixtureSync) SyncDate(ctx context.Context, date time.Time) (*LoadResult, error) {
	rows, err := s.source.FixturesForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	var result LoadResult
	for i := range rows {
		_, inserted, err := s.loader.LoadRow(ctx, &rows[i])
		if err != nil {
			s.logger.Warnw("fixture load failed, skipping",
				"date", date.Format("2006-01-02"), "error", err)
			result.Skipped++
			continue
		}
		if inserted {
			result.Loaded++
		} else {
			result.Skipped++
		}
	}
	return &result, nil
}
