package stats

import (
	"context"
	"fmt"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// HeadToHead tallies prior meetings between two players. Players who have
// never met yield an all-zero tally, not an error.
func (e *Estimator) HeadToHead(ctx context.Context, p1, p2 int64) (models.HeadToHead, error) {
	h2h, err := e.history.HeadToHead(ctx, p1, p2)
	if err != nil {
		return models.HeadToHead{}, fmt.Errorf("head to head %d vs %d: %w", p1, p2, err)
	}
	return h2h, nil
}
