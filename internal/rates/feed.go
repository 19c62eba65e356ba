package rates

import (
	"context"

	"github.com/langowen/kursbot/internal/entities"
)

// FeedClient is whatever can deliver the two ЦБ РФ documents a refresh
// needs: the currency vocabulary and the daily rates for a date in
// DD/MM/YYYY form.
type FeedClient interface {
	Vocabulary(ctx context.Context) (map[string]entities.Names, error)
	DailyRates(ctx context.Context, date string) ([]entities.RateEntry, error)
}
