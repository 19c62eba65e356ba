package public

import (
	"context"

	"github.com/langowen/kursbot/internal/converter"
	"github.com/langowen/kursbot/internal/entities"
)

type Converter interface {
	Convert(ctx context.Context, targetQuery, sourceQuery, amountText string) (*converter.Result, error)
}

type RatesStorage interface {
	Snapshot(ctx context.Context) (entities.Snapshot, error)
}
