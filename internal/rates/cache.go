package rates

import (
	"context"

	"github.com/langowen/kursbot/internal/entities"
)

// SnapshotCache keeps the published snapshot for a date so a restart
// within the same day does not refetch the feeds. Optional collaborator.
type SnapshotCache interface {
	Get(ctx context.Context, date string) (entities.Snapshot, bool, error)
	Set(ctx context.Context, date string, snap entities.Snapshot) error
}
