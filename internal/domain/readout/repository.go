package readout

import "context"

// Repository stores readout snapshots so preflight can consult the most
// recent fetch for an event.
type Repository interface {
	Save(ctx context.Context, snapshot Snapshot) error
	LatestByScope(ctx context.Context, league, scope string) (Snapshot, bool, error)
}
