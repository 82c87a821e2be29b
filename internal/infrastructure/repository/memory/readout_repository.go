package memory

import (
	"context"
	"sync"

	"github.com/propdesk/prop-grading/internal/domain/readout"
)

type ReadoutRepository struct {
	mu    sync.RWMutex
	items map[string][]readout.Snapshot
}

func NewReadoutRepository() *ReadoutRepository {
	return &ReadoutRepository{
		items: make(map[string][]readout.Snapshot),
	}
}

func scopeKey(league, scope string) string {
	return league + ":" + scope
}

func (r *ReadoutRepository) Save(_ context.Context, snapshot readout.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := scopeKey(snapshot.League, snapshot.Scope)
	r.items[key] = append(r.items[key], snapshot)
	return nil
}

func (r *ReadoutRepository) LatestByScope(_ context.Context, league, scope string) (readout.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.items[scopeKey(league, scope)]
	if len(rows) == 0 {
		return readout.Snapshot{}, false, nil
	}

	latest := rows[0]
	for _, row := range rows[1:] {
		if row.FetchedAt.After(latest.FetchedAt) {
			latest = row
		}
	}
	return latest, true, nil
}
