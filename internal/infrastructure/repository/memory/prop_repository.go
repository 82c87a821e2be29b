package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/propdesk/prop-grading/internal/domain/prop"
)

type PropRepository struct {
	mu     sync.RWMutex
	items  map[string]prop.Prop
	orders []string
}

func NewPropRepository(props []prop.Prop) *PropRepository {
	items := make(map[string]prop.Prop, len(props))
	orders := make([]string, 0, len(props))

	for _, p := range props {
		items[p.ID] = p
		orders = append(orders, p.ID)
	}

	return &PropRepository{
		items:  items,
		orders: orders,
	}
}

func (r *PropRepository) GetByID(_ context.Context, propID string) (prop.Prop, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[propID]
	if !ok {
		return prop.Prop{}, false, nil
	}

	return p, true, nil
}

func (r *PropRepository) ListByPack(_ context.Context, packID string) ([]prop.Prop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prop.Prop, 0, len(r.orders))
	for _, id := range r.orders {
		if r.items[id].PackID == packID {
			out = append(out, r.items[id])
		}
	}

	return out, nil
}

func (r *PropRepository) UpdateOutcome(_ context.Context, propID, status, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[propID]
	if !ok {
		return fmt.Errorf("prop %s not found", propID)
	}
	p.Status = status
	p.Result = result
	r.items[propID] = p
	return nil
}
