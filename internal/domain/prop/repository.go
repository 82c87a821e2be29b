package prop

import "context"

// Repository describes prop persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, propID string) (Prop, bool, error)
	ListByPack(ctx context.Context, packID string) ([]Prop, error)
	UpdateOutcome(ctx context.Context, propID, status, result string) error
}
