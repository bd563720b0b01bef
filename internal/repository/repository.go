package repository

import (
	"context"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
)

// MenuRepository defines the interface for the system of record.
// Consumers define this interface, not the MongoDB implementation.
type MenuRepository interface {
	GetStall(ctx context.Context, stallID string) (*domain.Stall, error)
	ListActiveStalls(ctx context.Context) ([]domain.Stall, error)
	SetStallActive(ctx context.Context, stallID string, active bool) (*domain.Stall, error)

	GetMenuItems(ctx context.Context, stallID string) ([]domain.MenuItem, error)
	UpsertMenuItem(ctx context.Context, item *domain.MenuItem) error

	UpdateItemAvailability(ctx context.Context, itemID string, available bool) error
	UpdateExtraAvailability(ctx context.Context, itemID, extraID string, available bool) error
	UpdateOptionAvailability(ctx context.Context, itemID, customID, optionID string, available bool) error
}
