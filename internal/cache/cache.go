package cache

import (
	"context"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
)

// AvailabilityStore holds boolean availability flags in front of the system of
// record. It is an accelerator, not a source of truth: reads fail open to
// "available" and write failures never abort the caller's authoritative write.
type AvailabilityStore interface {
	// Get returns the flag for key. A missing, expired or unreadable key is
	// reported as available.
	Get(ctx context.Context, key string) bool
	// Set writes the flag with a fresh 24h expiry.
	Set(ctx context.Context, key string, available bool) error
	// SyncStall derives and writes every item/extra/option key for the given
	// menu items in one pipelined batch, each with a fresh expiry.
	SyncStall(ctx context.Context, items []domain.MenuItem) error
	// InvalidateStall deletes the exact key set derived from the given items.
	InvalidateStall(ctx context.Context, items []domain.MenuItem) error
}
