package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/cache"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/notifier"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/repository"
	"golang.org/x/sync/singleflight"
)

type MenuService struct {
	repo     repository.MenuRepository
	store    cache.AvailabilityStore
	notifier notifier.ChangeNotifier
	sfg      singleflight.Group // collapses concurrent overlay reads per stall
}

func NewMenuService(repo repository.MenuRepository, store cache.AvailabilityStore, n notifier.ChangeNotifier) *MenuService {
	return &MenuService{
		repo:     repo,
		store:    store,
		notifier: n,
	}
}

func (s *MenuService) ListStalls(ctx context.Context) ([]domain.Stall, error) {
	return s.repo.ListActiveStalls(ctx)
}

// GetStallMenu returns the stall's menu. With includeAvailability the current
// flags are overlaid from the availability store (fail-open on miss) and the
// store is opportunistically re-warmed from the freshly read documents;
// without it the documents are returned as stored, no flag lookups at all.
func (s *MenuService) GetStallMenu(ctx context.Context, stallID string, includeAvailability bool) ([]domain.MenuItem, error) {
	if _, err := s.repo.GetStall(ctx, stallID); err != nil {
		if errors.Is(err, repository.ErrStallNotFound) {
			return nil, fmt.Errorf("%w: stall %s", ErrNotFound, stallID)
		}
		return nil, err
	}

	items, err := s.repo.GetMenuItems(ctx, stallID)
	if err != nil {
		return nil, err
	}

	if !includeAvailability {
		return items, nil
	}

	v, err, _ := s.sfg.Do(stallID, func() (interface{}, error) {
		if err := s.store.SyncStall(ctx, items); err != nil {
			log.Printf("availability warm for stall %s failed: %v", stallID, err)
		}
		s.overlay(ctx, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.MenuItem), nil
}

// SetStallVisibility flips the stall's active flag in the system of record
// and announces it on the global topic. The publish is best-effort.
func (s *MenuService) SetStallVisibility(ctx context.Context, stallID string, active bool) (*domain.Stall, error) {
	stall, err := s.repo.SetStallActive(ctx, stallID, active)
	if err != nil {
		if errors.Is(err, repository.ErrStallNotFound) {
			return nil, fmt.Errorf("%w: stall %s", ErrNotFound, stallID)
		}
		return nil, err
	}

	ev := domain.StallVisibilityEvent{
		StallID:   stall.ID,
		StallName: stall.Name,
		IsActive:  stall.IsActive,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.notifier.PublishStallVisibility(ctx, ev); err != nil {
		log.Printf("visibility publish failed (record already updated): %v", err)
	}

	return stall, nil
}

func (s *MenuService) overlay(ctx context.Context, items []domain.MenuItem) {
	for i := range items {
		item := &items[i]
		item.IsAvailable = s.store.Get(ctx, domain.ItemKey(item.ID))
		for j := range item.Extras {
			item.Extras[j].IsAvailable = s.store.Get(ctx, domain.ExtraKey(item.ID, item.Extras[j].ID))
		}
		for j := range item.Customizations {
			cz := &item.Customizations[j]
			for k := range cz.Options {
				cz.Options[k].IsAvailable = s.store.Get(ctx, domain.OptionKey(item.ID, cz.ID, cz.Options[k].ID))
			}
		}
	}
}
