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
)

// StockTarget identifies the flag being toggled. Which id fields are required
// depends on Type.
type StockTarget struct {
	Type         string
	StallID      string
	ItemID       string
	ExtraID      string
	CustomID     string
	OptionID     string
	Availability bool
}

type StockService struct {
	repo     repository.MenuRepository
	store    cache.AvailabilityStore
	notifier notifier.ChangeNotifier
}

func NewStockService(repo repository.MenuRepository, store cache.AvailabilityStore, n notifier.ChangeNotifier) *StockService {
	return &StockService{
		repo:     repo,
		store:    store,
		notifier: n,
	}
}

// UpdateAvailability runs the write path: system of record first (fatal),
// then cache and publish as best-effort mirrors. The call reports success as
// soon as the record write lands; later failures degrade freshness only.
func (s *StockService) UpdateAvailability(ctx context.Context, target StockTarget) error {
	if err := validateTarget(target); err != nil {
		return err
	}

	if err := s.writeRecord(ctx, target); err != nil {
		return err
	}

	ev := targetEvent(target)

	if err := s.store.Set(ctx, ev.Key(), target.Availability); err != nil {
		log.Printf("availability cache write failed (record already updated): %v", err)
	}

	if err := s.notifier.PublishStockUpdate(ctx, ev); err != nil {
		log.Printf("stock update publish failed (record already updated): %v", err)
	}

	return nil
}

func (s *StockService) writeRecord(ctx context.Context, target StockTarget) error {
	var err error
	switch target.Type {
	case domain.StockTypeItem:
		err = s.repo.UpdateItemAvailability(ctx, target.ItemID, target.Availability)
	case domain.StockTypeExtra:
		err = s.repo.UpdateExtraAvailability(ctx, target.ItemID, target.ExtraID, target.Availability)
	case domain.StockTypeOption:
		err = s.repo.UpdateOptionAvailability(ctx, target.ItemID, target.CustomID, target.OptionID, target.Availability)
	}
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrExtraNotFound),
		errors.Is(err, repository.ErrOptionNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("record write failed: %w", err)
	}
}

func validateTarget(t StockTarget) error {
	if t.StallID == "" {
		return fmt.Errorf("%w: missing stallId", ErrValidation)
	}
	if t.ItemID == "" {
		return fmt.Errorf("%w: missing itemId", ErrValidation)
	}

	switch t.Type {
	case domain.StockTypeItem:
	case domain.StockTypeExtra:
		if t.ExtraID == "" {
			return fmt.Errorf("%w: missing extraId", ErrValidation)
		}
	case domain.StockTypeOption:
		if t.CustomID == "" {
			return fmt.Errorf("%w: missing customId", ErrValidation)
		}
		if t.OptionID == "" {
			return fmt.Errorf("%w: missing optionId", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrValidation, t.Type)
	}

	return nil
}

func targetEvent(t StockTarget) domain.StockUpdateEvent {
	return domain.StockUpdateEvent{
		Type:         t.Type,
		StallID:      t.StallID,
		ItemID:       t.ItemID,
		ExtraID:      t.ExtraID,
		CustomID:     t.CustomID,
		OptionID:     t.OptionID,
		Availability: t.Availability,
		Timestamp:    time.Now().UnixMilli(),
	}
}
