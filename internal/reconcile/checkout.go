package reconcile

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// MsgItemUnavailable is the finding message for an item the menu still lists
// but marks unavailable.
const MsgItemUnavailable = "This item is currently unavailable"

// MsgItemMissing is the finding message for an item no longer on the menu.
const MsgItemMissing = "This item is no longer on the menu"

// UnavailableFinding is one blocking problem found by the checkout gate.
type UnavailableFinding struct {
	ItemID  string `json:"itemId"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// MenuFetcher fetches current menu items (with availability flags) for the
// given item ids.
type MenuFetcher interface {
	FetchItems(ctx context.Context, itemIDs []string) ([]domain.MenuItem, error)
}

// Checker runs the last-chance availability re-check before money changes
// hands. A network failure fails open: checkout is never blocked on a
// transient blip, which is a product decision, not an oversight.
type Checker struct {
	fetcher MenuFetcher
	breaker *gobreaker.CircuitBreaker[[]domain.MenuItem]
	timeout time.Duration
}

func NewChecker(fetcher MenuFetcher, timeout time.Duration) *Checker {
	settings := gobreaker.Settings{
		Name:    "availability-recheck",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Checker{
		fetcher: fetcher,
		breaker: gobreaker.NewCircuitBreaker[[]domain.MenuItem](settings),
		timeout: timeout,
	}
}

// CheckItemsAvailability re-validates every distinct cart item and its
// selected extras and options against the current menu. It returns the list
// of findings and ok=true only when the list is empty. The caller must halt
// the payment flow on ok=false, offering removal of the affected lines or
// cancellation; proceeding with known-unavailable lines is not an option.
func (c *Checker) CheckItemsAvailability(ctx context.Context, lines []CartLine) ([]UnavailableFinding, bool) {
	if len(lines) == 0 {
		return nil, true
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	items, err := c.breaker.Execute(func() ([]domain.MenuItem, error) {
		return c.fetcher.FetchItems(fetchCtx, ids)
	})
	if err != nil {
		log.Printf("availability re-check failed, proceeding as available: %v", err)
		return nil, true
	}

	byID := make(map[string]domain.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var findings []UnavailableFinding
	flagged := make(map[string]struct{})
	addFinding := func(itemID, name, message string) {
		key := itemID + "\x00" + message
		if _, ok := flagged[key]; ok {
			return
		}
		flagged[key] = struct{}{}
		findings = append(findings, UnavailableFinding{ItemID: itemID, Name: name, Message: message})
	}

	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			addFinding(line.ItemID, line.ItemID, MsgItemMissing)
			continue
		}
		if !item.IsAvailable {
			addFinding(item.ID, item.Name, MsgItemUnavailable)
		}
		checkSelections(item, line, addFinding)
	}

	return findings, len(findings) == 0
}

func checkSelections(item domain.MenuItem, line CartLine, addFinding func(itemID, name, message string)) {
	for _, extraID := range line.SelectedExtraIDs {
		found := false
		for _, ex := range item.Extras {
			if ex.ID != extraID {
				continue
			}
			found = true
			if !ex.IsAvailable {
				addFinding(item.ID, item.Name, fmt.Sprintf("Add-on %q is currently unavailable", ex.Name))
			}
		}
		if !found {
			addFinding(item.ID, item.Name, fmt.Sprintf("Add-on %q is no longer offered", extraID))
		}
	}

	for _, optionID := range line.SelectedOptionIDs {
		found := false
		for _, cz := range item.Customizations {
			for _, op := range cz.Options {
				if op.ID != optionID {
					continue
				}
				found = true
				if !op.IsAvailable {
					addFinding(item.ID, item.Name, fmt.Sprintf("Option %q is currently unavailable", op.Name))
				}
			}
		}
		if !found {
			// an option that vanished is treated as unavailable
			addFinding(item.ID, item.Name, fmt.Sprintf("Option %q is currently unavailable", optionID))
		}
	}
}
