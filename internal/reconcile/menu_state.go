package reconcile

import (
	"sync"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
)

// MenuState holds the menu a browsing session is looking at, bucketed by
// category the way the stall page renders it. Every mutation produces a new
// object graph for the touched buckets so a renderer holding a previous
// snapshot sees an unchanged value; patches are absolute-value overwrites, so
// push and poll updates commute and the newest delivery simply wins.
type MenuState struct {
	mu      sync.RWMutex
	buckets map[string][]domain.MenuItem
}

func NewMenuState() *MenuState {
	return &MenuState{buckets: make(map[string][]domain.MenuItem)}
}

// SetMenu replaces the held menu, grouping items into category buckets.
func (s *MenuState) SetMenu(items []domain.MenuItem) {
	buckets := make(map[string][]domain.MenuItem)
	for _, item := range items {
		buckets[item.Category] = append(buckets[item.Category], cloneItem(item))
	}

	s.mu.Lock()
	s.buckets = buckets
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current buckets.
func (s *MenuState) Snapshot() map[string][]domain.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]domain.MenuItem, len(s.buckets))
	for category, items := range s.buckets {
		copied := make([]domain.MenuItem, len(items))
		for i, item := range items {
			copied[i] = cloneItem(item)
		}
		out[category] = copied
	}
	return out
}

// Item returns a copy of the item with the given id, scanning all buckets.
func (s *MenuState) Item(itemID string) (domain.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, items := range s.buckets {
		for _, item := range items {
			if item.ID == itemID {
				return cloneItem(item), true
			}
		}
	}
	return domain.MenuItem{}, false
}

// ApplyStockUpdate merges a push event into the held menu. Unknown or
// unmatched ids are a no-op. Every bucket is scanned for the item id; an item
// lives in one category, but the patch stays defensive about that.
func (s *MenuState) ApplyStockUpdate(ev domain.StockUpdateEvent) {
	switch ev.Type {
	case domain.StockTypeItem:
		s.patchItem(ev.ItemID, func(item *domain.MenuItem) {
			item.IsAvailable = ev.Availability
		})
	case domain.StockTypeExtra:
		s.patchItem(ev.ItemID, func(item *domain.MenuItem) {
			for i := range item.Extras {
				if item.Extras[i].ID == ev.ExtraID {
					item.Extras[i].IsAvailable = ev.Availability
				}
			}
		})
	case domain.StockTypeOption:
		s.patchItem(ev.ItemID, func(item *domain.MenuItem) {
			for i := range item.Customizations {
				if item.Customizations[i].ID != ev.CustomID {
					continue
				}
				for j := range item.Customizations[i].Options {
					if item.Customizations[i].Options[j].ID == ev.OptionID {
						item.Customizations[i].Options[j].IsAvailable = ev.Availability
					}
				}
			}
		})
	}
}

// Overlay merges freshly polled items into the held menu using the same id
// matching as push patches. Only availability flags are taken from the poll.
func (s *MenuState) Overlay(items []domain.MenuItem) {
	for _, fresh := range items {
		fresh := fresh
		s.patchItem(fresh.ID, func(item *domain.MenuItem) {
			item.IsAvailable = fresh.IsAvailable
			for i := range item.Extras {
				for _, fe := range fresh.Extras {
					if item.Extras[i].ID == fe.ID {
						item.Extras[i].IsAvailable = fe.IsAvailable
					}
				}
			}
			for i := range item.Customizations {
				for _, fc := range fresh.Customizations {
					if item.Customizations[i].ID != fc.ID {
						continue
					}
					for j := range item.Customizations[i].Options {
						for _, fo := range fc.Options {
							if item.Customizations[i].Options[j].ID == fo.ID {
								item.Customizations[i].Options[j].IsAvailable = fo.IsAvailable
							}
						}
					}
				}
			}
		})
	}
}

// patchItem applies fn to a deep clone of every bucket entry matching itemID
// and swaps the cloned buckets in. Buckets without the item are shared as-is.
func (s *MenuState) patchItem(itemID string, fn func(*domain.MenuItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string][]domain.MenuItem, len(s.buckets))
	for category, items := range s.buckets {
		idx := -1
		for i, item := range items {
			if item.ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			next[category] = items
			continue
		}

		copied := make([]domain.MenuItem, len(items))
		copy(copied, items)
		for i := range copied {
			if copied[i].ID == itemID {
				clone := cloneItem(copied[i])
				fn(&clone)
				copied[i] = clone
			}
		}
		next[category] = copied
	}
	s.buckets = next
}

func cloneItem(item domain.MenuItem) domain.MenuItem {
	clone := item
	if item.Extras != nil {
		clone.Extras = make([]domain.Extra, len(item.Extras))
		copy(clone.Extras, item.Extras)
	}
	if item.Customizations != nil {
		clone.Customizations = make([]domain.Customization, len(item.Customizations))
		for i, cz := range item.Customizations {
			cc := cz
			if cz.Options != nil {
				cc.Options = make([]domain.Option, len(cz.Options))
				copy(cc.Options, cz.Options)
			}
			clone.Customizations[i] = cc
		}
	}
	return clone
}
