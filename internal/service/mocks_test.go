package service

import (
	"context"
	"sync"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
)

type mockRepository struct {
	m sync.Mutex

	stall *domain.Stall
	items []domain.MenuItem

	itemErr   error
	extraErr  error
	optionErr error
	stallErr  error

	itemCalls   int
	extraCalls  int
	optionCalls int
	lastItemID  string
	lastValue   bool
}

func (m *mockRepository) GetStall(context.Context, string) (*domain.Stall, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.stallErr != nil {
		return nil, m.stallErr
	}
	if m.stall == nil {
		return &domain.Stall{ID: "7", Name: "Momo Magic", IsActive: true}, nil
	}
	return m.stall, nil
}

func (m *mockRepository) ListActiveStalls(context.Context) ([]domain.Stall, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.stall == nil {
		return nil, nil
	}
	return []domain.Stall{*m.stall}, nil
}

func (m *mockRepository) SetStallActive(_ context.Context, stallID string, active bool) (*domain.Stall, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.stallErr != nil {
		return nil, m.stallErr
	}
	if m.stall == nil {
		return nil, nil
	}
	m.stall.IsActive = active
	out := *m.stall
	return &out, nil
}

func (m *mockRepository) GetMenuItems(context.Context, string) ([]domain.MenuItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.items, nil
}

func (m *mockRepository) UpsertMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.items = append(m.items, *item)
	return nil
}

func (m *mockRepository) UpdateItemAvailability(_ context.Context, itemID string, available bool) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.itemCalls++
	m.lastItemID = itemID
	m.lastValue = available
	return m.itemErr
}

func (m *mockRepository) UpdateExtraAvailability(_ context.Context, itemID, _ string, available bool) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.extraCalls++
	m.lastItemID = itemID
	m.lastValue = available
	return m.extraErr
}

func (m *mockRepository) UpdateOptionAvailability(_ context.Context, itemID, _, _ string, available bool) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.optionCalls++
	m.lastItemID = itemID
	m.lastValue = available
	return m.optionErr
}

type mockStore struct {
	m sync.Mutex

	flags    map[string]bool
	setErr   error
	syncErr  error
	setCalls int
	getCalls int
	lastKey  string
}

func newMockStore() *mockStore {
	return &mockStore{flags: make(map[string]bool)}
}

func (s *mockStore) Get(_ context.Context, key string) bool {
	s.m.Lock()
	defer s.m.Unlock()
	s.getCalls++
	if v, ok := s.flags[key]; ok {
		return v
	}
	return true
}

func (s *mockStore) Set(_ context.Context, key string, available bool) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.setCalls++
	s.lastKey = key
	if s.setErr != nil {
		return s.setErr
	}
	s.flags[key] = available
	return nil
}

func (s *mockStore) SyncStall(_ context.Context, items []domain.MenuItem) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.syncErr != nil {
		return s.syncErr
	}
	for _, item := range items {
		if _, ok := s.flags[domain.ItemKey(item.ID)]; !ok {
			s.flags[domain.ItemKey(item.ID)] = item.IsAvailable
		}
	}
	return nil
}

func (s *mockStore) InvalidateStall(_ context.Context, items []domain.MenuItem) error {
	s.m.Lock()
	defer s.m.Unlock()
	for _, item := range items {
		delete(s.flags, domain.ItemKey(item.ID))
	}
	return nil
}

type mockNotifier struct {
	m sync.Mutex

	stockErr      error
	visibilityErr error

	stockEvents      []domain.StockUpdateEvent
	visibilityEvents []domain.StallVisibilityEvent
}

func (n *mockNotifier) PublishStockUpdate(_ context.Context, ev domain.StockUpdateEvent) error {
	n.m.Lock()
	defer n.m.Unlock()
	if n.stockErr != nil {
		return n.stockErr
	}
	n.stockEvents = append(n.stockEvents, ev)
	return nil
}

func (n *mockNotifier) PublishStallVisibility(_ context.Context, ev domain.StallVisibilityEvent) error {
	n.m.Lock()
	defer n.m.Unlock()
	if n.visibilityErr != nil {
		return n.visibilityErr
	}
	n.visibilityEvents = append(n.visibilityEvents, ev)
	return nil
}
