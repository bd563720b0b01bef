package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
)

// MenuAPI is the read-path HTTP client a browsing session polls and
// re-validates against.
type MenuAPI struct {
	baseURL string
	http    *http.Client
}

func NewMenuAPI(baseURL string) *MenuAPI {
	return &MenuAPI{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type stallMenuResponse struct {
	StallID string            `json:"stallId"`
	Items   []domain.MenuItem `json:"items"`
}

// StallMenu fetches a stall's menu, optionally with live availability flags.
func (a *MenuAPI) StallMenu(ctx context.Context, stallID string, includeAvailability bool) ([]domain.MenuItem, error) {
	url := fmt.Sprintf("%s/stalls/%s/menu?include_availability=%t", a.baseURL, stallID, includeAvailability)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build menu request failed: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu request returned status %d", resp.StatusCode)
	}

	var body stallMenuResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode menu response failed: %w", err)
	}

	return body.Items, nil
}

// StallFetcher adapts the menu API to the checkout re-check for one stall.
type StallFetcher struct {
	api     *MenuAPI
	stallID string
}

func (a *MenuAPI) FetcherFor(stallID string) *StallFetcher {
	return &StallFetcher{api: a, stallID: stallID}
}

func (f *StallFetcher) FetchItems(ctx context.Context, itemIDs []string) ([]domain.MenuItem, error) {
	items, err := f.api.StallMenu(ctx, f.stallID, true)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	var out []domain.MenuItem
	for _, item := range items {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
