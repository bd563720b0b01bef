package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/gateway"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/notifier"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/reconcile"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	hub      *gateway.Hub
	notifier *notifier.RedisNotifier
	wsURL    string
	api      *MenuAPI

	mu        sync.Mutex
	menuItems []domain.MenuItem
}

func setupSession(t *testing.T) *sessionFixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hub := gateway.NewHub(client)
	ctx, cancel := context.WithCancel(context.Background())
	hub.Run(ctx)

	f := &sessionFixture{
		hub:      hub,
		notifier: notifier.NewRedisNotifier(client),
		menuItems: []domain.MenuItem{
			{ID: "42", StallID: "7", Name: "Paneer Roll", Category: "Rolls", IsAvailable: true},
			{ID: "43", StallID: "7", Name: "Cold Coffee", Category: "Drinks", IsAvailable: true},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/stalls/7/menu", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := append([]domain.MenuItem(nil), f.menuItems...)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"stallId": "7", "items": items})
	})
	server := httptest.NewServer(mux)

	f.wsURL = "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	f.api = NewMenuAPI(server.URL)

	t.Cleanup(func() {
		server.Close()
		cancel()
		client.Close()
		mr.Close()
	})

	require.Eventually(t, func() bool {
		return client.PubSubNumPat(context.Background()).Val() >= 1
	}, 3*time.Second, 10*time.Millisecond)

	return f
}

func TestSession_SubscribeLoadsMenuAndReceivesPushes(t *testing.T) {
	f := setupSession(t)
	state := reconcile.NewMenuState()

	session, err := Dial(context.Background(), f.wsURL, f.api, state)
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Subscribe(context.Background(), "7"))

	item, ok := state.Item("42")
	require.True(t, ok)
	assert.True(t, item.IsAvailable)

	require.Eventually(t, func() bool {
		return f.hub.RoomSize("7") == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, f.notifier.PublishStockUpdate(context.Background(), domain.StockUpdateEvent{
		Type:         domain.StockTypeItem,
		StallID:      "7",
		ItemID:       "42",
		Availability: false,
		Timestamp:    time.Now().UnixMilli(),
	}))

	require.Eventually(t, func() bool {
		item, _ := state.Item("42")
		return !item.IsAvailable
	}, 2*time.Second, 10*time.Millisecond)

	other, _ := state.Item("43")
	assert.True(t, other.IsAvailable)
}

func TestSession_VisibilityCallback(t *testing.T) {
	f := setupSession(t)
	state := reconcile.NewMenuState()

	session, err := Dial(context.Background(), f.wsURL, f.api, state)
	require.NoError(t, err)
	defer session.Close()

	got := make(chan domain.StallVisibilityEvent, 1)
	session.OnVisibility(func(ev domain.StallVisibilityEvent) {
		select {
		case got <- ev:
		default:
		}
	})

	require.Eventually(t, func() bool {
		return f.hub.ConnectionCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, f.notifier.PublishStallVisibility(context.Background(), domain.StallVisibilityEvent{
		StallID: "9", StallName: "Juice Junction", IsActive: false,
	}))

	select {
	case ev := <-got:
		assert.Equal(t, "9", ev.StallID)
		assert.False(t, ev.IsActive)
	case <-time.After(2 * time.Second):
		t.Fatal("visibility event not delivered")
	}
}

func TestSession_UnsubscribeLeavesRoom(t *testing.T) {
	f := setupSession(t)
	state := reconcile.NewMenuState()

	session, err := Dial(context.Background(), f.wsURL, f.api, state)
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Subscribe(context.Background(), "7"))
	require.Eventually(t, func() bool {
		return f.hub.RoomSize("7") == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, session.Unsubscribe())
	require.Eventually(t, func() bool {
		return f.hub.RoomSize("7") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMenuAPI_StallMenu(t *testing.T) {
	f := setupSession(t)

	items, err := f.api.StallMenu(context.Background(), "7", true)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestStallFetcher_FiltersToRequestedItems(t *testing.T) {
	f := setupSession(t)

	fetcher := f.api.FetcherFor("7")
	items, err := fetcher.FetchItems(context.Background(), []string{"43"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "43", items[0].ID)
}

func TestMenuAPI_Non200IsError(t *testing.T) {
	f := setupSession(t)

	_, err := f.api.StallMenu(context.Background(), "404stall", true)
	assert.Error(t, err)
}
