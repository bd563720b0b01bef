package gateway

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/notifier"
	"github.com/redis/go-redis/v9"
)

// Server → client event names.
const (
	EventStockUpdate     = "stockUpdate"
	EventStallVisibility = "stallVisibilityUpdate"
)

// ServerMessage is the frame pushed to browsing sessions.
type ServerMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ClientMessage is a room subscription request from a session.
type ClientMessage struct {
	Action  string `json:"action"`
	StallID string `json:"stallId"`
}

// Hub bridges the pub/sub topics to live WebSocket connections. A session only
// receives stock updates for rooms it explicitly joined; visibility events go
// to every session.
type Hub struct {
	rdb *redis.Client

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	rooms   map[string]map[*wsClient]struct{}

	started     atomic.Bool
	connections atomic.Int64
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:     rdb,
		clients: make(map[*wsClient]struct{}),
		rooms:   make(map[string]map[*wsClient]struct{}),
	}
}

// Run opens the subscriber connections and starts the bridge goroutines.
// Calling it again while the hub is running is a no-op.
func (h *Hub) Run(ctx context.Context) {
	if !h.started.CompareAndSwap(false, true) {
		return
	}

	go h.consumeStock(ctx)
	go h.consumeVisibility(ctx)
}

// ConnectionCount reports the number of live sessions.
func (h *Hub) ConnectionCount() int64 {
	return h.connections.Load()
}

// RoomSize reports the membership of a stall room.
func (h *Hub) RoomSize(stallID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomName(stallID)])
}

func (h *Hub) consumeStock(ctx context.Context) {
	sub := h.rdb.PSubscribe(ctx, notifier.StockTopicPattern)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			stallID := notifier.StallFromTopic(msg.Channel)
			if stallID == "" {
				continue
			}
			h.emitToRoom(roomName(stallID), EventStockUpdate, []byte(msg.Payload))
		}
	}
}

func (h *Hub) consumeVisibility(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, notifier.VisibilityTopic)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(EventStallVisibility, []byte(msg.Payload))
		}
	}
}

func (h *Hub) emitToRoom(room, event string, data []byte) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		log.Printf("gateway frame encode error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.enqueue(frame)
	}
}

func (h *Hub) broadcast(event string, data []byte) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		log.Printf("gateway frame encode error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(frame)
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.connections.Add(1)
}

// remove drops the client and scrubs its room memberships.
func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		h.connections.Add(-1)
	}
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) join(c *wsClient, stallID string) {
	room := roomName(stallID)
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*wsClient]struct{})
	}
	h.rooms[room][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) leave(c *wsClient, stallID string) {
	room := roomName(stallID)
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

func roomName(stallID string) string {
	return "stall:" + stallID
}

func encodeFrame(event string, data []byte) ([]byte, error) {
	return json.Marshal(ServerMessage{Event: event, Data: data})
}
