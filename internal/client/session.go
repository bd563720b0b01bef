package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/gateway"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/reconcile"
	"github.com/gorilla/websocket"
)

// pollInterval is the push-independent safety net: while a stall page is
// open the session re-fetches the menu and overlays availability, so a
// missed push is corrected within a minute.
const pollInterval = 60 * time.Second

// Session mirrors one browsing session: a WebSocket subscription to the
// stall being viewed, a reconciling menu state, and the periodic poll.
type Session struct {
	conn  *websocket.Conn
	api   *MenuAPI
	state *reconcile.MenuState

	mu           sync.Mutex
	stallID      string
	onVisibility func(domain.StallVisibilityEvent)
	writeMu      sync.Mutex

	cancelPoll context.CancelFunc
	done       chan struct{}
	closeOnce  sync.Once
}

// Dial connects the session to the realtime gateway at wsURL.
func Dial(ctx context.Context, wsURL string, api *MenuAPI, state *reconcile.MenuState) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial gateway failed: %w", err)
	}

	s := &Session{
		conn:  conn,
		api:   api,
		state: state,
		done:  make(chan struct{}),
	}
	go s.readLoop()

	return s, nil
}

// OnVisibility registers a handler for stall visibility broadcasts (the
// listing page toast).
func (s *Session) OnVisibility(fn func(domain.StallVisibilityEvent)) {
	s.mu.Lock()
	s.onVisibility = fn
	s.mu.Unlock()
}

// Subscribe joins the stall's room, loads the menu into the session state
// and starts the poll loop. Mirrors the stall page mounting.
func (s *Session) Subscribe(ctx context.Context, stallID string) error {
	items, err := s.api.StallMenu(ctx, stallID, true)
	if err != nil {
		return fmt.Errorf("initial menu load failed: %w", err)
	}
	s.state.SetMenu(items)

	if err := s.send(gateway.ClientMessage{Action: "subscribe", StallID: stallID}); err != nil {
		return err
	}

	s.mu.Lock()
	s.stallID = stallID
	if s.cancelPoll != nil {
		s.cancelPoll()
	}
	pollCtx, cancel := context.WithCancel(context.Background())
	s.cancelPoll = cancel
	s.mu.Unlock()

	go s.pollLoop(pollCtx, stallID)
	return nil
}

// Unsubscribe leaves the stall's room and stops polling. Mirrors the stall
// page unmounting.
func (s *Session) Unsubscribe() error {
	s.mu.Lock()
	stallID := s.stallID
	s.stallID = ""
	if s.cancelPoll != nil {
		s.cancelPoll()
		s.cancelPoll = nil
	}
	s.mu.Unlock()

	if stallID == "" {
		return nil
	}
	return s.send(gateway.ClientMessage{Action: "unsubscribe", StallID: stallID})
}

// Checker returns the checkout gate bound to the currently viewed stall.
func (s *Session) Checker(timeout time.Duration) *reconcile.Checker {
	s.mu.Lock()
	stallID := s.stallID
	s.mu.Unlock()
	return reconcile.NewChecker(s.api.FetcherFor(stallID), timeout)
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.cancelPoll != nil {
			s.cancelPoll()
			s.cancelPoll = nil
		}
		s.mu.Unlock()
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Session) send(msg gateway.ClientMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s failed: %w", msg.Action, err)
	}
	return nil
}

func (s *Session) readLoop() {
	for {
		var frame gateway.ServerMessage
		if err := s.conn.ReadJSON(&frame); err != nil {
			select {
			case <-s.done:
			default:
				log.Printf("session read error: %v", err)
			}
			return
		}

		switch frame.Event {
		case gateway.EventStockUpdate:
			var ev domain.StockUpdateEvent
			if err := json.Unmarshal(frame.Data, &ev); err != nil {
				continue // never throw on malformed events
			}
			s.state.ApplyStockUpdate(ev)
		case gateway.EventStallVisibility:
			var ev domain.StallVisibilityEvent
			if err := json.Unmarshal(frame.Data, &ev); err != nil {
				continue
			}
			s.mu.Lock()
			fn := s.onVisibility
			s.mu.Unlock()
			if fn != nil {
				fn(ev)
			}
		}
	}
}

func (s *Session) pollLoop(ctx context.Context, stallID string) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			items, err := s.api.StallMenu(ctx, stallID, true)
			if err != nil {
				log.Printf("menu poll failed: %v", err)
				continue
			}
			s.state.Overlay(items)
		}
	}
}
