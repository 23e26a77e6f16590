// Package live pushes dataset reload events to websocket subscribers.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReloadEvent is sent to all subscribers when the dataset changes.
type ReloadEvent struct {
	Type        string    `json:"type"`
	Fingerprint string    `json:"fingerprint"`
	TradeCount  int       `json:"trade_count"`
	ReloadedAt  time.Time `json:"reloaded_at"`
}

// Hub fans reload events out to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	broadcast chan []byte
}

// NewHub creates a hub. Run must be called for broadcasts to flow.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan []byte, 64),
	}
}

// Run delivers broadcasts until ctx is cancelled, then closes all
// client connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastReload queues a reload event for all subscribers. Drops the
// event if the broadcast buffer is full.
func (h *Hub) BroadcastReload(fingerprint string, tradeCount int) {
	data, err := json.Marshal(ReloadEvent{
		Type:        "dataset_reloaded",
		Fingerprint: fingerprint,
		TradeCount:  tradeCount,
		ReloadedAt:  time.Now().UTC(),
	})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// ServeHTTP upgrades the request and registers the client. The read
// loop exists only to detect disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
