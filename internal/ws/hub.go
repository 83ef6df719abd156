// Package ws implements the change sink: a fire-and-forget WebSocket
// fan-out so dashboard and tournament-detail clients can react to mutations
// without polling. It never blocks the caller and never back-pressures the
// core service — an event a slow or stuck reader has no room for is
// dropped for that reader, not waited on.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the payload pushed to subscribers. TournamentID is empty for
// dashboard-wide events (create/delete) and set for events scoped to one
// tournament (settings updated, score reported).
type Event struct {
	Type         string `json:"type"`
	TournamentID string `json:"tournament_id,omitempty"`
}

const (
	EventDashboardUpdate  = "dashboard_update"
	EventTournamentUpdate = "tournament_update"
)

// clientSendBuffer bounds how far a slow reader can lag before further
// events for it are dropped rather than blocking a Notify call.
const clientSendBuffer = 16

type client struct {
	conn         *websocket.Conn
	send         chan []byte
	tournamentID string // empty means dashboard-wide subscriber
}

// Hub tracks live WebSocket subscribers and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	logger  *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		logger:  logger,
	}
}

// Register upgrades conn into a tracked subscriber and starts its pumps.
// tournamentID is empty for a dashboard-only subscription.
func (h *Hub) Register(conn *websocket.Conn, tournamentID string) {
	c := &client{
		conn:         conn,
		send:         make(chan []byte, clientSendBuffer),
		tournamentID: tournamentID,
	}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(4096)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Notify marshals event and pushes it to every subscriber interested in it:
// dashboard-wide subscribers always receive it, tournament-scoped
// subscribers only receive events for their own tournament. It never
// blocks — a subscriber whose buffer is full misses this event but stays
// registered.
func (h *Hub) Notify(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Printf("ws: marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.tournamentID != "" && c.tournamentID != event.TournamentID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Printf("ws: dropping event for slow subscriber")
		}
	}
}
