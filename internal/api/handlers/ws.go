package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fieldhouse/bracket/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Subscribe upgrades the connection and registers it with the hub. An
// optional ?tournament_id= query param scopes the subscription to one
// tournament; omitted, the client receives every event.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	h.hub.Register(conn, r.URL.Query().Get("tournament_id"))
}
