package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alanyang/leadroute/internal/domain/event"
	portnotifier "github.com/alanyang/leadroute/internal/port/notifier"
	transportauth "github.com/alanyang/leadroute/internal/transport/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var _ portnotifier.Broadcaster = (*Hub)(nil)

// Hub pushes agent and distribution events to connected dashboard clients so
// the SPA can refresh without polling. It is the notifier.Broadcaster the
// services publish to. Connections are keyed by the authenticated owner and
// an event is only delivered to that owner's clients.
type Hub struct {
	clients map[*websocket.Conn]uuid.UUID
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]uuid.UUID),
	}
}

// Register mounts the websocket endpoint. The group must sit behind the auth
// middleware: handleWS trusts the owner ID it set.
func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

func (h *Hub) handleWS(c *gin.Context) {
	ownerID := transportauth.OwnerID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = ownerID
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount reports how many connections are currently registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends e to every client of e.OwnerID. Other owners' clients
// never see it.
func (h *Hub) Broadcast(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, ownerID := range h.clients {
		if ownerID != e.OwnerID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Error("websocket write failed", "error", err)
		}
	}
}
