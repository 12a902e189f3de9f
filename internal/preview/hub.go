package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vtree/internal/demo"
)

// hub fans frames out to WebSocket clients.
type hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex // one writer per connection at a time
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // local preview only
			},
		},
		logger: logger,
	}
}

// serve upgrades the connection, registers it, sends the frame current
// returns, and keeps the client until it goes away.
func (h *hub) serve(w http.ResponseWriter, req *http.Request, current func() demo.Frame) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	// Registering under writeMu orders the first frame before any
	// broadcast that can reach this client.
	h.writeMu.Lock()
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	err = conn.WriteJSON(current())
	h.writeMu.Unlock()
	if err != nil {
		h.drop(conn)
		return
	}
	h.logger.Debug("preview client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			break
		}
	}

	h.drop(conn)
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *hub) broadcast(f demo.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("frame encode failed", "error", err)
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(client)
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
