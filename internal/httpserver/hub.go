// internal/httpserver/hub.go
//
// Websocket fan-out of engine notifications.
// Hub implements game.Notifier. The engine calls it while holding its lock,
// so sends never block: each client has a buffered queue and messages to a
// full queue are dropped. Clients resync from GET /state or the greeting.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/game"
)

const (
	sendQueue  = 32
	writeWait  = 5 * time.Second
	maxMsgSize = 512
)

// wsOut is one message to the presentation client.
type wsOut struct {
	Type  string         `json:"type"` // "state" | "phase" | "event"
	From  game.Phase     `json:"from,omitempty"`
	To    game.Phase     `json:"to,omitempty"`
	Event *game.Notice   `json:"event,omitempty"`
	State *game.Snapshot `json:"state,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan wsOut
}

// Hub tracks connected clients.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	upgrader websocket.Upgrader
}

// NewHub builds a hub accepting connections from origin (any origin when empty).
func NewHub(origin string) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				o := r.Header.Get("Origin")
				return origin == "" || o == "" || o == origin
			},
		},
	}
}

// PhaseChanged implements game.Notifier.
func (h *Hub) PhaseChanged(from, to game.Phase) {
	h.broadcast(wsOut{Type: "phase", From: from, To: to})
}

// Notify implements game.Notifier.
func (h *Hub) Notify(n game.Notice) {
	h.broadcast(wsOut{Type: "event", Event: &n})
}

func (h *Hub) broadcast(m wsOut) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- m:
		default:
			log.Debug().Str("type", m.Type).Msg("ws client lagging, message dropped")
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// serve upgrades the request, queues hello first and pumps messages until
// the client goes away.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, hello wsOut) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	c := &client{conn: conn, send: make(chan wsOut, sendQueue)}
	c.send <- hello

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	// Reads only detect disconnects; the client has nothing to say.
	conn.SetReadLimit(maxMsgSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for m := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(m); err != nil {
			log.Debug().Err(err).Msg("ws write")
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
