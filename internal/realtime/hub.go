// Package realtime pushes notification events to signed-in browser tabs
// over websockets. A user may hold several connections at once.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hazel-marketplace/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Event is the JSON frame written to clients.
type Event struct {
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
	SentAt time.Time         `json:"sent_at"`
}

type client struct {
	userID int32
	conn   *websocket.Conn
	send   chan []byte
}

type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[int32]map[*client]struct{}
}

// NewHub accepts upgrades from allowedOrigins; an empty list allows any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
		clients: make(map[int32]map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; ok {
		delete(conns, c)
		close(c.send)
	}
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
}

// Connections returns how many sockets userID has open.
func (h *Hub) Connections(userID int32) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Send delivers an event to every open connection of userID. Users without
// a connection are skipped; slow clients are disconnected.
func (h *Hub) Send(_ context.Context, userID int32, title, body string, data map[string]string) error {
	frame, err := json.Marshal(Event{Title: title, Body: body, Data: data, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- frame:
		default:
			logger.Warn("Dropping slow websocket client", "userID", userID)
			delete(h.clients[userID], c)
			close(c.send)
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
	return nil
}

// ServeWS upgrades the request and streams events for userID until the
// client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int32) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logger.Warn("Websocket upgrade failed", "userID", userID, "error", err)
		return
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(c)
	logger.Debug("Websocket connected", "userID", userID)

	go c.writePump()
	c.readPump()
	h.unregister(c)
	logger.Debug("Websocket disconnected", "userID", userID)
}

// readPump discards client frames and keeps the read deadline fresh.
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
