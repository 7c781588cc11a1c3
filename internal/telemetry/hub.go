package telemetry

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/turretlab/internal/control"
)

const (
	sendBuffer   = 16
	writeTimeout = time.Second
)

// Message is what the hub sends to every client on each publish.
type Message struct {
	Frame     control.Frame  `json:"frame"`
	Dashboard map[string]any `json:"dashboard"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub accepts websocket clients on ServeHTTP and broadcasts to all of
// them. Slow clients drop messages rather than stall the loop.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu        sync.RWMutex
	clients   map[*client]struct{}
	onCommand func(control.Event) error

	sent    atomic.Uint64
	dropped atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:     log.With("component", "telemetry"),
		clients: make(map[*client]struct{}),
	}
}

// OnCommand sets the handler for events sent by clients, usually
// control.Robot.Enqueue.
func (h *Hub) OnCommand(fn func(control.Event) error) {
	h.mu.Lock()
	h.onCommand = fn
	h.mu.Unlock()
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats reports messages queued and messages dropped across all clients.
func (h *Hub) Stats() (sent, dropped uint64) {
	return h.sent.Load(), h.dropped.Load()
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("client connected", "remote", r.RemoteAddr, "clients", n)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		var ev control.Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("client read failed", "err", err)
			}
			return
		}
		h.mu.RLock()
		fn := h.onCommand
		h.mu.RUnlock()
		if fn == nil {
			continue
		}
		if err := fn(ev); err != nil {
			h.log.Warn("command rejected", "event", ev.String(), "err", err)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("client write failed", "err", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("client disconnected", "clients", n)
}

// Broadcast encodes v as JSON and queues it for every client.
func (h *Hub) Broadcast(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
			h.sent.Add(1)
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
