// Package feed streams match frames to websocket clients, so effects,
// audio or overlays can run outside the simulation process. The hub is a
// driver.Sink: publishing never blocks the tick loop, and slow clients
// lose messages instead of stalling it.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-fighter/internal/driver"
)

// Message types.
const (
	TypeEvents = "events" // the frame carries hit events
	TypeRound  = "round"  // a round was decided
	TypeOver   = "over"   // the match ended
	TypeState  = "state"  // periodic heartbeat
)

// Message is the JSON envelope sent to clients.
type Message struct {
	Type  string       `json:"type"`
	Frame driver.Frame `json:"frame"`
}

const (
	sendQueue    = 64
	writeTimeout = 5 * time.Second

	// DefaultReadTimeout is how long a client may stay silent. Pings go
	// out at nine tenths of it and each pong extends the deadline.
	DefaultReadTimeout = 60 * time.Second
)

type client struct {
	ws      *websocket.Conn
	send    chan []byte
	timeout time.Duration
}

// enqueue drops the message when the client's queue is full.
func (c *client) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

func (c *client) writePump() {
	ping := time.NewTicker(c.timeout * 9 / 10)
	defer func() {
		ping.Stop()
		c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the client going away; clients never send
// anything the hub acts on.
func (c *client) readPump(h *Hub) {
	defer h.remove(c)
	c.ws.SetReadLimit(1 << 10)
	c.ws.SetReadDeadline(time.Now().Add(c.timeout))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(c.timeout)); return nil })
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans frames out to every connected client.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	heartbeat int
	timeout   time.Duration
	logger    *log.Logger
	upgrader  websocket.Upgrader
	closed    bool
}

// NewHub creates a hub. A state message is sent every heartbeat ticks
// even without events; 0 disables it.
func NewHub(heartbeat int, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:   make(map[*client]struct{}),
		heartbeat: heartbeat,
		timeout:   DefaultReadTimeout,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetReadTimeout changes the silence allowed from clients connecting
// afterwards. Non-positive values restore DefaultReadTimeout.
func (h *Hub) SetReadTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultReadTimeout
	}
	h.mu.Lock()
	h.timeout = d
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	h.mu.Lock()
	c := &client{ws: ws, send: make(chan []byte, sendQueue), timeout: h.timeout}
	if h.closed {
		h.mu.Unlock()
		ws.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("feed client connected", "remote", r.RemoteAddr, "clients", n)
	go c.writePump()
	go c.readPump(h)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish implements driver.Sink.
func (h *Hub) Publish(f driver.Frame) {
	typ := messageType(f, h.heartbeat)
	if typ == "" {
		return
	}
	data, err := json.Marshal(Message{Type: typ, Frame: f})
	if err != nil {
		h.logger.Error("cannot encode frame", "tick", f.Tick, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.enqueue(data)
	}
}

func messageType(f driver.Frame, heartbeat int) string {
	switch {
	case f.Over:
		return TypeOver
	case f.RoundEnd != nil:
		return TypeRound
	case len(f.Events) > 0:
		return TypeEvents
	case heartbeat > 0 && f.Tick%heartbeat == 0:
		return TypeState
	default:
		return ""
	}
}

// Close disconnects every client. Queued messages are still flushed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
