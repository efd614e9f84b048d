// Package stream pushes immutable snapshot events to subscribed
// observers. The core never depends on it for correctness; polling the
// observation endpoints yields the same data.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventType labels a pushed snapshot event
type EventType string

const (
	EventSubjectUpdated      EventType = "subject_updated"
	EventIncidentCreated     EventType = "incident_created"
	EventIncidentUpdated     EventType = "incident_updated"
	EventNotificationCreated EventType = "notification_created"
)

// Event is one pushed change notification
type Event struct {
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	writeWait      = 10 * time.Second
	clientBuffer   = 32
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Operators connect from a separately served dashboard.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans events out to connected observers. Slow consumers are dropped
// rather than allowed to block the engine.
type Hub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[*client]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a stream hub
func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:  logger,
		clients: make(map[*client]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish sends an event to every connected observer without blocking
func (h *Hub) Publish(eventType EventType, payload any) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.logger.Warn("dropping event for slow stream client",
				zap.String("event_type", string(eventType)),
			)
		}
	}
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan Event, clientBuffer),
	}

	h.mu.Lock()
	h.clients[cl] = true
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("stream client connected", zap.Int("active_clients", clientCount))

	go h.writePump(cl)
	go h.readPump(cl)
}

// Close disconnects every client and stops the hub
func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[cl] {
		delete(h.clients, cl)
		cl.conn.Close()
	}
}

// writePump serializes events onto the connection
func (h *Hub) writePump(cl *client) {
	defer h.unregister(cl)

	for {
		select {
		case event, ok := <-cl.send:
			if !ok {
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(event); err != nil {
				return
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// readPump drains the connection to detect closure; observers never send
// meaningful data.
func (h *Hub) readPump(cl *client) {
	defer h.unregister(cl)

	cl.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
