// Package realtime pushes disaster events, alerts, and system stats to
// websocket clients. Clients subscribe to categories (disasters, alerts,
// system) and only receive what they asked for.
package realtime

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-disasterai/metrics"
	"go-disasterai/types"
)

// Subscription categories.
const (
	CategoryDisasters = "disasters"
	CategoryAlerts    = "alerts"
	CategorySystem    = "system"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks connected clients and routes broadcasts by category.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan types.StreamMessage

	mu         sync.Mutex
	categories map[string]struct{}
}

// NewHub builds an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// ServeWS upgrades an HTTP request to a websocket session and runs it until
// the peer goes away. The client may pass client_id and a comma-separated
// categories list as query parameters; with no categories it starts
// subscribed to disasters.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return
	}

	id := c.Query("client_id")
	if id == "" {
		id = uuid.NewString()
	}
	subscribed := parseCategories(c.Query("categories"))

	categories := make(map[string]struct{}, len(subscribed))
	for _, cat := range subscribed {
		categories[cat] = struct{}{}
	}

	cl := &client{
		id:         id,
		hub:        h,
		conn:       conn,
		send:       make(chan types.StreamMessage, sendBuffer),
		categories: categories,
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	metrics.WebsocketClients.Inc()
	log.Printf("realtime: client %s connected (%d total)", cl.id, h.ClientCount())

	cl.send <- types.StreamMessage{
		Type:   types.StreamConnection,
		Status: "connected",
		Data: map[string]interface{}{
			"client_id":  cl.id,
			"categories": subscribed,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	go cl.writePump()
	go cl.readPump()
}

// parseCategories splits the connect-time subscription list, falling back to
// the disasters feed when none is given.
func parseCategories(raw string) []string {
	out := []string{}
	for _, cat := range strings.Split(raw, ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			out = append(out, cat)
		}
	}
	if len(out) == 0 {
		out = append(out, CategoryDisasters)
	}
	return out
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToCategory delivers a message to every client subscribed to the
// category. Slow clients have the message dropped rather than blocking the
// broadcaster.
func (h *Hub) BroadcastToCategory(category string, msg types.StreamMessage) {
	msg.Category = category
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		if !cl.subscribed(category) {
			continue
		}
		select {
		case cl.send <- msg:
		default:
			log.Printf("realtime: client %s send buffer full, dropping %s message", cl.id, msg.Type)
		}
	}
}

// BroadcastToAll delivers a message to every connected client regardless of
// subscriptions.
func (h *Hub) BroadcastToAll(msg types.StreamMessage) {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
		}
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
		metrics.WebsocketClients.Dec()
	}
	h.mu.Unlock()
}

func (c *client) subscribed(category string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.categories[category]
	return ok
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
		log.Printf("realtime: client %s disconnected", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: client %s read error: %v", c.id, err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg types.ClientMessage) {
	switch msg.Type {
	case "subscribe":
		c.mu.Lock()
		c.categories[msg.Category] = struct{}{}
		c.mu.Unlock()
		c.reply(types.StreamMessage{
			Type:     types.StreamSubscription,
			Status:   "subscribed",
			Category: msg.Category,
		})
	case "unsubscribe":
		c.mu.Lock()
		delete(c.categories, msg.Category)
		c.mu.Unlock()
		c.reply(types.StreamMessage{
			Type:     types.StreamSubscription,
			Status:   "unsubscribed",
			Category: msg.Category,
		})
	case "ping":
		c.reply(types.StreamMessage{Type: types.StreamPong})
	}
}

func (c *client) reply(msg types.StreamMessage) {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	select {
	case c.send <- msg:
	default:
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
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
