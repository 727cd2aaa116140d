package eventControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/muhammed1675/ScentsByMotun/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// frame is one websocket message: the topic plus its payload snapshot.
type frame struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// Hub pushes engine events to connected pages so the UI reacts to
// auth_state_changed and cart_updated without polling.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	unsubs  []func()
}

// NewHub subscribes to the engine topics and broadcasts them.
func NewHub(bus *events.Bus) *Hub {
	h := &Hub{clients: make(map[*websocket.Conn]bool)}
	for _, topic := range []string{events.TopicAuthStateChanged, events.TopicCartUpdated} {
		topic := topic
		h.unsubs = append(h.unsubs, bus.Subscribe(topic, func(payload any) {
			h.broadcast(frame{Topic: topic, Payload: payload})
		}))
	}
	return h
}

// Dispose detaches the hub from the bus.
func (h *Hub) Dispose() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
}

func (h *Hub) broadcast(f frame) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// GET /events
func (h *Hub) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			break
		}
	}
}
