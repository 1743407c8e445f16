package push

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub tracks live websocket connections per user so in-app
// notifications can be pushed as they happen. Delivery is best effort;
// a user with no open connection still gets the persisted row.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string][]*websocket.Conn
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  map[string][]*websocket.Conn{},
		logger: logger,
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	live := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c != conn {
			live = append(live, c)
		}
	}
	if len(live) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = live
	}
}

// Push writes v as JSON to every live connection of the user.
func (h *Hub) Push(userID string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := append([]*websocket.Conn(nil), h.conns[userID]...)
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			h.logger.Warn("push write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}
