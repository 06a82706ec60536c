package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/trip"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type feedConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *feedConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *feedConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	_ = c.ws.Close()
}

// Hub pushes every published entry to the connected feed subscribers.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*feedConn]struct{}
	closed bool
}

// NewHub creates an empty feed hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*feedConn]struct{})}
}

// ServeHTTP upgrades the request and keeps the subscriber until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Feed upgrade failed", zap.Error(err))
		return
	}

	conn := &feedConn{ws: ws}
	if !h.add(conn) {
		conn.close()
		return
	}
	logging.LogConnection(r.RemoteAddr, "feed subscribed")

	// Subscribers never send; reading only detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	_ = ws.Close()
	logging.LogConnection(r.RemoteAddr, "feed unsubscribed")
}

// Publish sends entry to every subscriber. Subscribers that fail are dropped.
func (h *Hub) Publish(ctx context.Context, entry trip.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*feedConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			logging.Debug("Dropping feed subscriber", zap.Error(err))
			h.remove(c)
			_ = c.ws.Close()
		}
	}
	return nil
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := h.conns
	h.conns = make(map[*feedConn]struct{})
	h.mu.Unlock()

	for c := range conns {
		c.close()
	}
}

func (h *Hub) add(c *feedConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *feedConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}
