package web

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/commute-front/internal/observability"
)

// SessionEvent is pushed to every tab of a session. The only event today is
// session_ended, the replacement for the browser storage listener: a logout
// in one tab tells the others to drop their signed-in view.
type SessionEvent struct {
	Event string `json:"event"`
}

type tabConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (t *tabConn) send(ev SessionEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteJSON(ev)
}

// EventHub holds one websocket per open tab, grouped by session id.
type EventHub struct {
	mu     sync.RWMutex
	tabs   map[string][]*tabConn
	logger *slog.Logger
}

func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{tabs: make(map[string][]*tabConn), logger: logger}
}

func (h *EventHub) Add(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tabs[sessionID] = append(h.tabs[sessionID], &tabConn{conn: conn})
	observability.TabsConnected.Inc()
}

// SessionEnded notifies and disconnects every tab of the session.
func (h *EventHub) SessionEnded(sessionID string) {
	h.mu.Lock()
	conns := h.tabs[sessionID]
	delete(h.tabs, sessionID)
	h.mu.Unlock()

	for _, t := range conns {
		if err := t.send(SessionEvent{Event: "session_ended"}); err != nil {
			h.logger.Debug("ws send failed", "session_id", sessionID, "error", err)
		}
		_ = t.conn.Close()
		observability.TabsConnected.Dec()
	}
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	s.hub.Add(sess.ID, conn)
	// Drain reads so pings and close frames are processed; the tab never
	// sends application data.
	go func(sessID string, c *websocket.Conn) {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				s.hub.drop(sessID, c)
				return
			}
		}
	}(sess.ID, conn)
}

// drop removes one closed tab without ending the session.
func (h *EventHub) drop(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.tabs[sessionID]
	for i, t := range conns {
		if t.conn == conn {
			h.tabs[sessionID] = append(conns[:i], conns[i+1:]...)
			observability.TabsConnected.Dec()
			break
		}
	}
	if len(h.tabs[sessionID]) == 0 {
		delete(h.tabs, sessionID)
	}
	_ = conn.Close()
}
