package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"creative-assigner/domain/model"

	"github.com/gin-gonic/gin"
)

const defaultHeartbeat = 25 * time.Second

// Hub fans session events out to the SSE streams watching each session.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[string]map[chan model.Event]struct{}
	heartbeat time.Duration
}

func NewHub() *Hub {
	return &Hub{
		sessions:  make(map[string]map[chan model.Event]struct{}),
		heartbeat: defaultHeartbeat,
	}
}

// Serve streams the events of sessionID until the client goes away or the session is
// closed. The caller has already checked that the operator owns the session.
func (h *Hub) Serve(c *gin.Context, sessionID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan model.Event, 16)
	h.addSubscriber(sessionID, ch)
	defer h.removeSubscriber(sessionID, ch)

	c.Status(http.StatusOK)
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: " + string(evt.Type) + "\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-ticker.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(sessionID string, ch chan model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[chan model.Event]struct{})
	}
	h.sessions[sessionID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(sessionID string, ch chan model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.sessions[sessionID]
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(h.sessions, sessionID)
	}
}

// Broadcast is a session listener. Slow streams miss events rather than block the session.
func (h *Hub) Broadcast(evt model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.sessions[evt.SessionID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// CloseSession ends every stream of a closed session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.sessions[sessionID] {
		close(ch)
	}
	delete(h.sessions, sessionID)
}

// Subscribers is the number of open streams for a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
