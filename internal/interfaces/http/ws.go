package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ballotworks/syncrun/internal/political"
)

// EventHub fans coalition events out to websocket subscribers. Slow
// subscribers are dropped rather than allowed to block the tracker.
type EventHub struct {
	mu    sync.Mutex
	subs  map[chan []byte]struct{}
	log   zerolog.Logger
	upgr  websocket.Upgrader
	limit int
}

// NewEventHub creates a hub with a per-subscriber buffer of 16 events.
func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		subs: make(map[chan []byte]struct{}),
		log:  log,
		upgr: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		limit: 16,
	}
}

// Broadcast pushes one event to every live subscriber.
func (h *EventHub) Broadcast(ev political.EventRecord) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal coalition event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// Buffer full; drop the subscriber on its next write.
			close(ch)
			delete(h.subs, ch)
		}
	}
}

func (h *EventHub) subscribe() chan []byte {
	ch := make(chan []byte, h.limit)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		close(ch)
		delete(h.subs, ch)
	}
	h.mu.Unlock()
}

// ServeHTTP upgrades the connection and streams events until the client
// disconnects.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgr.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	// Reader goroutine exists only to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
