package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
)

// Event names sent on SSE streams.
const (
	EventConnected = "connected"
	EventUpdate    = "update"
	EventReload    = "reload"
)

// Hub fans server-wide events out to connected SSE clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan string]struct{}
	done    chan struct{}
	once    sync.Once
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan string]struct{}),
		done:    make(chan struct{}),
	}
}

// Subscribe registers a client. The returned function unregisters it.
func (h *Hub) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}
}

// Broadcast sends event to every client. Clients that have not consumed
// the previous event are skipped.
func (h *Hub) Broadcast(event string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Done is closed when the hub shuts down.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Close ends every stream.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
}

// sseWriter writes Server-Sent Events.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseWriter{w: w, flusher: flusher}, true
}

func (s *sseWriter) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

type statusEvent struct {
	Status string `json:"status,omitempty"`
	Action string `json:"action,omitempty"`
}

// handleEvents streams server-wide events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse, ok := newSSEWriter(w)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}
	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	if err := sse.send(EventConnected, statusEvent{Status: "connected"}); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.hub.Done():
			return
		case ev := <-events:
			if err := sse.send(ev, statusEvent{Action: ev}); err != nil {
				return
			}
		}
	}
}

// handleWidgetEvents streams node updates of one widget. When the widget
// is destroyed or replaced the stream sends a reload event and ends.
func (s *Server) handleWidgetEvents(w http.ResponseWriter, r *http.Request) {
	h, err := s.controller.Registry().Lookup(widgetID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	sse, ok := newSSEWriter(w)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	updates, cancel := h.Nodes.Subscribe()
	defer cancel()
	hubEvents, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	if err := sse.send(EventConnected, statusEvent{Status: "connected"}); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.hub.Done():
			return
		case ev := <-hubEvents:
			if err := sse.send(ev, statusEvent{Action: ev}); err != nil {
				return
			}
		case u, ok := <-updates:
			if !ok {
				sse.send(EventReload, statusEvent{Action: EventReload})
				return
			}
			if err := sse.send(EventUpdate, u); err != nil {
				return
			}
		}
	}
}
