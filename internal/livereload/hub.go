// Package livereload implements the development-mode reload channel: a
// WebSocket hub that pushes reload messages to connected browsers, fed by
// a filesystem watcher over the static asset directory.
package livereload

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"
)

// Messages understood by static/dev.js: MsgHotReload swaps the body in
// place, MsgReloadPage forces a full page reload.
const (
	MsgHotReload  = "reload"
	MsgReloadPage = "reload_page"
)

// lrClient is one connected browser. The message channel is never closed;
// disconnection is signalled through done so a concurrent Broadcast can
// never send on a closed channel.
type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// Hub manages WebSocket clients for reload broadcasts.
type Hub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]*lrClient
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: map[int]*lrClient{}}
}

// Handler returns the /ws endpoint handler.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

func (h *Hub) serve(ws *websocket.Conn) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ws.Close()
		return
	}
	c := &lrClient{id: h.nextID, ch: make(chan string, 4), done: make(chan struct{})}
	h.nextID++
	h.clients[c.id] = c
	h.mu.Unlock()

	slog.Debug("livereload client connected", "client_id", c.id)
	defer func() {
		h.removeClient(c.id)
		_ = ws.Close()
		slog.Debug("livereload client disconnected", "client_id", c.id)
	}()

	// Reader goroutine detects disconnects; the client never sends
	// meaningful data.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		var discard string
		for {
			if err := websocket.Message.Receive(ws, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-readerDone:
			return
		case <-c.done:
			return
		case msg := <-c.ch:
			if err := websocket.Message.Send(ws, msg); err != nil {
				return
			}
		}
	}
}

// removeClient signals the client's serve loop and drops it from the map.
// Safe to call from multiple goroutines: only the caller that finds the
// client still registered closes done.
func (h *Hub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// Broadcast sends msg to all connected clients, dropping clients whose
// buffers are full.
func (h *Hub) Broadcast(msg string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	snapshot := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- msg:
		case <-c.done:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	slog.Debug("livereload broadcast", "message", msg, "clients", len(snapshot), "dropped", dropped)
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and prevents further broadcasts.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*lrClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
}
