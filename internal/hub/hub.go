// Package hub fans value change events out to Server-Sent Events clients.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"translatedtext/internal/logger"
	"translatedtext/internal/service"

	"github.com/google/uuid"
)

const keepAliveInterval = 30 * time.Second

// Client represents a connected SSE client
type Client struct {
	id     string
	events chan []byte
}

// Hub manages SSE client connections
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan service.Event
	done       chan struct{}
	log        *logger.Logger
}

// New creates a new Hub. A nil logger discards output.
func New(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan service.Event, 256),
		done:       make(chan struct{}),
		log:        log.With("hub"),
	}
}

// Run starts the hub's event loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.events)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info().Str("client", client.id).Int("total", total).Msg("SSE client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.events)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info().Str("client", client.id).Int("total", total).Msg("SSE client disconnected")

		case event := <-h.broadcast:
			msg, err := encode(event)
			if err != nil {
				h.log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to marshal event")
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.events <- msg:
				default:
					h.log.Warn().Str("client", client.id).Msg("SSE client is slow, skipping message")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// encode renders an event as one SSE frame named after its type
func encode(event service.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event service.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn().Str("type", string(event.Type)).Msg("Broadcast channel full, dropping event")
	}
}

// Relay subscribes to the bus and broadcasts its events until ctx is done
func (h *Hub) Relay(ctx context.Context, bus *service.EventBus) {
	events := make(chan service.Event, 64)
	bus.Subscribe(events)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				h.Broadcast(event)
			}
		}
	}()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := &Client{
		id:     uuid.NewString(),
		events: make(chan []byte, 64),
	}

	select {
	case h.register <- client:
	case <-h.done:
		http.Error(w, "hub stopped", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}

	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.events:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
