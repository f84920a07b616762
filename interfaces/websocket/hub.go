package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	"flutterai-engine/domain/events"
)

// Envelope is the wire shape of every broadcast message
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans engine events out to connected UI clients. It implements
// ports.EventPublisher, so passing it to the project store is all the wiring
// the broadcast path needs. Publish never blocks: a slow or dead client is
// dropped rather than allowed to stall a store mutation.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stopCh     chan struct{}

	logger *zap.Logger
}

var _ ports.EventPublisher = (*Hub)(nil)

// NewHub creates a hub; call Run in a goroutine to start it
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		stopCh:     make(chan struct{}),
		logger:     logger,
	}
}

// Run processes register, unregister, and broadcast traffic until Stop
func (h *Hub) Run() {
	for {
		select {
		case <-h.stopCh:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.String("client_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.String("client_id", client.id))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's buffer is full; drop it
					go h.drop(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop shuts the hub down and closes all connections
func (h *Hub) Stop() {
	close(h.stopCh)
}

// Publish broadcasts a domain event to all clients. Non-blocking: if the
// hub's queue is full the event is dropped with a warning, never stalling
// the caller.
func (h *Hub) Publish(event events.DomainEvent) {
	data, err := json.Marshal(Envelope{Type: event.GetEventType(), Payload: event})
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("type", event.GetEventType()), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast queue full, dropping event", zap.String("type", event.GetEventType()))
	}
}

// drop queues an unregister for a client. After Stop the Run loop no longer
// drains the unregister channel, so the send must give up on shutdown or the
// sender leaks.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopCh:
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
