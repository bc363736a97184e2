package ws

import (
	"sync"
)

type Conn interface {
	ID() string
	Enqueue(msg Message) bool
	Close() error
}

// Hub indexes live connections by id. Relay delivery addresses single ids
// (pair signaling), id sets (room broadcast) or everyone (public room list
// pushes), so the index is keyed by connection rather than by room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]Conn
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]Conn)}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID()] = c
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// Send delivers to a single connection. Reports false when the id is gone;
// relaying is fire-and-forget, so callers normally ignore it.
func (h *Hub) Send(id string, msg Message) bool {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return c.Enqueue(msg)
}

func (h *Hub) SendMany(ids []string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range ids {
		if c, ok := h.clients[id]; ok {
			_ = c.Enqueue(msg) // best-effort
		}
	}
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		_ = c.Enqueue(msg)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
