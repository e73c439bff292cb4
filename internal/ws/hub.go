package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Send   chan []byte
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Room is the per-trip fan-out group shared by the chat and map
// channels. One user can hold several connections (phone + laptop).
type Room struct {
	TripID  uint
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewRoom(tripID uint) *Room {
	return &Room{TripID: tripID, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends the payload to every client in the room except from.
// Pass nil to reach everyone. Slow clients are skipped, not blocked on.
func (r *Room) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// Hub holds one room per trip for a given channel (chat or map).
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]*Room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]*Room)}
}

func (h *Hub) GetOrCreateRoom(tripID uint) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[tripID]; ok {
		return r
	}
	r := NewRoom(tripID)
	h.rooms[tripID] = r
	return r
}

func (h *Hub) GetRoom(tripID uint) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[tripID]
}

// BroadcastToTrip sends to the trip's room if anyone is connected.
func (h *Hub) BroadcastToTrip(tripID uint, payload interface{}) {
	if r := h.GetRoom(tripID); r != nil {
		r.Broadcast(nil, payload)
	}
}

func (h *Hub) RemoveRoom(tripID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, tripID)
}
