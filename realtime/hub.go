package realtime

import (
	"encoding/json"
	"sync"

	"gogo-api/logger"
)

// Hub is the room registry for websocket fan-out. Emission is
// fire-and-forget: no delivery or replay guarantees, and a slow client
// simply misses events instead of blocking a request.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[room]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[room] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[room]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, clients := range h.rooms {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
}

// eventEnvelope is the wire shape of every emitted event.
type eventEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Emit queues an event to every client in the room without blocking.
// Clients whose send buffer is full are skipped.
func (h *Hub) Emit(room, event string, data interface{}) {
	payload, err := json.Marshal(eventEnvelope{Event: event, Data: data})
	if err != nil {
		logger.Error("Failed to marshal socket event", "error", err, "event", event)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	logger.Debug("Emitting socket event", "event", event, "room", room, "clients", len(clients))

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			logger.Warn("Dropping socket event for slow client", "event", event, "userId", c.userID)
		}
	}
}

// EmitToUser targets one user's private room.
func (h *Hub) EmitToUser(userID, event string, data interface{}) {
	h.Emit(UserRoom(userID), event, data)
}

// RoomSize reports how many clients sit in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
