// Package ws is the connection transport: a bidirectional event channel per
// client over websocket, grouped into named broadcast groups per room.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Hub tracks live connections and their room broadcast groups.
// Group membership here is transport bookkeeping only; player presence is
// answered by the room record, never by this map.
type Hub struct {
	mu    sync.RWMutex
	conns map[model.ConnectionID]*Client
	rooms map[model.RoomCode]map[model.ConnectionID]*Client

	logger *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[model.ConnectionID]*Client),
		rooms:  make(map[model.RoomCode]map[model.ConnectionID]*Client),
		logger: logger.With(slog.String("component", "ws-hub")),
	}
}

// add registers a connected client
func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[client.id] = client
}

// remove drops a client from the hub and every group it joined, then shuts
// the client down. A broadcast may still hold a snapshot that includes this
// client; the client's own closed flag keeps that late enqueue harmless.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[client.id]; !ok {
		return
	}
	delete(h.conns, client.id)

	for code, members := range h.rooms {
		if _, ok := members[client.id]; ok {
			delete(members, client.id)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}

	client.shutdown()
}

// Join subscribes a connection to a room's broadcast group
func (h *Hub) Join(connID model.ConnectionID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.conns[connID]
	if !ok {
		return
	}

	members, ok := h.rooms[code]
	if !ok {
		members = make(map[model.ConnectionID]*Client)
		h.rooms[code] = members
	}
	members[connID] = client
}

// ToConn delivers an event to a single connection
func (h *Hub) ToConn(connID model.ConnectionID, event model.EventType, payload any) {
	msg, err := encode(event, payload)
	if err != nil {
		h.logger.Error("event encoding failed",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	client, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	client.enqueue(msg)
}

// ToRoom delivers an event to every member of a room's broadcast group.
// Delivery is in emission order per sender; a slow client drops messages
// rather than blocking the rest of the room.
func (h *Hub) ToRoom(code model.RoomCode, event model.EventType, payload any) {
	msg, err := encode(event, payload)
	if err != nil {
		h.logger.Error("event encoding failed",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[code]))
	for _, client := range h.rooms[code] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		client.enqueue(msg)
	}
}

// GroupSize returns the number of connections in a room's broadcast group
func (h *Hub) GroupSize(code model.RoomCode) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

// encode frames an event and payload into the wire envelope
func encode(event model.EventType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(model.Envelope{Event: event, Data: data})
}
