// Package registry tracks which live connection belongs to which player.
//
// The mapping is process-local and rebuilt from scratch on every start:
// nothing here is persisted, and nothing here answers "is a player online"
// (that lives in the room record's socket field). A restart orphans live
// connections until they re-announce themselves via reconnect.
package registry

import (
	"sync"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Binding ties a live connection to its room and player
type Binding struct {
	RoomID model.RoomCode
	UserID model.UserID
}

// Registry is a concurrent map from connection identity to binding
type Registry struct {
	mu       sync.RWMutex
	bindings map[model.ConnectionID]Binding
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		bindings: make(map[model.ConnectionID]Binding),
	}
}

// Bind records that a connection belongs to a player in a room,
// replacing any previous binding for that connection.
func (r *Registry) Bind(connID model.ConnectionID, roomID model.RoomCode, userID model.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[connID] = Binding{RoomID: roomID, UserID: userID}
}

// Lookup returns the binding for a connection, if one exists
func (r *Registry) Lookup(connID model.ConnectionID) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[connID]
	return b, ok
}

// Unbind removes the binding for a connection. Removing a connection
// that was never bound is a no-op.
func (r *Registry) Unbind(connID model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, connID)
}

// Len returns the number of live bindings
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
