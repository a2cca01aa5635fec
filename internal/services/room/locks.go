package room

import (
	"sync"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// keyedMutex serializes the load-mutate-store cycle per room code.
// Handlers for different rooms proceed in parallel; two mutations of the
// same room can never interleave, which closes the lost-update window of
// a bare read-modify-write against the shared store.
//
// Entries are refcounted and dropped once no handler holds or waits on
// them, so the map does not grow with dead rooms.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[model.RoomCode]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		entries: make(map[model.RoomCode]*lockEntry),
	}
}

// Lock acquires the mutex for a room code and returns its unlock function
func (k *keyedMutex) Lock(code model.RoomCode) func() {
	k.mu.Lock()
	entry, ok := k.entries[code]
	if !ok {
		entry = &lockEntry{}
		k.entries[code] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, code)
		}
		k.mu.Unlock()
	}
}
