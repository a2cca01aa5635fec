package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
	"github.com/quickdraw-game/quickdraw-go/internal/storage"
)

// Store is an in-memory implementation of the room store.
// It ignores TTLs; the reaper is the only expiry mechanism when this
// backend is in use, which is fine for tests and local development.
type Store struct {
	mu    sync.RWMutex
	rooms map[model.RoomCode][]byte
}

// New creates a new in-memory store instance
func New() *Store {
	return &Store{
		rooms: make(map[model.RoomCode][]byte),
	}
}

// Ensure Store implements the interface
var _ storage.RoomStore = (*Store)(nil)

// SaveRoom persists a room. Records are stored serialized so callers
// get the same copy-on-read semantics as the Redis backend.
func (s *Store) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = data
	return nil
}

// GetRoom loads a room by code
func (s *Store) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	data, ok := s.rooms[code]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrRoomNotFound
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room record
func (s *Store) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

// RoomExists reports whether a room record is present
func (s *Store) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// ListRoomCodes returns the codes of all live rooms
func (s *Store) ListRoomCodes(ctx context.Context) ([]model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]model.RoomCode, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes, nil
}
