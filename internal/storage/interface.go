package storage

import (
	"context"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// RoomStore defines the interface for room session persistence.
// Every save refreshes the record's TTL; a room that receives no writes for
// the TTL window disappears on its own. That expiry is the backstop when the
// reaper cannot run.
type RoomStore interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRoomCodes(ctx context.Context) ([]model.RoomCode, error)
}
