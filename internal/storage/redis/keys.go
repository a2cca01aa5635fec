package redis

import (
	"fmt"
	"strings"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Key prefix for all room session data
const keyPrefix = "quickdraw"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// roomKeyPattern matches every room key, for SCAN-based listing
func roomKeyPattern() string {
	return fmt.Sprintf("%s:room:*", keyPrefix)
}

// codeFromKey recovers the room code from a full Redis key
func codeFromKey(key string) model.RoomCode {
	return model.RoomCode(strings.TrimPrefix(key, fmt.Sprintf("%s:room:", keyPrefix)))
}
