package model

import "errors"

// Common errors used across the application.
// All of these surface to the originating connection as an "error" event;
// none of them terminates the process.
var (
	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomCreationFailed = errors.New("room creation failed")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found in room")

	// Request errors
	ErrInvalidPayload = errors.New("invalid payload")

	// Challenge generation errors
	ErrChallengeUnavailable = errors.New("challenge generation unavailable")
)
