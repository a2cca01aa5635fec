package model

import "encoding/json"

// EventType identifies an event on the connection transport
type EventType string

const (
	// Client -> server
	EventCreateRoom      EventType = "createRoom"
	EventJoinRoom        EventType = "joinRoom"
	EventReconnectRoom   EventType = "reconnectRoom"
	EventGameState       EventType = "gameState"
	EventGetChallenge    EventType = "getChallenge"
	EventGetPlayers      EventType = "getPlayers"
	EventGetGameState    EventType = "getGameState"
	EventGetTimerState   EventType = "getTimerState"
	EventUpdateGameState EventType = "updateGameState"
	EventUpdateTimer     EventType = "updateTimer"

	// Server -> client
	EventRoomCreated     EventType = "roomCreated"
	EventRoomJoined      EventType = "roomJoined"
	EventRoomRejoined    EventType = "roomRejoined"
	EventPlayerUpdate    EventType = "playerUpdate"
	EventChallenge       EventType = "challenge"
	EventGameStateUpdate EventType = "gameStateUpdate"
	EventTimerUpdate     EventType = "timerUpdate"
	EventError           EventType = "error"
)

// Envelope is the wire framing for every event in either direction
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client -> server payloads

// CreateRoomRequest asks for a new room with the requester as first player
type CreateRoomRequest struct {
	Nickname string `json:"nickname"`
	Theme    string `json:"theme"`
	Avatar   string `json:"avatar"`
}

// JoinRoomRequest asks to join an existing room as second player.
// UserID is optional: a browser that still holds an ID from a previous
// session may present it instead of being issued a fresh one.
type JoinRoomRequest struct {
	RoomID   RoomCode `json:"roomId"`
	Nickname string   `json:"nickname"`
	Avatar   string   `json:"avatar"`
	UserID   UserID   `json:"userId,omitempty"`
}

// ReconnectRequest revives a disconnected player on a new connection
type ReconnectRequest struct {
	RoomID RoomCode `json:"roomId"`
	UserID UserID   `json:"userId"`
}

// ReadyRequest flips the named player's ready flag.
// ReadyState is a pointer so a missing or non-boolean value is detectable.
type ReadyRequest struct {
	RoomID     RoomCode `json:"roomId"`
	PlayerID   UserID   `json:"playerId"`
	ReadyState *bool    `json:"readyState"`
}

// RoomQuery addresses a read-only request at a room
type RoomQuery struct {
	RoomID RoomCode `json:"roomId"`
}

// GameStateRequest overwrites the room's started/drawing flags
type GameStateRequest struct {
	RoomID    RoomCode `json:"roomId"`
	IsStarted bool     `json:"isStarted"`
	IsDrawing bool     `json:"isDrawing"`
}

// TimerRequest overwrites the room's timer state
type TimerRequest struct {
	RoomID        RoomCode `json:"roomId"`
	RemainingTime int      `json:"remainingTime"`
	Running       bool     `json:"running"`
}

// Server -> client payloads

// RoomEventPayload answers roomCreated/roomJoined/roomRejoined
type RoomEventPayload struct {
	RoomID RoomCode `json:"roomId"`
	Theme  string   `json:"theme"`
	UserID UserID   `json:"userId"`
}

// PlayerUpdatePayload carries the full player list, in join order
type PlayerUpdatePayload struct {
	Players []Player `json:"players"`
}

// ChallengePayload carries the room's drawing prompt
type ChallengePayload struct {
	Challenge string `json:"challenge"`
}

// GameStateUpdatePayload carries the shared started/drawing flags
type GameStateUpdatePayload struct {
	IsStarted bool `json:"isStarted"`
	IsDrawing bool `json:"isDrawing"`
}

// ErrorPayload carries a human-readable failure message
type ErrorPayload struct {
	Message string `json:"message"`
}
