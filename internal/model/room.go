package model

import "time"

// RoomCode is a short human-typable identifier for joining rooms
type RoomCode string

// UserID uniquely identifies a player across reconnects.
// It is issued once per browser session and persisted client-side.
type UserID string

// ConnectionID identifies a single live transport connection
type ConnectionID string

// MaxPlayers is the room capacity; rooms are strictly two-player sessions
const MaxPlayers = 2

// TimerState is the shared countdown replicated to both clients
type TimerState struct {
	RemainingTime int  `json:"remainingTime"` // seconds
	Running       bool `json:"running"`
}

// Player represents one participant in a room.
// SocketID is nil exactly when the player is disconnected; DisconnectTime
// records when that happened so the reaper can enforce the grace period.
type Player struct {
	UserID         UserID        `json:"userId"`
	SocketID       *ConnectionID `json:"socketId"`
	Nickname       string        `json:"nickname"`
	Avatar         string        `json:"avatar"`
	Ready          bool          `json:"ready"`
	DisconnectTime *time.Time    `json:"disconnectTime"`
	IsDrawing      bool          `json:"isDrawing"`
}

// Connected reports whether the player has a live connection
func (p *Player) Connected() bool {
	return p.SocketID != nil
}

// Room is a two-player session. It is exclusively owned by its record in
// the room store; handlers load it, mutate a copy, and write it back.
type Room struct {
	Code        RoomCode   `json:"roomId"`
	Theme       string     `json:"theme"`
	Challenge   string     `json:"challenge"`
	GameStarted bool       `json:"gameStarted"`
	IsDrawing   bool       `json:"isDrawing"`
	TimerState  TimerState `json:"timerState"`
	Players     []Player   `json:"players"` // insertion order = join order
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// GetPlayer returns the player with the given user ID, or nil if absent
func (r *Room) GetPlayer(userID UserID) *Player {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return &r.Players[i]
		}
	}
	return nil
}

// IsFull reports whether the room is at capacity
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}
