// Package room implements the room session coordinator: room lifecycle,
// player membership, reconnection with a grace period, timer replication,
// and background reaping of abandoned rooms.
package room

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/dependencies/clock"
	"github.com/quickdraw-game/quickdraw-go/internal/dependencies/random"
	"github.com/quickdraw-game/quickdraw-go/internal/model"
	"github.com/quickdraw-game/quickdraw-go/internal/registry"
	"github.com/quickdraw-game/quickdraw-go/internal/services/challenge"
	"github.com/quickdraw-game/quickdraw-go/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Sender delivers events over the connection transport. ToConn answers the
// connection that triggered an action; ToRoom fans out to every member of a
// room's broadcast group; Join subscribes a connection to a group.
type Sender interface {
	ToConn(connID model.ConnectionID, event model.EventType, payload any)
	ToRoom(code model.RoomCode, event model.EventType, payload any)
	Join(connID model.ConnectionID, code model.RoomCode)
}

// Config holds coordinator behavior settings
type Config struct {
	// GracePeriod is how long a disconnected player's slot is preserved
	GracePeriod time.Duration
	// TimerTick is how often the server-side timer advances (1s in production,
	// shortened in tests)
	TimerTick time.Duration
}

// DefaultConfig returns sensible defaults for the coordinator
func DefaultConfig() Config {
	return Config{
		GracePeriod: time.Minute,
		TimerTick:   time.Second,
	}
}

// Coordinator owns room lifecycle and membership. It never holds
// authoritative room state in memory between events: every handler loads
// the record, mutates a copy under the room's mutex, and writes it back.
type Coordinator struct {
	store     storage.RoomStore
	registry  *registry.Registry
	generator challenge.Generator
	sender    Sender
	clock     clock.Clock
	random    random.Random
	cfg       Config
	logger    *slog.Logger

	locks  *keyedMutex
	timers *timerRunner
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	store storage.RoomStore,
	reg *registry.Registry,
	generator challenge.Generator,
	sender Sender,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Coordinator {
	c := &Coordinator{
		store:     store,
		registry:  reg,
		generator: generator,
		sender:    sender,
		clock:     clk,
		random:    rnd,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "coordinator")),
		locks:     newKeyedMutex(),
	}
	c.timers = newTimerRunner(c)
	return c
}

// Close stops all background timer tasks
func (c *Coordinator) Close() {
	c.timers.StopAll()
}

// CreateRoom handles the createRoom event. The challenge call is best-effort:
// on failure the room is still created without one and the requester gets an
// error event, since prompt delivery is content, not session-critical.
func (c *Coordinator) CreateRoom(ctx context.Context, connID model.ConnectionID, req model.CreateRoomRequest) error {
	if req.Nickname == "" || req.Theme == "" {
		return model.ErrInvalidPayload
	}

	code, err := c.generateRoomCode(ctx)
	if err != nil {
		return model.ErrRoomCreationFailed
	}

	prompt, err := c.generator.Generate(ctx, req.Theme)
	if err != nil {
		c.logger.Warn("challenge generation failed",
			slog.String("room", string(code)),
			slog.String("theme", req.Theme),
			slog.String("error", err.Error()))
		c.sender.ToConn(connID, model.EventError, model.ErrorPayload{
			Message: model.ErrChallengeUnavailable.Error(),
		})
	}

	now := c.clock.Now()
	userID := model.UserID(c.random.UUID())
	room := &model.Room{
		Code:      code,
		Theme:     req.Theme,
		Challenge: prompt,
		Players: []model.Player{
			{
				UserID:   userID,
				SocketID: &connID,
				Nickname: req.Nickname,
				Avatar:   req.Avatar,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	unlock := c.locks.Lock(code)
	defer unlock()

	// If the store write fails, nothing is broadcast or registered:
	// the room must not be left partially created.
	if err := c.store.SaveRoom(ctx, room); err != nil {
		c.logger.Error("room creation write failed",
			slog.String("room", string(code)),
			slog.String("error", err.Error()))
		return model.ErrRoomCreationFailed
	}

	c.registry.Bind(connID, code, userID)
	c.sender.Join(connID, code)
	c.sender.ToConn(connID, model.EventRoomCreated, model.RoomEventPayload{
		RoomID: code,
		Theme:  room.Theme,
		UserID: userID,
	})
	c.sender.ToRoom(code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})

	c.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("theme", req.Theme),
		slog.String("user", string(userID)))
	return nil
}

// JoinRoom handles the joinRoom event
func (c *Coordinator) JoinRoom(ctx context.Context, connID model.ConnectionID, req model.JoinRoomRequest) error {
	if req.RoomID == "" || req.Nickname == "" {
		return model.ErrInvalidPayload
	}

	unlock := c.locks.Lock(req.RoomID)
	defer unlock()

	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}

	// A presented ID that already names a player in this room is the same
	// identity coming back through the join flow. Revive that slot; a
	// second entry under one ID would shadow the original everywhere.
	if req.UserID != "" {
		if player := room.GetPlayer(req.UserID); player != nil {
			return c.rejoinExisting(ctx, connID, room, player)
		}
	}

	if room.IsFull() {
		return model.ErrRoomFull
	}

	// A browser that already holds an ID from a previous, now-stale
	// session keeps it; everyone else gets a fresh one.
	userID := req.UserID
	if userID == "" {
		userID = model.UserID(c.random.UUID())
	}

	room.Players = append(room.Players, model.Player{
		UserID:   userID,
		SocketID: &connID,
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
	})
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.registry.Bind(connID, room.Code, userID)
	c.sender.Join(connID, room.Code)
	c.sender.ToConn(connID, model.EventRoomJoined, model.RoomEventPayload{
		RoomID: room.Code,
		Theme:  room.Theme,
		UserID: userID,
	})
	c.sender.ToRoom(room.Code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})
	c.sender.ToRoom(room.Code, model.EventChallenge, model.ChallengePayload{Challenge: room.Challenge})

	c.logger.Info("player joined",
		slog.String("room", string(room.Code)),
		slog.String("user", string(userID)))
	return nil
}

// rejoinExisting rebinds a returning player's slot to a new connection.
// Called with the room lock held; answers with the join events the client
// is waiting on.
func (c *Coordinator) rejoinExisting(ctx context.Context, connID model.ConnectionID, room *model.Room, player *model.Player) error {
	player.SocketID = &connID
	player.DisconnectTime = nil
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.registry.Bind(connID, room.Code, player.UserID)
	c.sender.Join(connID, room.Code)
	c.sender.ToConn(connID, model.EventRoomJoined, model.RoomEventPayload{
		RoomID: room.Code,
		Theme:  room.Theme,
		UserID: player.UserID,
	})
	c.sender.ToRoom(room.Code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})
	c.sender.ToRoom(room.Code, model.EventChallenge, model.ChallengePayload{Challenge: room.Challenge})

	c.logger.Info("player rejoined via join",
		slog.String("room", string(room.Code)),
		slog.String("user", string(player.UserID)))
	return nil
}

// ReconnectRoom handles the reconnectRoom event. It is the only mutation
// that revives a player: a page reload or network blip within the grace
// window lands here instead of evicting the player.
func (c *Coordinator) ReconnectRoom(ctx context.Context, connID model.ConnectionID, req model.ReconnectRequest) error {
	if req.RoomID == "" || req.UserID == "" {
		return model.ErrInvalidPayload
	}

	unlock := c.locks.Lock(req.RoomID)
	defer unlock()

	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}

	player := room.GetPlayer(req.UserID)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	player.SocketID = &connID
	player.DisconnectTime = nil
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.registry.Bind(connID, room.Code, req.UserID)
	c.sender.Join(connID, room.Code)
	c.sender.ToConn(connID, model.EventRoomRejoined, model.RoomEventPayload{
		RoomID: room.Code,
		Theme:  room.Theme,
		UserID: req.UserID,
	})
	c.sender.ToRoom(room.Code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})

	c.logger.Info("player reconnected",
		slog.String("room", string(room.Code)),
		slog.String("user", string(req.UserID)))
	return nil
}

// SetReady handles the gameState event, flipping one player's ready flag.
// Readiness never transitions gameStarted by itself; that is driven by
// updateGameState.
func (c *Coordinator) SetReady(ctx context.Context, connID model.ConnectionID, req model.ReadyRequest) error {
	if req.RoomID == "" || req.PlayerID == "" || req.ReadyState == nil {
		return model.ErrInvalidPayload
	}

	unlock := c.locks.Lock(req.RoomID)
	defer unlock()

	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}

	player := room.GetPlayer(req.PlayerID)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	player.Ready = *req.ReadyState
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.sender.ToRoom(room.Code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})
	return nil
}

// GetChallenge re-emits the room's challenge to the requester only
func (c *Coordinator) GetChallenge(ctx context.Context, connID model.ConnectionID, req model.RoomQuery) error {
	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}
	c.sender.ToConn(connID, model.EventChallenge, model.ChallengePayload{Challenge: room.Challenge})
	return nil
}

// GetPlayers re-emits the room's player list to the requester only
func (c *Coordinator) GetPlayers(ctx context.Context, connID model.ConnectionID, req model.RoomQuery) error {
	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}
	c.sender.ToConn(connID, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})
	return nil
}

// GetGameState re-emits the room's started/drawing flags to the requester only
func (c *Coordinator) GetGameState(ctx context.Context, connID model.ConnectionID, req model.RoomQuery) error {
	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}
	c.sender.ToConn(connID, model.EventGameStateUpdate, model.GameStateUpdatePayload{
		IsStarted: room.GameStarted,
		IsDrawing: room.IsDrawing,
	})
	return nil
}

// GetTimerState re-emits the room's timer state to the requester only
func (c *Coordinator) GetTimerState(ctx context.Context, connID model.ConnectionID, req model.RoomQuery) error {
	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}
	c.sender.ToConn(connID, model.EventTimerUpdate, room.TimerState)
	return nil
}

// UpdateGameState handles the updateGameState event: an unconditional
// overwrite of the shared flags. Any connected client may drive these for
// its room; a 2-player session is trusted.
func (c *Coordinator) UpdateGameState(ctx context.Context, connID model.ConnectionID, req model.GameStateRequest) error {
	if req.RoomID == "" {
		return model.ErrInvalidPayload
	}

	unlock := c.locks.Lock(req.RoomID)
	defer unlock()

	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}

	room.GameStarted = req.IsStarted
	room.IsDrawing = req.IsDrawing
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.sender.ToRoom(room.Code, model.EventGameStateUpdate, model.GameStateUpdatePayload{
		IsStarted: room.GameStarted,
		IsDrawing: room.IsDrawing,
	})
	return nil
}

// UpdateTimer handles the updateTimer event. The written state is
// broadcast immediately; if running, a server-side task takes over and
// advances the countdown so clients never have to tick it themselves.
func (c *Coordinator) UpdateTimer(ctx context.Context, connID model.ConnectionID, req model.TimerRequest) error {
	if req.RoomID == "" {
		return model.ErrInvalidPayload
	}

	unlock := c.locks.Lock(req.RoomID)
	defer unlock()

	room, err := c.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return err
	}

	remaining := req.RemainingTime
	if remaining < 0 {
		remaining = 0
	}
	room.TimerState = model.TimerState{
		RemainingTime: remaining,
		Running:       req.Running && remaining > 0,
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.sender.ToRoom(room.Code, model.EventTimerUpdate, room.TimerState)

	if room.TimerState.Running {
		c.timers.Start(room.Code)
	} else {
		c.timers.Stop(room.Code)
	}
	return nil
}

// Disconnect is triggered by the transport when a connection closes.
// The player is only marked disconnected here; removal is the reaper's job
// once the grace period runs out. A connection that never joined a room is
// a silent no-op.
func (c *Coordinator) Disconnect(ctx context.Context, connID model.ConnectionID) {
	binding, ok := c.registry.Lookup(connID)
	if !ok {
		return
	}
	c.registry.Unbind(connID)

	unlock := c.locks.Lock(binding.RoomID)
	defer unlock()

	room, err := c.store.GetRoom(ctx, binding.RoomID)
	if err != nil {
		if !errors.Is(err, model.ErrRoomNotFound) {
			c.logger.Error("disconnect load failed",
				slog.String("room", string(binding.RoomID)),
				slog.String("error", err.Error()))
		}
		return
	}

	player := room.GetPlayer(binding.UserID)
	if player == nil {
		return
	}

	// A reconnect may already have rebound the player to a newer
	// connection; a stale close must not mark them offline.
	if player.SocketID == nil || *player.SocketID != connID {
		return
	}

	now := c.clock.Now()
	player.SocketID = nil
	player.DisconnectTime = &now
	room.UpdatedAt = now

	if err := c.store.SaveRoom(ctx, room); err != nil {
		c.logger.Error("disconnect write failed",
			slog.String("room", string(room.Code)),
			slog.String("error", err.Error()))
		return
	}

	c.sender.ToRoom(room.Code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})

	c.logger.Info("player disconnected",
		slog.String("room", string(room.Code)),
		slog.String("user", string(binding.UserID)))
}

// generateRoomCode produces a code not currently in use
func (c *Coordinator) generateRoomCode(ctx context.Context) (model.RoomCode, error) {
	for {
		code := model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.store.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}
