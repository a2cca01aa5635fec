package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
	"github.com/quickdraw-game/quickdraw-go/internal/services/room"
)

// Gateway upgrades HTTP requests to websocket connections and dispatches
// inbound events to the coordinator. Handler failures are reported back to
// the originating connection only, as "error" events; they never take down
// the connection, let alone the process.
type Gateway struct {
	hub         *Hub
	coordinator *room.Coordinator
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewGateway creates a Gateway wired to the given hub and coordinator
func NewGateway(hub *Hub, coordinator *room.Coordinator, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:         hub,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from a separately served frontend
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws-gateway")),
	}
}

// ServeHTTP handles the websocket endpoint
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	connID := model.ConnectionID(uuid.NewString())
	client := newClient(connID, conn, g.logger)

	g.hub.add(client)
	g.logger.Info("connection opened", slog.String("conn", string(connID)))

	go client.writePump()
	client.readPump(g.dispatch)

	// readPump returned: the connection is gone
	g.hub.remove(client)
	g.coordinator.Disconnect(context.Background(), connID)
	g.logger.Info("connection closed", slog.String("conn", string(connID)))
}

// dispatch routes one inbound envelope to its handler
func (g *Gateway) dispatch(connID model.ConnectionID, raw []byte) {
	ctx := context.Background()

	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.sendError(connID, model.ErrInvalidPayload)
		return
	}

	var err error
	switch env.Event {
	case model.EventCreateRoom:
		var req model.CreateRoomRequest
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.CreateRoom(ctx, connID, req)
		}
	case model.EventJoinRoom:
		var req model.JoinRoomRequest
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.JoinRoom(ctx, connID, req)
		}
	case model.EventReconnectRoom:
		var req model.ReconnectRequest
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.ReconnectRoom(ctx, connID, req)
		}
	case model.EventGameState:
		var req model.ReadyRequest
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.SetReady(ctx, connID, req)
		}
	case model.EventGetChallenge:
		var req model.RoomQuery
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.GetChallenge(ctx, connID, req)
		}
	case model.EventGetPlayers:
		var req model.RoomQuery
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.GetPlayers(ctx, connID, req)
		}
	case model.EventGetGameState:
		var req model.RoomQuery
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.GetGameState(ctx, connID, req)
		}
	case model.EventGetTimerState:
		var req model.RoomQuery
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.GetTimerState(ctx, connID, req)
		}
	case model.EventUpdateGameState:
		var req model.GameStateRequest
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.UpdateGameState(ctx, connID, req)
		}
	case model.EventUpdateTimer:
		var req model.TimerRequest
		if err = decode(env.Data, &req); err == nil {
			err = g.coordinator.UpdateTimer(ctx, connID, req)
		}
	default:
		g.logger.Warn("unknown event",
			slog.String("conn", string(connID)),
			slog.String("event", string(env.Event)))
		return
	}

	if err != nil {
		g.sendError(connID, err)
	}
}

// sendError reports a handler failure to the originating connection only
func (g *Gateway) sendError(connID model.ConnectionID, err error) {
	g.hub.ToConn(connID, model.EventError, model.ErrorPayload{Message: err.Error()})
}

// decode unmarshals an envelope payload, mapping malformed
// or missing data to the invalid-payload error
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return model.ErrInvalidPayload
	}
	if err := json.Unmarshal(data, v); err != nil {
		return model.ErrInvalidPayload
	}
	return nil
}
