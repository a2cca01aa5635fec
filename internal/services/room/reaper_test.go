package room

import (
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Reaper tests ride on the CoordinatorSuite harness (grace period 1m).

func (s *CoordinatorSuite) TestSweepKeepsConnectedPlayers() {
	code, _ := s.createRoom("ABC123")
	s.clock.Advance(time.Hour)
	s.sender.reset()

	s.Require().NoError(s.coordinator.Sweep(s.ctx))

	room, err := s.store.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	s.Len(room.Players, 1)
	s.Empty(s.sender.events)
}

func (s *CoordinatorSuite) TestSweepKeepsPlayersWithinGrace() {
	code, _ := s.createRoom("ABC123")
	s.coordinator.Disconnect(s.ctx, "conn-1")
	s.clock.Advance(30 * time.Second)
	s.sender.reset()

	s.Require().NoError(s.coordinator.Sweep(s.ctx))

	room, err := s.store.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	s.Len(room.Players, 1)
}

func (s *CoordinatorSuite) TestSweepDeletesRoomOnceEmpty() {
	code, _ := s.createRoom("ABC123")
	s.coordinator.Disconnect(s.ctx, "conn-1")
	s.clock.Advance(2 * time.Minute)

	s.Require().NoError(s.coordinator.Sweep(s.ctx))

	_, err := s.store.GetRoom(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *CoordinatorSuite) TestSweepEvictsOnlyOverduePlayer() {
	code, _ := s.createRoom("ABC123")
	s.Require().NoError(s.coordinator.JoinRoom(s.ctx, "conn-2", model.JoinRoomRequest{
		RoomID:   code,
		Nickname: "Bob",
	}))

	s.coordinator.Disconnect(s.ctx, "conn-1")
	s.clock.Advance(2 * time.Minute)
	s.sender.reset()

	s.Require().NoError(s.coordinator.Sweep(s.ctx))

	room, err := s.store.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	s.Require().Len(room.Players, 1)
	s.Equal("Bob", room.Players[0].Nickname)

	update := s.sender.last(model.EventPlayerUpdate)
	s.Require().NotNil(update)
	s.Equal(code, update.Room)
	s.Len(update.Payload.(model.PlayerUpdatePayload).Players, 1)
}

func (s *CoordinatorSuite) TestReconnectWithinGraceSurvivesSweep() {
	code, userID := s.createRoom("ABC123")
	s.coordinator.Disconnect(s.ctx, "conn-1")

	s.clock.Advance(30 * time.Second)
	s.Require().NoError(s.coordinator.ReconnectRoom(s.ctx, "conn-9", model.ReconnectRequest{
		RoomID: code,
		UserID: userID,
	}))

	// Well past the original disconnect; the revived player must stay
	s.clock.Advance(time.Hour)
	s.Require().NoError(s.coordinator.Sweep(s.ctx))

	room, err := s.store.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	s.Require().Len(room.Players, 1)
	s.Equal(userID, room.Players[0].UserID)
}

func (s *CoordinatorSuite) TestSweepToleratesVanishedRooms() {
	code, _ := s.createRoom("ABC123")
	s.Require().NoError(s.store.DeleteRoom(s.ctx, code))

	// A room deleted between listing and loading must not error the sweep
	s.Require().NoError(s.coordinator.sweepRoom(s.ctx, code))
}
