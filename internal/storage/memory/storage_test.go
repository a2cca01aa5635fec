package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *StoreSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		Code:    "ABC123",
		Theme:   "Animals",
		Players: []model.Player{{UserID: "user-1", Nickname: "Alice"}},
	}

	s.Require().NoError(s.store.SaveRoom(s.ctx, room))

	retrieved, err := s.store.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room, retrieved)
}

func (s *StoreSuite) TestGetRoomNotFound() {
	_, err := s.store.GetRoom(s.ctx, "NOPE42")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StoreSuite) TestGetRoomReturnsCopy() {
	room := &model.Room{Code: "ABC123", Theme: "Animals"}
	s.Require().NoError(s.store.SaveRoom(s.ctx, room))

	first, err := s.store.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	first.Theme = "mutated"

	second, err := s.store.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal("Animals", second.Theme)
}

func (s *StoreSuite) TestDeleteRoom() {
	s.Require().NoError(s.store.SaveRoom(s.ctx, &model.Room{Code: "ABC123"}))

	s.Require().NoError(s.store.DeleteRoom(s.ctx, "ABC123"))

	_, err := s.store.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StoreSuite) TestRoomExists() {
	exists, err := s.store.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.store.SaveRoom(s.ctx, &model.Room{Code: "ABC123"}))

	exists, err = s.store.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StoreSuite) TestListRoomCodes() {
	codes, err := s.store.ListRoomCodes(s.ctx)
	s.Require().NoError(err)
	s.Empty(codes)

	s.Require().NoError(s.store.SaveRoom(s.ctx, &model.Room{Code: "AAAAAA"}))
	s.Require().NoError(s.store.SaveRoom(s.ctx, &model.Room{Code: "BBBBBB"}))

	codes, err = s.store.ListRoomCodes(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.RoomCode{"AAAAAA", "BBBBBB"}, codes)
}
