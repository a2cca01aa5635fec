package room

import (
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Timer tests ride on the CoordinatorSuite harness; the tick is shortened
// to a few milliseconds so countdowns complete quickly.

func (s *CoordinatorSuite) TestUpdateTimerBroadcastsWrittenState() {
	code, _ := s.createRoom("ABC123")
	s.sender.reset()

	err := s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: 120,
		Running:       false,
	})
	s.Require().NoError(err)

	update := s.sender.last(model.EventTimerUpdate)
	s.Require().NotNil(update)
	s.Equal(code, update.Room)
	s.Equal(model.TimerState{RemainingTime: 120, Running: false}, update.Payload)
}

func (s *CoordinatorSuite) TestRunningTimerCountsDownToZero() {
	code, _ := s.createRoom("ABC123")
	s.sender.reset()

	err := s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: 3,
		Running:       true,
	})
	s.Require().NoError(err)

	// The server-side task owns the countdown from here
	s.Require().Eventually(func() bool {
		room, err := s.store.GetRoom(s.ctx, code)
		if err != nil {
			return false
		}
		return room.TimerState.RemainingTime == 0 && !room.TimerState.Running
	}, time.Second, 5*time.Millisecond)

	final := s.sender.last(model.EventTimerUpdate)
	s.Require().NotNil(final)
	s.Equal(model.TimerState{RemainingTime: 0, Running: false}, final.Payload)
}

func (s *CoordinatorSuite) TestTimerBroadcastsEveryStep() {
	code, _ := s.createRoom("ABC123")
	s.sender.reset()

	s.Require().NoError(s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: 3,
		Running:       true,
	}))

	s.Require().Eventually(func() bool {
		return len(s.sender.ofType(model.EventTimerUpdate)) >= 4
	}, time.Second, 5*time.Millisecond)

	// Initial write plus one broadcast per second of countdown
	seen := []model.TimerState{}
	for _, e := range s.sender.ofType(model.EventTimerUpdate) {
		seen = append(seen, e.Payload.(model.TimerState))
	}
	s.Equal([]model.TimerState{
		{RemainingTime: 3, Running: true},
		{RemainingTime: 2, Running: true},
		{RemainingTime: 1, Running: true},
		{RemainingTime: 0, Running: false},
	}, seen[:4])
}

func (s *CoordinatorSuite) TestPausingStopsTheCountdown() {
	code, _ := s.createRoom("ABC123")

	s.Require().NoError(s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: 1000,
		Running:       true,
	}))

	s.Require().NoError(s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: 500,
		Running:       false,
	}))

	room, _ := s.store.GetRoom(s.ctx, code)
	paused := room.TimerState

	// Give a stray task time to tick if one survived the pause
	time.Sleep(50 * time.Millisecond)

	room, _ = s.store.GetRoom(s.ctx, code)
	s.Equal(paused, room.TimerState)
	s.Equal(model.TimerState{RemainingTime: 500, Running: false}, room.TimerState)
}

func (s *CoordinatorSuite) TestNegativeRemainingTimeClampsToZero() {
	code, _ := s.createRoom("ABC123")
	s.sender.reset()

	s.Require().NoError(s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: -5,
		Running:       true,
	}))

	room, _ := s.store.GetRoom(s.ctx, code)
	s.Equal(model.TimerState{RemainingTime: 0, Running: false}, room.TimerState)

	update := s.sender.last(model.EventTimerUpdate)
	s.Require().NotNil(update)
	s.Equal(model.TimerState{RemainingTime: 0, Running: false}, update.Payload)
}

func (s *CoordinatorSuite) TestFinishedTaskOnlyDetachesItself() {
	runner := newTimerRunner(s.coordinator)
	stale := &timerTask{cancel: func() {}}
	current := &timerTask{cancel: func() {}}
	runner.tasks["ABC123"] = current

	// A task that was replaced mid-flight finishes late; the replacement's
	// entry must survive so Stop can still reach it
	runner.remove("ABC123", stale)
	s.Equal(current, runner.tasks["ABC123"])

	runner.remove("ABC123", current)
	s.Empty(runner.tasks)
}

func (s *CoordinatorSuite) TestZeroDurationTimerNeverRuns() {
	code, _ := s.createRoom("ABC123")
	s.sender.reset()

	s.Require().NoError(s.coordinator.UpdateTimer(s.ctx, "conn-1", model.TimerRequest{
		RoomID:        code,
		RemainingTime: 0,
		Running:       true,
	}))

	room, _ := s.store.GetRoom(s.ctx, code)
	s.Equal(model.TimerState{RemainingTime: 0, Running: false}, room.TimerState)
}
