package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// timerRunner owns the server-side countdown tasks, at most one per room.
// The server is authoritative for the timer: once running, a task advances
// remainingTime every tick, persists, and broadcasts timerUpdate until the
// countdown hits zero or the room goes away.
type timerRunner struct {
	c *Coordinator

	mu    sync.Mutex
	tasks map[model.RoomCode]*timerTask
	wg    sync.WaitGroup
}

// timerTask is the bookkeeping handle for one countdown goroutine. Each
// goroutine holds its own handle so a replaced task can never detach its
// successor's map entry on the way out.
type timerTask struct {
	cancel context.CancelFunc
}

func newTimerRunner(c *Coordinator) *timerRunner {
	return &timerRunner{
		c:     c,
		tasks: make(map[model.RoomCode]*timerTask),
	}
}

// Start launches the countdown task for a room, replacing any existing one
func (t *timerRunner) Start(code model.RoomCode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task, ok := t.tasks[code]; ok {
		task.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := &timerTask{cancel: cancel}
	t.tasks[code] = task

	t.wg.Add(1)
	go t.run(ctx, code, task)
}

// Stop cancels the countdown task for a room, if one is running
func (t *timerRunner) Stop(code model.RoomCode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task, ok := t.tasks[code]; ok {
		task.cancel()
		delete(t.tasks, code)
	}
}

// StopAll cancels every countdown task and waits for them to exit
func (t *timerRunner) StopAll() {
	t.mu.Lock()
	for code, task := range t.tasks {
		task.cancel()
		delete(t.tasks, code)
	}
	t.mu.Unlock()

	t.wg.Wait()
}

// run is the per-room countdown loop
func (t *timerRunner) run(ctx context.Context, code model.RoomCode, task *timerTask) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.c.cfg.TimerTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			done, err := t.tick(ctx, code)
			if err != nil {
				if !errors.Is(err, model.ErrRoomNotFound) {
					t.c.logger.Error("timer tick failed",
						slog.String("room", string(code)),
						slog.String("error", err.Error()))
				}
				t.remove(code, task)
				return
			}
			if done {
				t.remove(code, task)
				return
			}
		}
	}
}

// tick advances the countdown one step under the room lock.
// It reports done=true when the timer has stopped, either because the
// countdown reached zero or because a client paused it.
func (t *timerRunner) tick(ctx context.Context, code model.RoomCode) (bool, error) {
	unlock := t.c.locks.Lock(code)
	defer unlock()

	room, err := t.c.store.GetRoom(ctx, code)
	if err != nil {
		return false, err
	}

	if !room.TimerState.Running {
		return true, nil
	}

	room.TimerState.RemainingTime--
	if room.TimerState.RemainingTime <= 0 {
		room.TimerState.RemainingTime = 0
		room.TimerState.Running = false
	}
	room.UpdatedAt = t.c.clock.Now()

	if err := t.c.store.SaveRoom(ctx, room); err != nil {
		return false, err
	}

	t.c.sender.ToRoom(code, model.EventTimerUpdate, room.TimerState)

	return !room.TimerState.Running, nil
}

// remove clears a task's own bookkeeping entry. A replaced task finishing
// late finds a different handle under its code and leaves it alone.
func (t *timerRunner) remove(code model.RoomCode, task *timerTask) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tasks[code] == task {
		delete(t.tasks, code)
	}
}
