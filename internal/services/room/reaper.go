package room

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Reaper periodically sweeps every room, evicting players whose disconnect
// outlived the grace period and deleting rooms left with no players.
// Disconnect only marks players; this is the component that actually
// removes them.
type Reaper struct {
	coordinator *Coordinator
	interval    time.Duration
	logger      *slog.Logger
}

// NewReaper creates a Reaper sweeping at the given interval
func NewReaper(coordinator *Coordinator, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		coordinator: coordinator,
		interval:    interval,
		logger:      logger.With(slog.String("component", "reaper")),
	}
}

// Run sweeps on a fixed interval until the context is cancelled
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("reaper started", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			if err := r.coordinator.Sweep(ctx); err != nil {
				r.logger.Error("sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Sweep runs one pass over every room record
func (c *Coordinator) Sweep(ctx context.Context) error {
	codes, err := c.store.ListRoomCodes(ctx)
	if err != nil {
		return err
	}

	for _, code := range codes {
		if err := c.sweepRoom(ctx, code); err != nil {
			// One bad room must not stop the sweep
			c.logger.Error("room sweep failed",
				slog.String("room", string(code)),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// sweepRoom evicts overdue players from one room and deletes it when empty
func (c *Coordinator) sweepRoom(ctx context.Context, code model.RoomCode) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.store.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			// Expired between listing and loading
			return nil
		}
		return err
	}

	now := c.clock.Now()
	kept := room.Players[:0]
	evicted := 0
	for _, p := range room.Players {
		if !p.Connected() && p.DisconnectTime != nil && now.Sub(*p.DisconnectTime) > c.cfg.GracePeriod {
			evicted++
			continue
		}
		kept = append(kept, p)
	}

	if evicted == 0 {
		return nil
	}

	if len(kept) == 0 {
		c.timers.Stop(code)
		if err := c.store.DeleteRoom(ctx, code); err != nil {
			return err
		}
		c.logger.Info("empty room deleted", slog.String("room", string(code)))
		return nil
	}

	room.Players = kept
	room.UpdatedAt = now
	if err := c.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.sender.ToRoom(code, model.EventPlayerUpdate, model.PlayerUpdatePayload{Players: room.Players})

	c.logger.Info("stale players evicted",
		slog.String("room", string(code)),
		slog.Int("evicted", evicted))
	return nil
}
