package factory

import (
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/dependencies/clock"
	"github.com/quickdraw-game/quickdraw-go/internal/dependencies/random"
	"github.com/quickdraw-game/quickdraw-go/internal/services/challenge"
	"github.com/quickdraw-game/quickdraw-go/internal/services/room"
	"github.com/quickdraw-game/quickdraw-go/internal/storage"
	"github.com/quickdraw-game/quickdraw-go/internal/testutil"
)

// NewForTesting wires an App around injected dependencies so tests can
// control time, randomness, storage, and challenge generation.
func NewForTesting(
	store storage.RoomStore,
	clk clock.Clock,
	rnd random.Random,
	generator challenge.Generator,
	roomCfg room.Config,
) *App {
	return newWithDependencies(store, clk, rnd, generator, roomCfg, time.Minute, testutil.NopLogger())
}
