package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/dependencies/clock"
	"github.com/quickdraw-game/quickdraw-go/internal/dependencies/random"
	"github.com/quickdraw-game/quickdraw-go/internal/registry"
	"github.com/quickdraw-game/quickdraw-go/internal/services/challenge"
	"github.com/quickdraw-game/quickdraw-go/internal/services/room"
	"github.com/quickdraw-game/quickdraw-go/internal/storage"
	"github.com/quickdraw-game/quickdraw-go/internal/storage/memory"
	redisstorage "github.com/quickdraw-game/quickdraw-go/internal/storage/redis"
	"github.com/quickdraw-game/quickdraw-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.RoomStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Core
	Registry    *registry.Registry
	Generator   challenge.Generator
	Hub         *ws.Hub
	Coordinator *room.Coordinator
	Reaper      *room.Reaper
	Gateway     *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional; no-op if nil)
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis").
	// If empty, defaults to "memory".
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ChallengeConfig holds settings for the challenge generator.
	// If zero value, defaults to challenge.DefaultConfig().
	ChallengeConfig challenge.Config
	// RoomConfig holds coordinator settings (grace period, timer tick).
	// If zero value, defaults to room.DefaultConfig().
	RoomConfig room.Config
	// ReapInterval is how often the reaper sweeps; defaults to 30s
	ReapInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.RoomStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	challengeCfg := cfg.ChallengeConfig
	if challengeCfg.BaseURL == "" {
		challengeCfg = challenge.DefaultConfig()
	}

	roomCfg := cfg.RoomConfig
	if roomCfg.GracePeriod == 0 {
		roomCfg = room.DefaultConfig()
	}

	reapInterval := cfg.ReapInterval
	if reapInterval == 0 {
		reapInterval = 30 * time.Second
	}

	clk := clock.New()
	rnd := random.New()
	generator := challenge.New(challengeCfg, logger)

	return newWithDependencies(store, clk, rnd, generator, roomCfg, reapInterval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.RoomStore,
	clk clock.Clock,
	rnd random.Random,
	generator challenge.Generator,
	roomCfg room.Config,
	reapInterval time.Duration,
	logger *slog.Logger,
) *App {
	reg := registry.New()
	hub := ws.NewHub(logger)
	coordinator := room.NewCoordinator(store, reg, generator, hub, clk, rnd, roomCfg, logger)
	reaper := room.NewReaper(coordinator, reapInterval, logger)
	gateway := ws.NewGateway(hub, coordinator, logger)

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Registry:    reg,
		Generator:   generator,
		Hub:         hub,
		Coordinator: coordinator,
		Reaper:      reaper,
		Gateway:     gateway,
	}
}
