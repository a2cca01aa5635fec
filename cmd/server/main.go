package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quickdraw-game/quickdraw-go/internal/api"
	"github.com/quickdraw-game/quickdraw-go/internal/factory"
	"github.com/quickdraw-game/quickdraw-go/internal/services/challenge"
	"github.com/quickdraw-game/quickdraw-go/internal/services/room"
	redisstorage "github.com/quickdraw-game/quickdraw-go/internal/storage/redis"
)

const envPrefix = "QUICKDRAW"

var rootCmd = &cobra.Command{
	Use:   "quickdraw-server",
	Short: "Room session coordinator for two-player drawing matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int("port", 3000, "HTTP listen port")
	flags.String("storage", factory.StorageTypeMemory, "Storage backend (memory or redis)")
	flags.String("redis-url", "redis://localhost:6379", "Redis connection URL")
	flags.Duration("room-ttl", 2*time.Hour, "Room record TTL in the store")
	flags.Duration("grace-period", time.Minute, "How long a disconnected player's slot is preserved")
	flags.Duration("reap-interval", 30*time.Second, "How often the reaper sweeps")
	flags.String("challenge-api-key", "", "API key for the challenge generator (empty disables it)")
	flags.String("challenge-model", "gemini-1.5-flash", "Generative model for challenge prompts")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	challengeCfg := challenge.DefaultConfig()
	challengeCfg.APIKey = viper.GetString("challenge-api-key")
	challengeCfg.Model = viper.GetString("challenge-model")

	roomCfg := room.DefaultConfig()
	roomCfg.GracePeriod = viper.GetDuration("grace-period")

	cfg := factory.Config{
		Logger:          logger,
		StorageType:     viper.GetString("storage"),
		ChallengeConfig: challengeCfg,
		RoomConfig:      roomCfg,
		ReapInterval:    viper.GetDuration("reap-interval"),
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = viper.GetString("redis-url")
		redisCfg.RoomTTL = viper.GetDuration("room-ttl")
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		return err
	}
	defer app.Coordinator.Close()

	var storeCheck api.HealthCheck
	if redisStore, ok := app.Store.(*redisstorage.Store); ok {
		storeCheck = redisStore.Ping
		defer func() { _ = redisStore.Close() }()
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Gateway:    app.Gateway,
		StoreCheck: storeCheck,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = viper.GetInt("port")
	server := api.NewServer(router, serverConfig, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Background sweep of abandoned rooms
	go app.Reaper.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
