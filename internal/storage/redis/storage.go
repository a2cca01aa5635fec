package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
	"github.com/quickdraw-game/quickdraw-go/internal/storage"
)

// Store is a Redis-backed implementation of the room store
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store instance
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Store implements the interface
var _ storage.RoomStore = (*Store)(nil)

// SaveRoom persists a room and refreshes its TTL
func (s *Store) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL).Err()
}

// GetRoom loads a room by code
func (s *Store) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room record
func (s *Store) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, roomKey(code)).Err()
}

// RoomExists reports whether a room record is present
func (s *Store) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// ListRoomCodes returns the codes of all live rooms via SCAN
func (s *Store) ListRoomCodes(ctx context.Context) ([]model.RoomCode, error) {
	var codes []model.RoomCode

	iter := s.client.Scan(ctx, 0, roomKeyPattern(), 0).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, codeFromKey(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}
