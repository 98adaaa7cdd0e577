package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/gamehub/pokerroom/internal/game"
)

const redisKeyPrefix = "pokerroom:room:"

// RedisStore persists rooms as JSON values in Redis. Suitable when several
// gateway processes share the same set of rooms.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(id game.RoomID) string {
	return redisKeyPrefix + string(id)
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(room.ID), data, 0).Err()
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id game.RoomID) (*game.Room, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	room := &game.Room{}
	if err := json.Unmarshal(data, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id game.RoomID) error {
	return s.client.Del(ctx, redisKey(id)).Err()
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]game.RoomID, error) {
	var (
		ids    []game.RoomID
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ids = append(ids, game.RoomID(strings.TrimPrefix(key, redisKeyPrefix)))
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
