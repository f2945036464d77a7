package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"betting-service/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const roomKeyPrefix = "betting:room:"

// RoomCache keeps aggregated rooms for a short TTL. Misses and redis errors
// both fall through to the chain.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomCache(client *redis.Client, ttl time.Duration) *RoomCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RoomCache{client: client, ttl: ttl}
}

func RoomKey(roomID uint64) string {
	return fmt.Sprintf("%s%d", roomKeyPrefix, roomID)
}

func (c *RoomCache) GetRoom(ctx context.Context, roomID uint64) (*domain.Room, bool) {
	raw, err := c.client.Get(ctx, RoomKey(roomID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("Room cache read failed", zap.Uint64("room_id", roomID), zap.Error(err))
		}
		return nil, false
	}
	var room domain.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		zap.L().Warn("Room cache entry is corrupt", zap.Uint64("room_id", roomID), zap.Error(err))
		return nil, false
	}
	return &room, true
}

func (c *RoomCache) SetRoom(ctx context.Context, room *domain.Room) {
	raw, err := json.Marshal(room)
	if err != nil {
		zap.L().Warn("Room cache encode failed", zap.Uint64("room_id", room.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, RoomKey(room.ID), raw, c.ttl).Err(); err != nil {
		zap.L().Warn("Room cache write failed", zap.Uint64("room_id", room.ID), zap.Error(err))
	}
}

func (c *RoomCache) Invalidate(ctx context.Context, roomID uint64) error {
	return c.client.Del(ctx, RoomKey(roomID)).Err()
}
