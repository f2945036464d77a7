package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisManager publishes room notices and serves the room cache.
type RedisManager struct {
	client *redis.Client
}

// PubSubMessage is the payload sent on a room channel.
type PubSubMessage struct {
	Type      string      `json:"type"`
	RoomID    uint64      `json:"roomId"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// MsgRoomSettled is published on a room channel once its settlement is indexed.
const MsgRoomSettled = "room_settled"

func NewRedisManager(ctx context.Context, redisAddr string, password string, db int) (*RedisManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", redisAddr, err)
	}

	return &RedisManager{client: rdb}, nil
}

func (rm *RedisManager) GetRedisClient() *redis.Client {
	return rm.client
}

func (rm *RedisManager) Close() error {
	return rm.client.Close()
}

// RoomChannel names the pub/sub channel for one room.
func RoomChannel(roomID uint64) string {
	return fmt.Sprintf("room:%d", roomID)
}

func EncodeMessage(roomID uint64, msgType string, data interface{}, at time.Time) ([]byte, error) {
	return json.Marshal(PubSubMessage{
		Type:      msgType,
		RoomID:    roomID,
		Data:      data,
		Timestamp: at.UTC(),
	})
}

func (rm *RedisManager) PublishMessage(ctx context.Context, roomID uint64, msgType string, data interface{}) {
	payload, err := EncodeMessage(roomID, msgType, data, time.Now())
	if err != nil {
		zap.L().Error("Failed to marshal Redis message", zap.Error(err))
		return
	}

	channel := RoomChannel(roomID)
	if err := rm.client.Publish(ctx, channel, payload).Err(); err != nil {
		zap.L().Error("Failed to publish message to Redis channel",
			zap.String("channel", channel), zap.Error(err))
	}
}
