package hub

import (
	"context"

	redisinfra "betting-service/infra/redis"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads room notices from the room:<id> pub/sub channels.
type RedisSource struct {
	client *redis.Client
}

func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{client: client}
}

func (s *RedisSource) Subscribe(ctx context.Context, roomID uint64) (<-chan []byte, func()) {
	pubsub := s.client.Subscribe(ctx, redisinfra.RoomChannel(roomID))
	out := make(chan []byte, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			out <- []byte(msg.Payload)
		}
	}()
	return out, func() { _ = pubsub.Close() }
}
