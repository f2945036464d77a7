package initializer

import (
	"context"

	"betting-service/internal/api/ws/hub"

	"github.com/redis/go-redis/v9"
)

func InitWebsocket(ctx context.Context, client *redis.Client) *hub.Hub {
	roomHub := hub.NewHub(hub.NewRedisSource(client))
	roomHub.Run(ctx)
	return roomHub
}
