package initializer

import (
	"context"
	"fmt"

	"betting-service/config"
	"betting-service/infra/redis"

	"go.uber.org/zap"
)

func InitRoomRedis(ctx context.Context, appConfig config.Config) *redis.RedisManager {
	address := fmt.Sprintf("%s:%s", appConfig.RoomRedis.Host, appConfig.RoomRedis.Port)

	redisManager, err := redis.NewRedisManager(ctx, address, appConfig.RoomRedis.Password, appConfig.RoomRedis.DB)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	return redisManager
}
