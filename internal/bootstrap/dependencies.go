package bootstrap

import (
	"context"
	"time"

	"betting-service/config"
	"betting-service/domain"
	"betting-service/infra/chain"
	redisinfra "betting-service/infra/redis"
	"betting-service/internal/aggregator"
	"betting-service/internal/api/ws/hub"
	"betting-service/internal/indexer"
	"betting-service/internal/initializer"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type PostgresRepository interface {
	Close() error
	SettledEvents(ctx context.Context) ([]domain.RoomSettledEvent, error)
	SaveSettlement(ctx context.Context, ev domain.RoomSettledEvent) (bool, error)
	Cursor(ctx context.Context, name string) (uint64, bool, error)
	SetCursor(ctx context.Context, name string, block uint64) error
}

type RoomRedisManager interface {
	Close() error
	GetRedisClient() *redis.Client
	PublishMessage(ctx context.Context, roomID uint64, msgType string, data interface{})
}

type Messaging interface {
	Close() error
	PublishRoomSettled(ctx context.Context, ev domain.RoomSettledEvent) error
}

type Hub interface {
	Run(ctx context.Context)
	RegisterClient(client *hub.Client)
	UnregisterClient(client *hub.Client)
	RoomClientCount(roomID uint64) int
}

func InitDatabase(config config.Config) PostgresRepository {
	return initializer.InitDatabase(config)
}

func InitRoomRedis(ctx context.Context, config config.Config) RoomRedisManager {
	return initializer.InitRoomRedis(ctx, config)
}

func InitWebsocket(ctx context.Context, redisManager RoomRedisManager) Hub {
	return initializer.InitWebsocket(ctx, redisManager.GetRedisClient())
}

func SetupMessaging(config config.Config) Messaging {
	return initializer.InitMessaging(config)
}

func roomCache(config config.Config, redisManager RoomRedisManager) *redisinfra.RoomCache {
	if redisManager == nil {
		return nil
	}
	return redisinfra.NewRoomCache(redisManager.GetRedisClient(), config.RoomRedis.TTL)
}

// SetupAggregator reads settlement history from the postgres index when the
// indexer keeps it filled, and straight from chain logs otherwise.
func SetupAggregator(config config.Config, c *initializer.Chain, repo PostgresRepository, redisManager RoomRedisManager) *aggregator.Aggregator {
	var settlements aggregator.SettlementSource = &chain.SettlementLog{Rooms: c.Rooms, FromBlock: config.Chain.StartBlock, Chunk: config.Chain.LogChunk}
	if repo != nil && config.Indexer.Enabled {
		settlements = repo
	}

	policy, err := aggregator.ParseSplitPolicy(config.Aggregator.Top3Split)
	if err != nil {
		zap.L().Warn("Unknown top3_split, using ranked", zap.Error(err))
		policy = aggregator.SplitRanked
	}

	opts := []aggregator.Option{
		aggregator.WithConcurrency(config.Aggregator.Concurrency),
		aggregator.WithSplitPolicy(policy),
		aggregator.WithBalances(c.Rooms, c.Token),
	}
	if cache := roomCache(config, redisManager); cache != nil {
		opts = append(opts, aggregator.WithCache(cache))
	}
	return aggregator.New(c.Rooms, settlements, opts...)
}

func SetupIndexer(ctx context.Context, config config.Config, c *initializer.Chain, repo PostgresRepository, kafka Messaging, redisManager RoomRedisManager) {
	if repo == nil {
		zap.L().Warn("Indexer enabled without postgres, not starting")
		return
	}
	var opts []indexer.Option
	if kafka != nil {
		opts = append(opts, indexer.WithPublisher(kafka))
	}
	if redisManager != nil {
		opts = append(opts, indexer.WithNotifier(redisManager))
		opts = append(opts, indexer.WithInvalidator(roomCache(config, redisManager)))
	}
	if config.Indexer.PollInterval <= 0 {
		config.Indexer.PollInterval = 15 * time.Second
	}
	initializer.InitIndexer(ctx, config, c.Rooms, c.Client, repo, opts...)
}
