package bootstrap

import (
	"context"
	"time"

	"betting-service/config"
	"betting-service/internal/aggregator"
	"betting-service/internal/initializer"
	"betting-service/internal/server"
	"betting-service/pkg/graceful"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	config       config.Config
	ctx          context.Context
	cancel       context.CancelFunc
	chain        *initializer.Chain
	aggregator   *aggregator.Aggregator
	postgresRepo PostgresRepository
	roomRedis    RoomRedisManager
	kafka        Messaging
	wsHub        Hub
	fiberApp     *fiber.App
	httpHandlers map[string]interface{}
	wsHandlers   map[string]interface{}
	closers      []func() error
}

func NewApp(config config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
	app.initDependencies()
	return app
}

func (a *App) initDependencies() {
	a.chain = initializer.InitChain(a.ctx, a.config)
	a.closers = append(a.closers, func() error { a.chain.Client.Close(); return nil })

	if a.config.Postgres.Enabled {
		repo := InitDatabase(a.config)
		a.postgresRepo = repo
		a.closers = append(a.closers, repo.Close)
	}
	if a.config.RoomRedis.Enabled {
		redisManager := InitRoomRedis(a.ctx, a.config)
		a.roomRedis = redisManager
		a.closers = append(a.closers, redisManager.Close)
		a.wsHub = InitWebsocket(a.ctx, redisManager)
	}
	if a.config.Kafka.Enabled {
		publisher := SetupMessaging(a.config)
		a.kafka = publisher
		a.closers = append(a.closers, publisher.Close)
	}

	a.aggregator = SetupAggregator(a.config, a.chain, a.postgresRepo, a.roomRedis)
	if a.config.Indexer.Enabled {
		SetupIndexer(a.ctx, a.config, a.chain, a.postgresRepo, a.kafka, a.roomRedis)
	}

	a.httpHandlers = SetupHTTPHandlers(a.aggregator, a.chain.Rooms)
	a.wsHandlers = SetupWSHandlers(a.wsHub, a.aggregator)
	a.fiberApp = SetupServer(a.config, a.httpHandlers, a.wsHandlers)
}

func (a *App) Start() {
	go func() {
		if err := server.Start(a.fiberApp, a.config.Server.Host, a.config.Server.Port); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", a.config.Server.Port))

	defer func() {
		a.cancel()
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				zap.L().Error("Failed to close dependency", zap.Error(err))
			}
		}
	}()

	graceful.WaitForShutdown(a.fiberApp, 5*time.Second, a.ctx)
}
