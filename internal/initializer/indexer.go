package initializer

import (
	"context"

	"betting-service/config"
	"betting-service/internal/indexer"

	"go.uber.org/zap"
)

func InitIndexer(ctx context.Context, appConfig config.Config, logs indexer.LogSource, head indexer.Head, store indexer.Store, opts ...indexer.Option) *indexer.Indexer {
	idx := indexer.New(logs, head, store, indexer.Config{
		StartBlock:   appConfig.Chain.StartBlock,
		Chunk:        appConfig.Chain.LogChunk,
		PollInterval: appConfig.Indexer.PollInterval,
	}, opts...)

	go idx.Run(ctx)
	zap.L().Info("Settlement indexer started",
		zap.Uint64("start_block", appConfig.Chain.StartBlock),
		zap.Duration("poll_interval", appConfig.Indexer.PollInterval))
	return idx
}
