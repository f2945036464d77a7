// Package indexer follows RoomSettled logs and fans them out to the
// settlement index, the event bus and the room feed.
package indexer

import (
	"context"
	"fmt"
	"time"

	"betting-service/domain"
	redisinfra "betting-service/infra/redis"

	"go.uber.org/zap"
)

const cursorName = "room_settled"

type LogSource interface {
	FilterRoomSettled(ctx context.Context, from uint64, to *uint64) ([]domain.RoomSettledEvent, error)
}

type Head interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

type Store interface {
	Cursor(ctx context.Context, name string) (uint64, bool, error)
	SetCursor(ctx context.Context, name string, block uint64) error
	SaveSettlement(ctx context.Context, ev domain.RoomSettledEvent) (bool, error)
}

type EventPublisher interface {
	PublishRoomSettled(ctx context.Context, ev domain.RoomSettledEvent) error
}

type RoomNotifier interface {
	PublishMessage(ctx context.Context, roomID uint64, msgType string, data interface{})
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, roomID uint64) error
}

type Config struct {
	StartBlock   uint64
	Chunk        uint64
	PollInterval time.Duration
}

type Indexer struct {
	logs  LogSource
	head  Head
	store Store
	cfg   Config

	publisher EventPublisher
	notifier  RoomNotifier
	cache     CacheInvalidator
}

type Option func(*Indexer)

func WithPublisher(p EventPublisher) Option { return func(i *Indexer) { i.publisher = p } }
func WithNotifier(n RoomNotifier) Option { return func(i *Indexer) { i.notifier = n } }
func WithInvalidator(c CacheInvalidator) Option { return func(i *Indexer) { i.cache = c } }

func New(logs LogSource, head Head, store Store, cfg Config, opts ...Option) *Indexer {
	if cfg.Chunk == 0 {
		cfg.Chunk = 5000
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	i := &Indexer{logs: logs, head: head, store: store, cfg: cfg}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run polls until ctx is cancelled. A failed poll is logged and retried on
// the next tick.
func (i *Indexer) Run(ctx context.Context) {
	ticker := time.NewTicker(i.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if n, err := i.Poll(ctx); err != nil {
			zap.L().Warn("Settlement poll failed", zap.Error(err))
		} else if n > 0 {
			zap.L().Info("Indexed settlements", zap.Int("count", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll indexes everything between the stored cursor and the chain head and
// returns how many new settlements were stored.
func (i *Indexer) Poll(ctx context.Context) (int, error) {
	head, err := i.head.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: head block: %v", domain.ErrUnavailable, err)
	}

	from := i.cfg.StartBlock
	last, ok, err := i.store.Cursor(ctx, cursorName)
	if err != nil {
		return 0, err
	}
	if ok {
		from = last + 1
	}

	stored := 0
	for from <= head {
		to := from + i.cfg.Chunk - 1
		if to > head {
			to = head
		}
		events, err := i.logs.FilterRoomSettled(ctx, from, &to)
		if err != nil {
			return stored, fmt.Errorf("%w: logs %d-%d: %v", domain.ErrUnavailable, from, to, err)
		}
		for _, ev := range events {
			inserted, err := i.store.SaveSettlement(ctx, ev)
			if err != nil {
				return stored, err
			}
			if inserted {
				stored++
				i.fanOut(ctx, ev)
			}
		}
		if err := i.store.SetCursor(ctx, cursorName, to); err != nil {
			return stored, err
		}
		from = to + 1
	}
	return stored, nil
}

func (i *Indexer) fanOut(ctx context.Context, ev domain.RoomSettledEvent) {
	if i.cache != nil {
		if err := i.cache.Invalidate(ctx, ev.RoomID); err != nil {
			zap.L().Warn("Failed to invalidate room cache", zap.Uint64("room_id", ev.RoomID), zap.Error(err))
		}
	}
	if i.publisher != nil {
		if err := i.publisher.PublishRoomSettled(ctx, ev); err != nil {
			zap.L().Warn("Failed to publish settlement", zap.Uint64("room_id", ev.RoomID), zap.Error(err))
		}
	}
	if i.notifier != nil {
		i.notifier.PublishMessage(ctx, ev.RoomID, redisinfra.MsgRoomSettled, ev)
	}
}
