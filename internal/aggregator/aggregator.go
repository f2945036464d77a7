// Package aggregator rebuilds room state from individual contract reads.
//
// Listings are best effort: a room that fails to load is logged and skipped,
// a player stake that fails to load is skipped and the room is flagged with
// StakesIncomplete. Nothing is read atomically, so TotalPool reflects the
// chain at the moment each stake call ran.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RoomReader interface {
	NextRoomID(ctx context.Context) (uint64, error)
	Room(ctx context.Context, roomID uint64) (domain.RoomRecord, error)
	RoomPlayers(ctx context.Context, roomID uint64) ([]common.Address, error)
	PlayerStake(ctx context.Context, roomID uint64, player common.Address) (*big.Int, error)
}

type BalanceReader interface {
	WithdrawableBalance(ctx context.Context, user common.Address) (*big.Int, error)
}

type TokenReader interface {
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// SettlementSource lists every RoomSettled event seen so far.
type SettlementSource interface {
	SettledEvents(ctx context.Context) ([]domain.RoomSettledEvent, error)
}

// RoomCache holds fully loaded rooms for a short time. Implementations must be
// safe for concurrent use.
type RoomCache interface {
	GetRoom(ctx context.Context, roomID uint64) (*domain.Room, bool)
	SetRoom(ctx context.Context, room *domain.Room)
}

type Filter string

const (
	FilterAll     Filter = "all"
	FilterActive  Filter = "active"
	FilterClosed  Filter = "closed"
	FilterSettled Filter = "settled"
)

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, FilterClosed, FilterSettled:
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: unknown room status %q", domain.ErrInvalidInput, s)
}

func (f Filter) match(r *domain.Room) bool {
	switch f {
	case FilterActive:
		return r.Status() == domain.RoomStatusActive
	case FilterClosed:
		return r.Status() == domain.RoomStatusClosed
	case FilterSettled:
		return r.Status() == domain.RoomStatusSettled
	default:
		return true
	}
}

type Aggregator struct {
	rooms       RoomReader
	settlements SettlementSource
	balances    BalanceReader
	token       TokenReader
	cache       RoomCache
	concurrency int
	split       SplitPolicy
	now         func() time.Time
}

type Option func(*Aggregator)

func WithCache(c RoomCache) Option {
	return func(a *Aggregator) { a.cache = c }
}

func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithSplitPolicy(p SplitPolicy) Option {
	return func(a *Aggregator) { a.split = p }
}

func WithBalances(b BalanceReader, t TokenReader) Option {
	return func(a *Aggregator) {
		a.balances = b
		a.token = t
	}
}

func New(rooms RoomReader, settlements SettlementSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		rooms:       rooms,
		settlements: settlements,
		concurrency: 4,
		split:       SplitRanked,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RoomCount returns nextRoomId, the number of rooms ever created.
func (a *Aggregator) RoomCount(ctx context.Context) (uint64, error) {
	n, err := a.rooms.NextRoomID(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return n, nil
}

// ListRooms loads every room matching filter, ordered by id. If the room count
// itself cannot be read the result is empty and the error is ErrUnavailable.
func (a *Aggregator) ListRooms(ctx context.Context, filter Filter) ([]domain.Room, error) {
	n, err := a.rooms.NextRoomID(ctx)
	if err != nil {
		zap.L().Error("Failed to read room count", zap.Error(err))
		return []domain.Room{}, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	loaded := make([]*domain.Room, n)
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i := uint64(0); i < n; i++ {
		g.Go(func() error {
			room, err := a.loadRoom(ctx, i)
			if err != nil {
				zap.L().Warn("Skipping room", zap.Uint64("room_id", i), zap.Error(err))
				return nil
			}
			loaded[i] = room
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return []domain.Room{}, err
	}

	rooms := make([]domain.Room, 0, len(loaded))
	for _, r := range loaded {
		if r != nil && filter.match(r) {
			rooms = append(rooms, *r)
		}
	}
	return rooms, nil
}

// GetRoom loads a single room. The room is nil whenever err is non-nil:
// ErrNotFound for ids that were never created, ErrUnavailable otherwise.
func (a *Aggregator) GetRoom(ctx context.Context, roomID uint64) (*domain.Room, error) {
	if a.cache != nil {
		if room, ok := a.cache.GetRoom(ctx, roomID); ok {
			return room, nil
		}
	}

	n, err := a.rooms.NextRoomID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if roomID >= n {
		return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, roomID)
	}

	room, err := a.loadRoom(ctx, roomID)
	if err != nil {
		zap.L().Warn("Failed to load room", zap.Uint64("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("%w: room %d: %v", domain.ErrUnavailable, roomID, err)
	}
	return room, nil
}

func (a *Aggregator) loadRoom(ctx context.Context, roomID uint64) (*domain.Room, error) {
	if a.cache != nil {
		if room, ok := a.cache.GetRoom(ctx, roomID); ok {
			return room, nil
		}
	}

	rec, err := a.rooms.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, err := a.rooms.RoomPlayers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	room := domain.NewRoom(roomID, rec)
	room.Players = players
	room.FetchedAt = a.now()
	for _, p := range players {
		stake, err := a.rooms.PlayerStake(ctx, roomID, p)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			zap.L().Warn("Skipping player stake",
				zap.Uint64("room_id", roomID),
				zap.String("player", p.Hex()),
				zap.Error(err))
			room.StakesIncomplete = true
			continue
		}
		room.TotalPool.Add(room.TotalPool, stake)
	}

	if a.cache != nil && !room.StakesIncomplete {
		a.cache.SetRoom(ctx, &room)
	}
	return &room, nil
}

func (a *Aggregator) PlayerStake(ctx context.Context, roomID uint64, player common.Address) (*big.Int, error) {
	return a.rooms.PlayerStake(ctx, roomID, player)
}

func (a *Aggregator) WithdrawableBalance(ctx context.Context, user common.Address) (*big.Int, error) {
	if a.balances == nil {
		return nil, fmt.Errorf("%w: balance reader not configured", domain.ErrUnavailable)
	}
	return a.balances.WithdrawableBalance(ctx, user)
}

func (a *Aggregator) TokenBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	if a.token == nil {
		return nil, fmt.Errorf("%w: token reader not configured", domain.ErrUnavailable)
	}
	return a.token.BalanceOf(ctx, account)
}

func sortByID(rooms []domain.SettledRoom) {
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
}
