package aggregator

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type UserRoomsQuery struct {
	Settled bool
}

// UserRooms holds either the active or the settled rooms of a user,
// depending on the query.
type UserRooms struct {
	Active  []domain.Room
	Settled []domain.SettledRoom
}

func (a *Aggregator) GetUserRooms(ctx context.Context, user common.Address, q UserRoomsQuery) (UserRooms, error) {
	if q.Settled {
		rooms, err := a.UserSettledRooms(ctx, user)
		return UserRooms{Settled: rooms}, err
	}
	rooms, err := a.UserActiveRooms(ctx, user)
	return UserRooms{Active: rooms}, err
}

// UserActiveRooms returns the rooms user has joined that are neither closed
// nor settled.
func (a *Aggregator) UserActiveRooms(ctx context.Context, user common.Address) ([]domain.Room, error) {
	all, err := a.ListRooms(ctx, FilterActive)
	if err != nil {
		return []domain.Room{}, err
	}
	rooms := make([]domain.Room, 0)
	for i := range all {
		if all[i].HasPlayer(user) {
			rooms = append(rooms, all[i])
		}
	}
	return rooms, nil
}

// UserSettledRooms walks RoomSettled events and returns the settled rooms user
// played in, with the winners taken from the event.
func (a *Aggregator) UserSettledRooms(ctx context.Context, user common.Address) ([]domain.SettledRoom, error) {
	if a.settlements == nil {
		return []domain.SettledRoom{}, fmt.Errorf("%w: settlement source not configured", domain.ErrUnavailable)
	}
	events, err := a.settlements.SettledEvents(ctx)
	if err != nil {
		zap.L().Error("Failed to read settlement events", zap.Error(err))
		return []domain.SettledRoom{}, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	var (
		mu    sync.Mutex
		rooms = make([]domain.SettledRoom, 0)
		g     errgroup.Group
	)
	g.SetLimit(a.concurrency)
	for _, ev := range latestPerRoom(events) {
		g.Go(func() error {
			room, err := a.loadRoom(ctx, ev.RoomID)
			if err != nil {
				zap.L().Warn("Skipping settled room", zap.Uint64("room_id", ev.RoomID), zap.Error(err))
				return nil
			}
			if !room.HasPlayer(user) || !room.Settled {
				return nil
			}
			settled := NewSettledRoom(room, ev, user)
			mu.Lock()
			rooms = append(rooms, settled)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sortByID(rooms)
	return rooms, nil
}

// NewSettledRoom combines a loaded room with its settlement event from the
// point of view of user. The prize is the sum of every stake in the room.
func NewSettledRoom(room *domain.Room, ev domain.RoomSettledEvent, user common.Address) domain.SettledRoom {
	rank := ev.Rank(user)
	return domain.SettledRoom{
		Room:       *room,
		Winners:    ev.Winners,
		IsWinner:   rank >= 0,
		WinnerRank: rank,
		TotalPrize: new(big.Int).Set(room.TotalPool),
	}
}

// latestPerRoom keeps the last event for every room, ordered by first
// appearance.
func latestPerRoom(events []domain.RoomSettledEvent) []domain.RoomSettledEvent {
	index := make(map[uint64]int, len(events))
	out := make([]domain.RoomSettledEvent, 0, len(events))
	for _, ev := range events {
		if i, ok := index[ev.RoomID]; ok {
			out[i] = ev
			continue
		}
		index[ev.RoomID] = len(out)
		out = append(out, ev)
	}
	return out
}
