package aggregator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func settledRoom(payout domain.PayoutType, players ...common.Address) fakeRoom {
	r := fakeRoom{
		rec:     record("1", "100", payout),
		players: players,
		stakes:  map[common.Address]*big.Int{},
	}
	r.rec.Closed = true
	r.rec.Settled = true
	for _, p := range players {
		r.stakes[p] = big.NewInt(10_000_000)
	}
	return r
}

func TestSettledRoomWinner(t *testing.T) {
	chain := &fakeChain{
		rooms:  []fakeRoom{settledRoom(domain.PayoutSingleWinner, addrA, addrB)},
		events: []domain.RoomSettledEvent{{RoomID: 0, Winners: []common.Address{addrA}}},
	}
	agg := New(chain, chain)

	rooms, err := agg.UserSettledRooms(context.Background(), addrA)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.True(t, rooms[0].IsWinner)
	require.Equal(t, 0, rooms[0].WinnerRank)
	require.Equal(t, big.NewInt(20_000_000), rooms[0].TotalPrize)

	rooms, err = agg.UserSettledRooms(context.Background(), addrB)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.False(t, rooms[0].IsWinner)
	require.Equal(t, -1, rooms[0].WinnerRank)
}

func TestSettledRoomsSkipNonPlayersAndUnsettled(t *testing.T) {
	unsettled := settledRoom(domain.PayoutSingleWinner, addrA)
	unsettled.rec.Settled = false
	chain := &fakeChain{
		rooms: []fakeRoom{
			settledRoom(domain.PayoutSingleWinner, addrB),
			unsettled,
		},
		events: []domain.RoomSettledEvent{
			{RoomID: 0, Winners: []common.Address{addrB}},
			{RoomID: 1, Winners: []common.Address{addrA}},
			{RoomID: 9, Winners: []common.Address{addrA}},
		},
	}

	rooms, err := New(chain, chain).UserSettledRooms(context.Background(), addrA)
	require.NoError(t, err)
	require.Empty(t, rooms)
}

func TestSettledRoomsDedupeKeepsLastEvent(t *testing.T) {
	chain := &fakeChain{
		rooms: []fakeRoom{settledRoom(domain.PayoutSingleWinner, addrA, addrB)},
		events: []domain.RoomSettledEvent{
			{RoomID: 0, Winners: []common.Address{addrB}},
			{RoomID: 0, Winners: []common.Address{addrA}},
		},
	}

	rooms, err := New(chain, chain).UserSettledRooms(context.Background(), addrA)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.True(t, rooms[0].IsWinner)
}

func TestSettledRoomsEventSourceDown(t *testing.T) {
	chain := &fakeChain{eventsErr: errors.New("rpc down")}

	rooms, err := New(chain, chain).UserSettledRooms(context.Background(), addrA)
	require.ErrorIs(t, err, domain.ErrUnavailable)
	require.Empty(t, rooms)
}

func TestUserActiveRooms(t *testing.T) {
	closed := twoPlayerRoom()
	closed.rec.Closed = true
	other := fakeRoom{rec: record("1", "2", domain.PayoutSingleWinner), players: []common.Address{addrC}}
	chain := &fakeChain{rooms: []fakeRoom{twoPlayerRoom(), closed, other}}

	res, err := New(chain, chain).GetUserRooms(context.Background(), addrA, UserRoomsQuery{})
	require.NoError(t, err)
	require.Len(t, res.Active, 1)
	require.Equal(t, uint64(0), res.Active[0].ID)
	require.Nil(t, res.Settled)
}

func TestPayout(t *testing.T) {
	prize := big.NewInt(100_000_000)

	require.Equal(t, prize, Payout(prize, domain.PayoutSingleWinner, 0, SplitRanked))
	require.Equal(t, big.NewInt(50_000_000), Payout(prize, domain.PayoutTop3, 0, SplitRanked))
	require.Equal(t, big.NewInt(30_000_000), Payout(prize, domain.PayoutTop3, 1, SplitRanked))
	require.Equal(t, big.NewInt(20_000_000), Payout(prize, domain.PayoutTop3, 2, SplitRanked))
	require.Equal(t, big.NewInt(33_333_333), Payout(prize, domain.PayoutTop3, 2, SplitEqualThirds))
	require.Equal(t, new(big.Int), Payout(prize, domain.PayoutTop3, -1, SplitRanked))
	require.Equal(t, new(big.Int), Payout(prize, domain.PayoutSingleWinner, 1, SplitRanked))
}

func TestCalculateWinnings(t *testing.T) {
	chain := &fakeChain{
		rooms: []fakeRoom{
			settledRoom(domain.PayoutSingleWinner, addrA, addrB),
			settledRoom(domain.PayoutTop3, addrA, addrB, addrC, addrD),
			settledRoom(domain.PayoutSingleWinner, addrA, addrB),
		},
		events: []domain.RoomSettledEvent{
			{RoomID: 0, Winners: []common.Address{addrA}},
			{RoomID: 1, Winners: []common.Address{addrC, addrA, addrB}},
			{RoomID: 2, Winners: []common.Address{addrB}},
		},
	}
	ctx := context.Background()

	// room 0: 20 whole, room 1: 30% of 40, room 2: lost
	ranked, err := New(chain, chain).CalculateWinnings(ctx, addrA)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(32_000_000), ranked)

	thirds, err := New(chain, chain, WithSplitPolicy(SplitEqualThirds)).CalculateWinnings(ctx, addrA)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(33_333_333), thirds)
}

func TestParseSplitPolicy(t *testing.T) {
	p, err := ParseSplitPolicy("")
	require.NoError(t, err)
	require.Equal(t, SplitRanked, p)

	p, err = ParseSplitPolicy("equal_thirds")
	require.NoError(t, err)
	require.Equal(t, SplitEqualThirds, p)

	_, err = ParseSplitPolicy("half")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
