package chain

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

// fakeNode answers eth_call by packing canned outputs for the selected method.
// Methods that are not overridden panic through the nil embedded Backend.
type fakeNode struct {
	Backend
	abi     abi.ABI
	results map[string][]interface{}
	logs    []types.Log
	calls   []string
	head    uint64
	windows [][2]uint64
}

func (f *fakeNode) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := f.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, method.Name)
	out, ok := f.results[method.Name]
	if !ok {
		return nil, fmt.Errorf("no result for %s", method.Name)
	}
	return method.Outputs.Pack(out...)
}

func (f *fakeNode) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (f *fakeNode) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if q.ToBlock == nil {
		return f.logs, nil
	}
	from, to := q.FromBlock.Uint64(), q.ToBlock.Uint64()
	f.windows = append(f.windows, [2]uint64{from, to})
	var out []types.Log
	for _, l := range f.logs {
		if l.BlockNumber >= from && l.BlockNumber <= to {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeNode) BlockNumber(context.Context) (uint64, error) {
	return f.head, nil
}

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	alice        = common.HexToAddress("0x000000000000000000000000000000000000000a")
	bob          = common.HexToAddress("0x000000000000000000000000000000000000000b")
)

func TestRoomDecoding(t *testing.T) {
	node := &fakeNode{abi: BettingRoomsABI, results: map[string][]interface{}{
		"rooms": {big.NewInt(10_000_000), big.NewInt(100_000_000), big.NewInt(1_700_000_000), true, false, uint8(1)},
	}}
	rooms := NewBettingRooms(contractAddr, node)

	rec, err := rooms.Room(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10_000_000), rec.MinStake)
	require.Equal(t, big.NewInt(100_000_000), rec.MaxStake)
	require.Equal(t, int64(1_700_000_000), rec.SettlementTimestamp)
	require.True(t, rec.Closed)
	require.False(t, rec.Settled)
	require.Equal(t, domain.PayoutTop3, rec.PayoutType)
}

func TestPlayersAndStake(t *testing.T) {
	node := &fakeNode{abi: BettingRoomsABI, results: map[string][]interface{}{
		"nextRoomId":     {big.NewInt(2)},
		"getRoomPlayers": {[]common.Address{alice, bob}},
		"getPlayerStake": {big.NewInt(30_000_000)},
	}}
	rooms := NewBettingRooms(contractAddr, node)
	ctx := context.Background()

	n, err := rooms.NextRoomID(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)

	players, err := rooms.RoomPlayers(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []common.Address{alice, bob}, players)

	stake, err := rooms.PlayerStake(ctx, 0, alice)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(30_000_000), stake)

	require.Equal(t, []string{"nextRoomId", "getRoomPlayers", "getPlayerStake"}, node.calls)
}

func TestUsersWithBalances(t *testing.T) {
	node := &fakeNode{abi: BettingRoomsABI, results: map[string][]interface{}{
		"getAllUsersWithBalances": {[]common.Address{alice, bob}, []*big.Int{big.NewInt(5), big.NewInt(0)}},
	}}
	users, err := NewBettingRooms(contractAddr, node).UsersWithBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, alice, users[0].Address)
	require.Equal(t, big.NewInt(5), users[0].Balance)
}

func TestCallErrorIsWrapped(t *testing.T) {
	node := &fakeNode{abi: BettingRoomsABI, results: map[string][]interface{}{}}
	_, err := NewBettingRooms(contractAddr, node).Owner(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "owner")
}

func TestSettledEvents(t *testing.T) {
	event := BettingRoomsABI.Events[EventRoomSettled]
	data, err := event.Inputs.NonIndexed().Pack([]common.Address{bob, alice})
	require.NoError(t, err)

	node := &fakeNode{abi: BettingRoomsABI, logs: []types.Log{{
		Address:     contractAddr,
		Topics:      []common.Hash{event.ID, common.BigToHash(big.NewInt(7))},
		Data:        data,
		BlockNumber: 42,
		TxHash:      common.HexToHash("0x01"),
		Index:       3,
	}}}

	events, err := NewBettingRooms(contractAddr, node).FilterRoomSettled(context.Background(), 0, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, uint64(7), events[0].RoomID)
	require.Equal(t, []common.Address{bob, alice}, events[0].Winners)
	require.Equal(t, uint64(42), events[0].BlockNumber)
	require.Equal(t, uint(3), events[0].LogIndex)
	require.Equal(t, 1, events[0].Rank(alice))
}

func settledLog(t *testing.T, roomID int64, block uint64) types.Log {
	t.Helper()
	event := BettingRoomsABI.Events[EventRoomSettled]
	data, err := event.Inputs.NonIndexed().Pack([]common.Address{alice})
	require.NoError(t, err)
	return types.Log{
		Address:     contractAddr,
		Topics:      []common.Hash{event.ID, common.BigToHash(big.NewInt(roomID))},
		Data:        data,
		BlockNumber: block,
	}
}

func TestSettlementLogQueriesInWindows(t *testing.T) {
	node := &fakeNode{abi: BettingRoomsABI, head: 250, logs: []types.Log{
		settledLog(t, 1, 120),
		settledLog(t, 2, 249),
	}}
	src := &SettlementLog{Rooms: NewBettingRooms(contractAddr, node), FromBlock: 100, Chunk: 100}

	events, err := src.SettledEvents(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][2]uint64{{100, 199}, {200, 250}}, node.windows)
	require.Len(t, events, 2)
	require.Equal(t, uint64(1), events[0].RoomID)
	require.Equal(t, uint64(2), events[1].RoomID)
}

func TestSettlementLogDefaultChunk(t *testing.T) {
	node := &fakeNode{abi: BettingRoomsABI, head: 12_000}
	src := &SettlementLog{Rooms: NewBettingRooms(contractAddr, node)}

	events, err := src.SettledEvents(context.Background())
	require.NoError(t, err)
	require.Empty(t, events)
	require.Equal(t, [][2]uint64{{0, 4999}, {5000, 9999}, {10000, 12000}}, node.windows)
}

func TestTokenAllowance(t *testing.T) {
	node := &fakeNode{abi: ERC20ABI, results: map[string][]interface{}{
		"allowance": {new(big.Int).Set(MaxAllowance)},
		"balanceOf": {big.NewInt(1)},
	}}
	token := NewToken(contractAddr, node)

	allowance, err := token.Allowance(context.Background(), alice, bob)
	require.NoError(t, err)
	require.True(t, IsInfiniteAllowance(allowance))

	bal, err := token.BalanceOf(context.Background(), alice)
	require.NoError(t, err)
	require.False(t, IsInfiniteAllowance(bal))
}

func TestInfiniteAllowanceThreshold(t *testing.T) {
	require.False(t, IsInfiniteAllowance(nil))
	require.False(t, IsInfiniteAllowance(new(big.Int).Set(InfiniteAllowanceThreshold)))
	require.True(t, IsInfiniteAllowance(new(big.Int).Add(InfiniteAllowanceThreshold, big.NewInt(1))))
}
