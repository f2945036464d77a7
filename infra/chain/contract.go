package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is what the bindings need from a node connection. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

var ErrTxReverted = errors.New("transaction reverted")

// BettingRooms binds the room contract.
type BettingRooms struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
}

func NewBettingRooms(address common.Address, backend Backend) *BettingRooms {
	return &BettingRooms{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, BettingRoomsABI, backend, backend, backend),
	}
}

func (b *BettingRooms) Address() common.Address { return b.address }

func (b *BettingRooms) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return out, nil
}

func (b *BettingRooms) NextRoomID(ctx context.Context) (uint64, error) {
	out, err := b.call(ctx, "nextRoomId")
	if err != nil {
		return 0, err
	}
	return toUint64(out[0])
}

func (b *BettingRooms) Room(ctx context.Context, roomID uint64) (domain.RoomRecord, error) {
	out, err := b.call(ctx, "rooms", new(big.Int).SetUint64(roomID))
	if err != nil {
		return domain.RoomRecord{}, err
	}
	if len(out) != 6 {
		return domain.RoomRecord{}, fmt.Errorf("rooms: unexpected output length %d", len(out))
	}
	ts, err := toUint64(out[2])
	if err != nil {
		return domain.RoomRecord{}, err
	}
	return domain.RoomRecord{
		MinStake:            out[0].(*big.Int),
		MaxStake:            out[1].(*big.Int),
		SettlementTimestamp: int64(ts),
		Closed:              out[3].(bool),
		Settled:             out[4].(bool),
		PayoutType:          domain.PayoutType(out[5].(uint8)),
	}, nil
}

func (b *BettingRooms) RoomPlayers(ctx context.Context, roomID uint64) ([]common.Address, error) {
	out, err := b.call(ctx, "getRoomPlayers", new(big.Int).SetUint64(roomID))
	if err != nil {
		return nil, err
	}
	return out[0].([]common.Address), nil
}

func (b *BettingRooms) PlayerStake(ctx context.Context, roomID uint64, player common.Address) (*big.Int, error) {
	out, err := b.call(ctx, "getPlayerStake", new(big.Int).SetUint64(roomID), player)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (b *BettingRooms) WithdrawableBalance(ctx context.Context, user common.Address) (*big.Int, error) {
	out, err := b.call(ctx, "withdrawableBalances", user)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (b *BettingRooms) Owner(ctx context.Context) (common.Address, error) {
	out, err := b.call(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

func (b *BettingRooms) Paused(ctx context.Context) (bool, error) {
	out, err := b.call(ctx, "paused")
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (b *BettingRooms) UsersWithBalances(ctx context.Context) ([]domain.UserBalance, error) {
	out, err := b.call(ctx, "getAllUsersWithBalances")
	if err != nil {
		return nil, err
	}
	users := out[0].([]common.Address)
	balances := out[1].([]*big.Int)
	if len(users) != len(balances) {
		return nil, fmt.Errorf("getAllUsersWithBalances: %d users but %d balances", len(users), len(balances))
	}
	res := make([]domain.UserBalance, len(users))
	for i := range users {
		res[i] = domain.UserBalance{Address: users[i], Balance: balances[i]}
	}
	return res, nil
}

type roomSettledLog struct {
	RoomId  *big.Int
	Winners []common.Address
}

// FilterRoomSettled returns RoomSettled logs in [from, to]. A nil to means latest.
func (b *BettingRooms) FilterRoomSettled(ctx context.Context, from uint64, to *uint64) ([]domain.RoomSettledEvent, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		Addresses: []common.Address{b.address},
		Topics:    [][]common.Hash{{BettingRoomsABI.Events[EventRoomSettled].ID}},
	}
	if to != nil {
		query.ToBlock = new(big.Int).SetUint64(*to)
	}
	logs, err := b.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", EventRoomSettled, err)
	}
	events := make([]domain.RoomSettledEvent, 0, len(logs))
	for _, l := range logs {
		ev, err := b.ParseRoomSettled(l)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (b *BettingRooms) ParseRoomSettled(l types.Log) (domain.RoomSettledEvent, error) {
	var raw roomSettledLog
	if err := b.contract.UnpackLog(&raw, EventRoomSettled, l); err != nil {
		return domain.RoomSettledEvent{}, fmt.Errorf("unpack %s: %w", EventRoomSettled, err)
	}
	if !raw.RoomId.IsUint64() {
		return domain.RoomSettledEvent{}, fmt.Errorf("unpack %s: room id %s out of range", EventRoomSettled, raw.RoomId)
	}
	return domain.RoomSettledEvent{
		RoomID:      raw.RoomId.Uint64(),
		Winners:     raw.Winners,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		LogIndex:    l.Index,
	}, nil
}

func (b *BettingRooms) JoinRoom(opts *bind.TransactOpts, roomID uint64, amount *big.Int) (*types.Transaction, error) {
	return b.contract.Transact(opts, "joinRoom", new(big.Int).SetUint64(roomID), amount)
}

func (b *BettingRooms) Withdraw(opts *bind.TransactOpts) (*types.Transaction, error) {
	return b.contract.Transact(opts, "withdraw")
}

func (b *BettingRooms) CreateRoom(opts *bind.TransactOpts, minStake, maxStake *big.Int, settlement int64, payout domain.PayoutType) (*types.Transaction, error) {
	return b.contract.Transact(opts, "createRoom", minStake, maxStake, big.NewInt(settlement), uint8(payout))
}

func (b *BettingRooms) CloseRoom(opts *bind.TransactOpts, roomID uint64) (*types.Transaction, error) {
	return b.contract.Transact(opts, "closeRoom", new(big.Int).SetUint64(roomID))
}

func (b *BettingRooms) SettleRoomRandom(opts *bind.TransactOpts, roomID uint64) (*types.Transaction, error) {
	return b.contract.Transact(opts, "settleRoomRandom", new(big.Int).SetUint64(roomID))
}

func (b *BettingRooms) SettleRoomForced(opts *bind.TransactOpts, roomID uint64, winners []common.Address) (*types.Transaction, error) {
	return b.contract.Transact(opts, "settleRoomForced", new(big.Int).SetUint64(roomID), winners)
}

func (b *BettingRooms) Pause(opts *bind.TransactOpts) (*types.Transaction, error) {
	return b.contract.Transact(opts, "pause")
}

func (b *BettingRooms) Unpause(opts *bind.TransactOpts) (*types.Transaction, error) {
	return b.contract.Transact(opts, "unpause")
}

func (b *BettingRooms) TransferTokens(opts *bind.TransactOpts, from, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return b.contract.Transact(opts, "transferTokens", from, to, amount)
}

// WaitMined blocks until tx is included and fails if it reverted.
func WaitMined(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTxReverted, tx.Hash().Hex())
	}
	return receipt, nil
}

func (b *BettingRooms) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return WaitMined(ctx, b.backend, tx)
}

func toUint64(v interface{}) (uint64, error) {
	n, ok := v.(*big.Int)
	if !ok || !n.IsUint64() {
		return 0, fmt.Errorf("value %v does not fit uint64", v)
	}
	return n.Uint64(), nil
}

// DefaultLogChunk is the block window of one log query. Public endpoints
// commonly reject wider ranges.
const DefaultLogChunk = 5000

// SettlementLog serves settlement history straight from chain logs, queried
// in Chunk-sized block windows up to the current head.
type SettlementLog struct {
	Rooms     *BettingRooms
	FromBlock uint64
	Chunk     uint64
}

func (s *SettlementLog) SettledEvents(ctx context.Context) ([]domain.RoomSettledEvent, error) {
	head, err := s.Rooms.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("head block: %w", err)
	}
	chunk := s.Chunk
	if chunk == 0 {
		chunk = DefaultLogChunk
	}

	var events []domain.RoomSettledEvent
	for from := s.FromBlock; from <= head; {
		to := from + chunk - 1
		if to > head {
			to = head
		}
		window, err := s.Rooms.FilterRoomSettled(ctx, from, &to)
		if err != nil {
			return nil, fmt.Errorf("logs %d-%d: %w", from, to, err)
		}
		events = append(events, window...)
		from = to + 1
	}
	return events, nil
}
