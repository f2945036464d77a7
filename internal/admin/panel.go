package admin

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"betting-service/domain"
	"betting-service/internal/aggregator"
	"betting-service/internal/wallet"
	"betting-service/pkg/chainerr"
	"betting-service/pkg/tokenamount"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

type Contract interface {
	OwnerReader
	Paused(ctx context.Context) (bool, error)
	UsersWithBalances(ctx context.Context) ([]domain.UserBalance, error)

	CreateRoom(opts *bind.TransactOpts, minStake, maxStake *big.Int, settlement int64, payout domain.PayoutType) (*types.Transaction, error)
	CloseRoom(opts *bind.TransactOpts, roomID uint64) (*types.Transaction, error)
	SettleRoomRandom(opts *bind.TransactOpts, roomID uint64) (*types.Transaction, error)
	SettleRoomForced(opts *bind.TransactOpts, roomID uint64, winners []common.Address) (*types.Transaction, error)
	Pause(opts *bind.TransactOpts) (*types.Transaction, error)
	Unpause(opts *bind.TransactOpts) (*types.Transaction, error)
	TransferTokens(opts *bind.TransactOpts, from, to common.Address, amount *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Rooms interface {
	ListRooms(ctx context.Context, filter aggregator.Filter) ([]domain.Room, error)
	GetRoom(ctx context.Context, roomID uint64) (*domain.Room, error)
}

type Signer interface {
	State() wallet.State
	TransactOpts(ctx context.Context, p wallet.Prompt) (*bind.TransactOpts, error)
}

type Overview struct {
	Rooms  []domain.Room
	Users  []domain.UserBalance
	Paused bool
}

type TxResult struct {
	Hash        common.Hash
	BlockNumber uint64
}

// ActionError wraps a failed transaction with a displayable message.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }
func (e *ActionError) Unwrap() error { return e.Err }

type Panel struct {
	gate     *Gate
	contract Contract
	rooms    Rooms
	signer   Signer
	now      func() time.Time
}

func NewPanel(contract Contract, rooms Rooms, signer Signer) *Panel {
	return &Panel{
		gate:     NewGate(contract),
		contract: contract,
		rooms:    rooms,
		signer:   signer,
		now:      time.Now,
	}
}

func (p *Panel) authorize(ctx context.Context) error {
	return p.gate.Authorize(ctx, p.signer.State())
}

func (p *Panel) Overview(ctx context.Context) (*Overview, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	rooms, err := p.rooms.ListRooms(ctx, aggregator.FilterAll)
	if err != nil {
		return nil, err
	}
	users, err := p.contract.UsersWithBalances(ctx)
	if err != nil {
		zap.L().Warn("Failed to load user balances", zap.Error(err))
		users = []domain.UserBalance{}
	}
	paused, err := p.contract.Paused(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: paused: %v", domain.ErrUnavailable, err)
	}
	return &Overview{Rooms: rooms, Users: users, Paused: paused}, nil
}

type CreateRoomParams struct {
	MinStake       string
	MaxStake       string
	SettlementTime time.Time
	PayoutType     domain.PayoutType
}

func (p *Panel) CreateRoom(ctx context.Context, params CreateRoomParams) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	minStake, err := tokenamount.Parse(params.MinStake)
	if err != nil {
		return nil, fmt.Errorf("%w: min stake: %v", domain.ErrInvalidInput, err)
	}
	maxStake, err := tokenamount.Parse(params.MaxStake)
	if err != nil {
		return nil, fmt.Errorf("%w: max stake: %v", domain.ErrInvalidInput, err)
	}
	if minStake.Sign() <= 0 {
		return nil, fmt.Errorf("%w: min stake must be greater than zero", domain.ErrInvalidInput)
	}
	if minStake.Cmp(maxStake) > 0 {
		return nil, fmt.Errorf("%w: min stake must not exceed max stake", domain.ErrInvalidInput)
	}
	if !params.SettlementTime.After(p.now()) {
		return nil, fmt.Errorf("%w: settlement time must be in the future", domain.ErrInvalidInput)
	}
	if params.PayoutType != domain.PayoutSingleWinner && params.PayoutType != domain.PayoutTop3 {
		return nil, fmt.Errorf("%w: unknown payout type %d", domain.ErrInvalidInput, params.PayoutType)
	}

	return p.send(ctx, "create room", wallet.Prompt{
		Title: "Create room",
		Detail: fmt.Sprintf("%s-%s USDT, %s, settles %s",
			tokenamount.Format(minStake), tokenamount.Format(maxStake), params.PayoutType,
			params.SettlementTime.UTC().Format(time.RFC3339)),
	}, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return p.contract.CreateRoom(opts, minStake, maxStake, params.SettlementTime.Unix(), params.PayoutType)
	})
}

func (p *Panel) CloseRoom(ctx context.Context, roomID uint64) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	room, err := p.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Closed {
		return nil, fmt.Errorf("%w: room #%d is already closed", domain.ErrConflict, room.DisplayID)
	}
	return p.send(ctx, "close room", wallet.Prompt{
		Title:  fmt.Sprintf("Close room #%d", room.DisplayID),
		Detail: "This will prevent new players from joining.",
	}, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return p.contract.CloseRoom(opts, roomID)
	})
}

func (p *Panel) settleable(ctx context.Context, roomID uint64) (*domain.Room, error) {
	room, err := p.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Settled {
		return nil, fmt.Errorf("%w: room #%d is already settled", domain.ErrConflict, room.DisplayID)
	}
	if !room.Closed {
		return nil, fmt.Errorf("%w: you must close the room before settling", domain.ErrRoomNotClosed)
	}
	return room, nil
}

func (p *Panel) SettleRandom(ctx context.Context, roomID uint64) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	room, err := p.settleable(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if p.now().Before(room.SettlementTime()) {
		return nil, fmt.Errorf("%w: settlement opens at %s", domain.ErrTooEarly,
			room.SettlementTime().UTC().Format(time.RFC3339))
	}
	return p.send(ctx, "settle room", wallet.Prompt{
		Title: fmt.Sprintf("Settle room #%d with a random winner", room.DisplayID),
	}, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return p.contract.SettleRoomRandom(opts, roomID)
	})
}

// SettleForced settles with explicitly chosen winners, in rank order.
func (p *Panel) SettleForced(ctx context.Context, roomID uint64, winners []common.Address) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	room, err := p.settleable(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := ValidateWinners(room, winners); err != nil {
		return nil, err
	}
	return p.send(ctx, "settle room", wallet.Prompt{
		Title:  fmt.Sprintf("Settle room #%d", room.DisplayID),
		Detail: fmt.Sprintf("Winners: %v", winners),
	}, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return p.contract.SettleRoomForced(opts, roomID, winners)
	})
}

// ValidateWinners checks a forced-settlement selection against the room's
// payout type and players.
func ValidateWinners(room *domain.Room, winners []common.Address) error {
	need := room.PayoutType.RequiredWinners()
	if room.PayoutType == domain.PayoutTop3 && len(room.Players) < need {
		return fmt.Errorf("%w: TOP_3 settlement requires at least 3 players", domain.ErrNotEnoughPlayers)
	}
	if len(room.Players) == 0 {
		return fmt.Errorf("%w: room has no players", domain.ErrNotEnoughPlayers)
	}
	if len(winners) != need {
		if need == 1 {
			return fmt.Errorf("%w: please select exactly one winner", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: please select exactly %d winners", domain.ErrInvalidInput, need)
	}
	for i, w := range winners {
		if !room.HasPlayer(w) {
			return fmt.Errorf("%w: %s is not a player in room #%d", domain.ErrInvalidInput, w.Hex(), room.DisplayID)
		}
		for _, prev := range winners[:i] {
			if domain.SameAddress(prev, w) {
				return fmt.Errorf("%w: winner %s selected twice", domain.ErrInvalidInput, w.Hex())
			}
		}
	}
	return nil
}

func (p *Panel) Pause(ctx context.Context) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	return p.send(ctx, "pause contract", wallet.Prompt{Title: "Pause contract"}, p.contract.Pause)
}

func (p *Panel) Unpause(ctx context.Context) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	return p.send(ctx, "unpause contract", wallet.Prompt{Title: "Unpause contract"}, p.contract.Unpause)
}

// TogglePause pauses a running contract or unpauses a paused one.
func (p *Panel) TogglePause(ctx context.Context) (*TxResult, bool, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, false, err
	}
	paused, err := p.contract.Paused(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: paused: %v", domain.ErrUnavailable, err)
	}
	if paused {
		res, err := p.Unpause(ctx)
		return res, false, err
	}
	res, err := p.Pause(ctx)
	return res, true, err
}

type TransferParams struct {
	Sender   string
	Receiver string
	Amount   string
}

func (p *Panel) TransferTokens(ctx context.Context, params TransferParams) (*TxResult, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	if params.Sender == "" || params.Receiver == "" || params.Amount == "" {
		return nil, fmt.Errorf("%w: please fill in all fields", domain.ErrInvalidInput)
	}
	if !common.IsHexAddress(params.Sender) || !common.IsHexAddress(params.Receiver) {
		return nil, fmt.Errorf("%w: invalid address", domain.ErrInvalidInput)
	}
	amount, err := tokenamount.Parse(params.Amount)
	if err != nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: invalid amount %q", domain.ErrInvalidInput, params.Amount)
	}
	from, to := common.HexToAddress(params.Sender), common.HexToAddress(params.Receiver)

	return p.send(ctx, "transfer tokens", wallet.Prompt{
		Title:  "Transfer tokens",
		Detail: fmt.Sprintf("%s USDT from %s to %s", tokenamount.Format(amount), from.Hex(), to.Hex()),
	}, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return p.contract.TransferTokens(opts, from, to, amount)
	})
}

func (p *Panel) send(ctx context.Context, action string, prompt wallet.Prompt, submit func(*bind.TransactOpts) (*types.Transaction, error)) (*TxResult, error) {
	opts, err := p.signer.TransactOpts(ctx, prompt)
	if err != nil {
		return nil, p.fail(action, err)
	}
	tx, err := submit(opts)
	if err != nil {
		return nil, p.fail(action, err)
	}
	receipt, err := p.contract.WaitMined(ctx, tx)
	if err != nil {
		return nil, p.fail(action, err)
	}

	res := &TxResult{Hash: tx.Hash()}
	if receipt != nil && receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.Uint64()
	}
	zap.L().Info("Admin action confirmed", zap.String("action", action), zap.String("tx", res.Hash.Hex()))
	return res, nil
}

func (p *Panel) fail(action string, err error) error {
	if chainerr.IsUserRejection(err) {
		return err
	}
	zap.L().Error("Admin action failed", zap.String("action", action), zap.Error(err))
	return &ActionError{Action: action, Message: chainerr.UserMessage(err, "Failed to "+action), Err: err}
}
