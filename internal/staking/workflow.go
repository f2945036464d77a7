// Package staking drives the sign -> approve -> join sequence required to
// stake into a room.
package staking

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"betting-service/domain"
	"betting-service/infra/chain"
	"betting-service/internal/wallet"
	"betting-service/pkg/chainerr"
	"betting-service/pkg/tokenamount"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"
)

type RoomSource interface {
	GetRoom(ctx context.Context, roomID uint64) (*domain.Room, error)
}

type Rooms interface {
	Address() common.Address
	JoinRoom(opts *bind.TransactOpts, roomID uint64, amount *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Token interface {
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Wallet interface {
	Address() common.Address
	State() wallet.State
	SignTypedData(ctx context.Context, title string, td apitypes.TypedData) ([]byte, error)
	TransactOpts(ctx context.Context, p wallet.Prompt) (*bind.TransactOpts, error)
}

type JoinRequest struct {
	RoomID uint64
	// Amount is the decimal stake as typed, e.g. "30" or "12.5".
	Amount string
}

type Receipt struct {
	RoomID      uint64
	DisplayID   uint64
	Amount      *big.Int
	Signature   []byte
	ApprovalTx  *common.Hash
	JoinTx      common.Hash
	BlockNumber uint64
}

// StepError is returned when a step fails for a reason other than the user
// declining. Message is safe to display.
type StepError struct {
	Step    State
	Message string
	Err     error
}

func (e *StepError) Error() string { return e.Message }
func (e *StepError) Unwrap() error { return e.Err }

type TransitionFunc func(from, to State, ev Event)

type Workflow struct {
	rooms         RoomSource
	contract      Rooms
	token         Token
	wallet        Wallet
	targetChainID int64
	now           func() time.Time

	mu        sync.Mutex
	state     State
	observers []TransitionFunc
}

func NewWorkflow(rooms RoomSource, contract Rooms, token Token, w Wallet, targetChainID int64) *Workflow {
	return &Workflow{
		rooms:         rooms,
		contract:      contract,
		token:         token,
		wallet:        w,
		targetChainID: targetChainID,
		now:           time.Now,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// OnTransition registers fn for every state change.
func (w *Workflow) OnTransition(fn TransitionFunc) {
	w.mu.Lock()
	w.observers = append(w.observers, fn)
	w.mu.Unlock()
}

func (w *Workflow) fire(ev Event) error {
	w.mu.Lock()
	from := w.state
	to, err := Transition(from, ev)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.state = to
	observers := append([]TransitionFunc(nil), w.observers...)
	w.mu.Unlock()

	zap.L().Debug("Staking transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("event", ev))
	for _, fn := range observers {
		fn(from, to, ev)
	}
	return nil
}

// Reset returns a finished workflow to Idle.
func (w *Workflow) Reset() error {
	return w.fire(EventReset)
}

// Run executes the whole sequence. A declined signature or approval returns
// the workflow to Idle with an error wrapping domain.ErrUserRejected; any other
// failure after submission leaves it Failed with a *StepError.
func (w *Workflow) Run(ctx context.Context, req JoinRequest) (*Receipt, error) {
	switch st := w.State(); {
	case st.InProgress():
		return nil, fmt.Errorf("%w: staking is %s", domain.ErrWorkflowBusy, st)
	case st == StateDone || st == StateFailed:
		if err := w.Reset(); err != nil {
			return nil, err
		}
	}

	room, amount, err := w.precheck(ctx, req)
	if err != nil {
		_ = w.fire(EventValidationFailed)
		return nil, err
	}
	if err := w.fire(EventSubmit); err != nil {
		return nil, err
	}

	signed, err := w.sign(ctx, room, req.Amount, amount)
	if err != nil {
		return nil, w.abort(StateSigning, EventSignRejected, err, "Failed to sign disclaimer")
	}
	if err := w.fire(EventSigned); err != nil {
		return nil, err
	}

	grant, err := w.approve(ctx, signed)
	if err != nil {
		return nil, w.abort(StateApproving, EventApproveRejected, err, "Failed to approve tokens")
	}
	if err := w.fire(EventApproved); err != nil {
		return nil, err
	}

	receipt, err := w.join(ctx, grant)
	if err != nil {
		return nil, w.abort(StateJoining, EventFailed, err, "Failed to join room")
	}
	if err := w.fire(EventJoined); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (w *Workflow) precheck(ctx context.Context, req JoinRequest) (*domain.Room, *big.Int, error) {
	room, err := w.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, nil, err
	}
	amount, err := tokenamount.Parse(req.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := Validate(room, amount, w.wallet.State(), w.targetChainID); err != nil {
		return nil, nil, err
	}

	balance, err := w.token.BalanceOf(ctx, w.wallet.Address())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: token balance: %v", domain.ErrUnavailable, err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, nil, fmt.Errorf("%w: you don't have enough USDT. Balance: %s USDT",
			domain.ErrInsufficientBalance, tokenamount.Format(balance))
	}
	return room, amount, nil
}

// abort moves the workflow out of step after err. Rejections are expected and
// go back to Idle; everything else is a failure.
func (w *Workflow) abort(step State, rejected Event, err error, fallback string) error {
	if rejected != EventFailed && chainerr.IsUserRejection(err) {
		_ = w.fire(rejected)
		zap.L().Warn("Staking step rejected by user", zap.Stringer("step", step))
		if errors.Is(err, domain.ErrUserRejected) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrUserRejected, err)
	}
	_ = w.fire(EventFailed)
	zap.L().Error("Staking step failed", zap.Stringer("step", step), zap.Error(err))
	return &StepError{Step: step, Message: chainerr.UserMessage(err, fallback), Err: err}
}

// signedDisclaimer can only be produced by sign and is required by approve.
type signedDisclaimer struct {
	room      *domain.Room
	amount    *big.Int
	signature []byte
}

// approvalGrant can only be produced by approve and is required by join.
type approvalGrant struct {
	signed     *signedDisclaimer
	approvalTx *common.Hash
}

func (w *Workflow) sign(ctx context.Context, room *domain.Room, typed string, amount *big.Int) (*signedDisclaimer, error) {
	d := NewDisclaimer(w.wallet.Address(), room.ID, typed, w.now())
	td := d.TypedData(w.wallet.State().ChainID, w.contract.Address())
	sig, err := w.wallet.SignTypedData(ctx, fmt.Sprintf("Sign disclaimer for room #%d", room.DisplayID), td)
	if err != nil {
		return nil, err
	}
	return &signedDisclaimer{room: room, amount: amount, signature: sig}, nil
}

func (w *Workflow) approve(ctx context.Context, signed *signedDisclaimer) (*approvalGrant, error) {
	if signed == nil || len(signed.signature) == 0 {
		return nil, errors.New("approval requires a signed disclaimer")
	}
	spender := w.contract.Address()
	allowance, err := w.token.Allowance(ctx, w.wallet.Address(), spender)
	if err != nil {
		return nil, err
	}
	if chain.IsInfiniteAllowance(allowance) {
		return &approvalGrant{signed: signed}, nil
	}

	opts, err := w.wallet.TransactOpts(ctx, wallet.Prompt{
		Title:  "Approve USDT spending",
		Detail: fmt.Sprintf("Allow %s to spend your USDT", spender.Hex()),
	})
	if err != nil {
		return nil, err
	}
	tx, err := w.token.Approve(opts, spender, chain.MaxAllowance)
	if err != nil {
		return nil, err
	}
	if _, err := w.token.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	hash := tx.Hash()
	return &approvalGrant{signed: signed, approvalTx: &hash}, nil
}

func (w *Workflow) join(ctx context.Context, grant *approvalGrant) (*Receipt, error) {
	if grant == nil || grant.signed == nil {
		return nil, errors.New("join requires an approval grant")
	}
	room, amount := grant.signed.room, grant.signed.amount

	opts, err := w.wallet.TransactOpts(ctx, wallet.Prompt{
		Title:  fmt.Sprintf("Join room #%d", room.DisplayID),
		Detail: fmt.Sprintf("Stake %s USDT", tokenamount.Format(amount)),
	})
	if err != nil {
		return nil, err
	}
	tx, err := w.contract.JoinRoom(opts, room.ID, amount)
	if err != nil {
		return nil, err
	}
	rcpt, err := w.contract.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}

	res := &Receipt{
		RoomID:     room.ID,
		DisplayID:  room.DisplayID,
		Amount:     amount,
		Signature:  grant.signed.signature,
		ApprovalTx: grant.approvalTx,
		JoinTx:     tx.Hash(),
	}
	if rcpt != nil && rcpt.BlockNumber != nil {
		res.BlockNumber = rcpt.BlockNumber.Uint64()
	}
	return res, nil
}
