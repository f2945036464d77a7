// Package payout moves a user's accumulated winnings out of the contract.
package payout

import (
	"context"
	"fmt"
	"math/big"

	"betting-service/domain"
	"betting-service/internal/wallet"
	"betting-service/pkg/chainerr"
	"betting-service/pkg/tokenamount"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

type Contract interface {
	WithdrawableBalance(ctx context.Context, user common.Address) (*big.Int, error)
	Withdraw(opts *bind.TransactOpts) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Signer interface {
	State() wallet.State
	TransactOpts(ctx context.Context, p wallet.Prompt) (*bind.TransactOpts, error)
}

type Result struct {
	Amount      *big.Int
	TxHash      common.Hash
	BlockNumber uint64
}

type Withdrawer struct {
	contract      Contract
	signer        Signer
	targetChainID int64
}

func NewWithdrawer(contract Contract, signer Signer, targetChainID int64) *Withdrawer {
	return &Withdrawer{contract: contract, signer: signer, targetChainID: targetChainID}
}

// Withdraw sends the whole withdrawable balance of the connected wallet.
func (w *Withdrawer) Withdraw(ctx context.Context) (*Result, error) {
	st := w.signer.State()
	if !st.Connected {
		return nil, fmt.Errorf("%w: connect your wallet to withdraw", domain.ErrNotConnected)
	}
	if !st.IsCorrectNetwork(w.targetChainID) {
		return nil, fmt.Errorf("%w: switch to chain %d", domain.ErrWrongNetwork, w.targetChainID)
	}

	balance, err := w.contract.WithdrawableBalance(ctx, st.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: withdrawable balance: %v", domain.ErrUnavailable, err)
	}
	if balance == nil || balance.Sign() <= 0 {
		return nil, fmt.Errorf("%w: you have no funds available to withdraw", domain.ErrNothingToWithdraw)
	}

	opts, err := w.signer.TransactOpts(ctx, wallet.Prompt{
		Title:  "Withdraw winnings",
		Detail: fmt.Sprintf("%s USDT to %s", tokenamount.Format(balance), st.Address.Hex()),
	})
	if err != nil {
		return nil, w.fail(err)
	}
	tx, err := w.contract.Withdraw(opts)
	if err != nil {
		return nil, w.fail(err)
	}
	receipt, err := w.contract.WaitMined(ctx, tx)
	if err != nil {
		return nil, w.fail(err)
	}

	res := &Result{Amount: balance, TxHash: tx.Hash()}
	if receipt != nil && receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.Uint64()
	}
	zap.L().Info("Withdrawal confirmed",
		zap.String("user", st.Address.Hex()),
		zap.String("amount", tokenamount.Format(balance)),
		zap.String("tx", res.TxHash.Hex()))
	return res, nil
}

func (w *Withdrawer) fail(err error) error {
	if chainerr.IsUserRejection(err) {
		return err
	}
	zap.L().Error("Withdrawal failed", zap.Error(err))
	return &chainerr.Error{Message: chainerr.UserMessage(err, "Withdrawal failed"), Err: err}
}
