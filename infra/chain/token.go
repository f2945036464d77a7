package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
)

// InfiniteAllowanceThreshold: an allowance above this many base units is
// treated as already granted and approval is skipped.
var InfiniteAllowanceThreshold = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// MaxAllowance is the amount requested when approving.
var MaxAllowance = new(big.Int).Set(math.MaxBig256)

type Token struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
}

func NewToken(address common.Address, backend Backend) *Token {
	return &Token{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, ERC20ABI, backend, backend, backend),
	}
}

func (t *Token) Address() common.Address { return t.address }

func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account); err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	return out[0].(*big.Int), nil
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}
	return out[0].(*big.Int), nil
}

func (t *Token) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "approve", spender, amount)
}

func (t *Token) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return WaitMined(ctx, t.backend, tx)
}

// IsInfiniteAllowance reports whether allowance needs no further approval.
func IsInfiniteAllowance(allowance *big.Int) bool {
	return allowance != nil && allowance.Cmp(InfiniteAllowanceThreshold) > 0
}
