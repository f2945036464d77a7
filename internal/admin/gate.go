// Package admin wraps the owner-only contract operations.
//
// The owner check here only decides whether privileged operations are offered
// at all. Authority is enforced by the contract on every call.
package admin

import (
	"context"
	"fmt"

	"betting-service/domain"
	"betting-service/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
)

type OwnerReader interface {
	Owner(ctx context.Context) (common.Address, error)
}

type Gate struct {
	owner OwnerReader
}

func NewGate(owner OwnerReader) *Gate {
	return &Gate{owner: owner}
}

// Authorize fails with ErrNotConnected, ErrForbidden, or the owner lookup
// error. The owner is fetched on every call.
func (g *Gate) Authorize(ctx context.Context, st wallet.State) error {
	if !st.Connected {
		return fmt.Errorf("%w: connect the owner wallet", domain.ErrNotConnected)
	}
	owner, err := g.owner.Owner(ctx)
	if err != nil {
		return fmt.Errorf("%w: owner lookup: %v", domain.ErrUnavailable, err)
	}
	if !domain.SameAddress(owner, st.Address) {
		return fmt.Errorf("%w: only the contract owner can access this page", domain.ErrForbidden)
	}
	return nil
}
