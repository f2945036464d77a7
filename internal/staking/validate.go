package staking

import (
	"fmt"
	"math/big"

	"betting-service/domain"
	"betting-service/internal/wallet"
	"betting-service/pkg/tokenamount"
)

// Validate checks a stake before anything is sent to the wallet. The returned
// errors carry the text shown to the user.
func Validate(room *domain.Room, amount *big.Int, st wallet.State, targetChainID int64) error {
	if !st.Connected {
		return fmt.Errorf("%w: please connect your wallet", domain.ErrNotConnected)
	}
	if targetChainID != 0 && st.ChainID != targetChainID {
		return fmt.Errorf("%w: please switch to chain %d", domain.ErrWrongNetwork, targetChainID)
	}
	if room == nil {
		return fmt.Errorf("%w: room", domain.ErrNotFound)
	}
	if !room.Active() {
		return fmt.Errorf("%w: room #%d is no longer accepting stakes", domain.ErrInvalidInput, room.DisplayID)
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: please enter a valid stake amount", domain.ErrInvalidInput)
	}
	if amount.Cmp(room.MinStake) < 0 {
		return fmt.Errorf("%w: stake amount must be at least %s USDT", domain.ErrInvalidInput, tokenamount.Format(room.MinStake))
	}
	if amount.Cmp(room.MaxStake) > 0 {
		return fmt.Errorf("%w: stake amount must not exceed %s USDT", domain.ErrInvalidInput, tokenamount.Format(room.MaxStake))
	}
	return nil
}
