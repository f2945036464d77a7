package aggregator

import (
	"context"
	"fmt"
	"math/big"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
)

// SplitPolicy decides how a TOP_3 prize is divided between winners.
type SplitPolicy string

const (
	// SplitRanked pays 50/30/20 by position in the RoomSettled winners list,
	// which is what the contract distributes.
	SplitRanked SplitPolicy = "ranked"
	// SplitEqualThirds pays every TOP_3 winner a third of the prize. It
	// exists to reproduce totals reported by older clients.
	SplitEqualThirds SplitPolicy = "equal_thirds"
)

func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch SplitPolicy(s) {
	case "", SplitRanked:
		return SplitRanked, nil
	case SplitEqualThirds:
		return SplitEqualThirds, nil
	}
	return "", fmt.Errorf("%w: unknown split policy %q", domain.ErrInvalidInput, s)
}

// Payout is the amount a winner at rank receives from prize. Integer division
// floors, so the shares may sum to slightly less than prize.
func Payout(prize *big.Int, payout domain.PayoutType, rank int, policy SplitPolicy) *big.Int {
	if prize == nil || rank < 0 {
		return new(big.Int)
	}
	if payout == domain.PayoutTop3 && policy == SplitEqualThirds {
		return new(big.Int).Quo(prize, big.NewInt(3))
	}
	shares := payout.Shares()
	if rank >= len(shares) {
		return new(big.Int)
	}
	amount := new(big.Int).Mul(prize, big.NewInt(shares[rank]))
	return amount.Quo(amount, big.NewInt(100))
}

// CalculateWinnings sums the payouts of every settled room user won.
func (a *Aggregator) CalculateWinnings(ctx context.Context, user common.Address) (*big.Int, error) {
	rooms, err := a.UserSettledRooms(ctx, user)
	if err != nil {
		return new(big.Int), err
	}
	return SumWinnings(rooms, a.split), nil
}

func SumWinnings(rooms []domain.SettledRoom, policy SplitPolicy) *big.Int {
	total := new(big.Int)
	for i := range rooms {
		r := &rooms[i]
		if !r.IsWinner {
			continue
		}
		total.Add(total, Payout(r.TotalPrize, r.PayoutType, r.WinnerRank, policy))
	}
	return total
}
