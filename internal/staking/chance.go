package staking

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	minChance = 12
	maxChance = 96
)

// WinningChance is the display heuristic shown next to a stake:
// 12 + 84 * (stake-min)/(max-min) percent, clamped to [12, 96] and rounded to
// one decimal. An empty or non-positive stake shows 0 and a room with a single
// allowed amount shows the maximum.
func WinningChance(stake, minStake, maxStake *big.Int) decimal.Decimal {
	if stake == nil || stake.Sign() <= 0 || minStake == nil || maxStake == nil {
		return decimal.Zero
	}
	span := new(big.Int).Sub(maxStake, minStake)
	if span.Sign() <= 0 {
		return decimal.NewFromInt(maxChance)
	}

	offset := decimal.NewFromBigInt(new(big.Int).Sub(stake, minStake), 0)
	ratio := offset.DivRound(decimal.NewFromBigInt(span, 0), 16)
	chance := decimal.NewFromInt(minChance).Add(ratio.Mul(decimal.NewFromInt(maxChance - minChance)))

	lo, hi := decimal.NewFromInt(minChance), decimal.NewFromInt(maxChance)
	if chance.LessThan(lo) {
		chance = lo
	}
	if chance.GreaterThan(hi) {
		chance = hi
	}
	return chance.Round(1)
}

// FormatChance renders a chance the way it is displayed, e.g. "54.0".
func FormatChance(c decimal.Decimal) string {
	return c.StringFixed(1)
}
