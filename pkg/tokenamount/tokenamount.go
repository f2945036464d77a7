// Package tokenamount converts between base-unit integers and decimal strings
// for a fixed-decimals token without going through floating point.
package tokenamount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals of the staking token.
const Decimals = 6

// Format renders amount as a decimal string. Trailing zeros are trimmed but at
// least one fractional digit is kept, so 50000000 renders as "50.0".
func Format(amount *big.Int) string {
	return FormatUnits(amount, Decimals)
}

func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0.0"
	}
	s := decimal.NewFromBigInt(amount, -decimals).StringFixed(decimals)
	if decimals == 0 {
		return s + ".0"
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// Parse reads a decimal string into base units. More than Decimals fractional
// digits is an error rather than a silent truncation.
func Parse(s string) (*big.Int, error) {
	return ParseUnits(s, Decimals)
}

func ParseUnits(s string, decimals int32) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Shift(decimals).BigInt(), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) *big.Int {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
