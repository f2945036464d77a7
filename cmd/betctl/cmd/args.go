package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
)

// parseRoomID turns the 1-based number shown to users into a contract id.
func parseRoomID(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: room number must be a positive integer, got %q", domain.ErrInvalidInput, s)
	}
	return n - 1, nil
}

func parsePayout(s string) (domain.PayoutType, error) {
	p, ok := domain.ParsePayoutType(s)
	if !ok {
		return 0, fmt.Errorf("%w: payout must be single or top3, got %q", domain.ErrInvalidInput, s)
	}
	return p, nil
}

// parseSettlement accepts an RFC3339 time or a duration from now.
func parseSettlement(at, in string, now time.Time) (time.Time, error) {
	switch {
	case at != "" && in != "":
		return time.Time{}, fmt.Errorf("%w: use either --settle-at or --settle-in", domain.ErrInvalidInput)
	case at != "":
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: settle-at: %v", domain.ErrInvalidInput, err)
		}
		return t, nil
	case in != "":
		d, err := time.ParseDuration(in)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: settle-in: %v", domain.ErrInvalidInput, err)
		}
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("%w: settlement time is required", domain.ErrInvalidInput)
}

func parseAddresses(args []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(args))
	for _, a := range args {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("%w: invalid address %q", domain.ErrInvalidInput, a)
		}
		out = append(out, common.HexToAddress(a))
	}
	return out, nil
}
