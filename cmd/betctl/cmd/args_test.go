package cmd

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"betting-service/domain"
	"betting-service/internal/handler"
	"betting-service/internal/staking"
	"betting-service/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestParseRoomID(t *testing.T) {
	for in, want := range map[string]uint64{"1": 0, "#3": 2, " 12 ": 11} {
		got, err := parseRoomID(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "#0", "-1", "abc", ""} {
		_, err := parseRoomID(in)
		require.ErrorIs(t, err, domain.ErrInvalidInput, in)
	}
}

func TestParsePayout(t *testing.T) {
	p, err := parsePayout("top3")
	require.NoError(t, err)
	require.Equal(t, domain.PayoutTop3, p)

	p, err = parsePayout("SINGLE_WINNER")
	require.NoError(t, err)
	require.Equal(t, domain.PayoutSingleWinner, p)

	_, err = parsePayout("top5")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseSettlement(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := parseSettlement("", "90m", now)
	require.NoError(t, err)
	require.Equal(t, now.Add(90*time.Minute), got)

	got, err = parseSettlement("2025-07-01T00:00:00Z", "", now)
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))

	for _, tc := range [][2]string{{"", ""}, {"2025-07-01T00:00:00Z", "1h"}, {"tomorrow", ""}, {"", "soon"}} {
		_, err := parseSettlement(tc[0], tc[1], now)
		require.ErrorIs(t, err, domain.ErrInvalidInput, tc)
	}
}

func TestParseAddresses(t *testing.T) {
	addrs, err := parseAddresses([]string{
		"0x00000000000000000000000000000000000000a1",
		"0x00000000000000000000000000000000000000A2",
	})
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	require.Equal(t, common.HexToAddress("0xa2"), addrs[1])

	_, err = parseAddresses([]string{"0x1234"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoomIDValidationBeforeConnecting(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"room", "0"})

	err := root.Execute()
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminFlagValidation(t *testing.T) {
	require.Error(t, handler.Validate(createFlags{Payout: "single"}))
	require.Error(t, handler.Validate(createFlags{MinStake: "ten", MaxStake: "100", Payout: "single"}))
	require.NoError(t, handler.Validate(createFlags{MinStake: "10", MaxStake: "12.5", Payout: "top3"}))

	require.NoError(t, handler.Validate(transferFlags{}))
	require.Error(t, handler.Validate(transferFlags{From: "0x1234"}))
	require.NoError(t, handler.Validate(transferFlags{
		From: "0x00000000000000000000000000000000000000a1",
		To:   "0x00000000000000000000000000000000000000a2",
	}))
}

type fixedChain struct {
	id  int64
	err error
}

func (f fixedChain) ChainID(context.Context) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return big.NewInt(f.id), nil
}

func TestWalletSessionUsesNodeChainID(t *testing.T) {
	id, err := nodeChainID(context.Background(), fixedChain{id: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	// a session on the node's chain fails the staking network check
	st := wallet.State{Connected: true, ChainID: id}
	err = staking.Validate(nil, big.NewInt(1), st, 11155111)
	require.ErrorIs(t, err, domain.ErrWrongNetwork)

	_, err = nodeChainID(context.Background(), fixedChain{err: errors.New("connection refused")})
	require.ErrorIs(t, err, domain.ErrUnavailable)
}
