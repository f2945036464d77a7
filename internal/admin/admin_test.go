package admin

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"betting-service/domain"
	"betting-service/internal/aggregator"
	"betting-service/internal/wallet"
	"betting-service/pkg/tokenamount"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const (
	ownerKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	chainID  = int64(11155111)
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

type fakeContract struct {
	owner  common.Address
	paused bool
	sent   []string
	txErr  error

	created struct {
		min, max   *big.Int
		settlement int64
		payout     domain.PayoutType
	}
	winners []common.Address
}

func (f *fakeContract) tx(name string) (*types.Transaction, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	f.sent = append(f.sent, name)
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(f.sent)), Value: new(big.Int)}), nil
}

func (f *fakeContract) Owner(context.Context) (common.Address, error) { return f.owner, nil }
func (f *fakeContract) Paused(context.Context) (bool, error)          { return f.paused, nil }
func (f *fakeContract) UsersWithBalances(context.Context) ([]domain.UserBalance, error) {
	return []domain.UserBalance{{Address: alice, Balance: big.NewInt(5)}}, nil
}

func (f *fakeContract) CreateRoom(_ *bind.TransactOpts, minStake, maxStake *big.Int, settlement int64, payout domain.PayoutType) (*types.Transaction, error) {
	f.created.min, f.created.max, f.created.settlement, f.created.payout = minStake, maxStake, settlement, payout
	return f.tx("create")
}

func (f *fakeContract) CloseRoom(*bind.TransactOpts, uint64) (*types.Transaction, error) {
	return f.tx("close")
}

func (f *fakeContract) SettleRoomRandom(*bind.TransactOpts, uint64) (*types.Transaction, error) {
	return f.tx("settle-random")
}

func (f *fakeContract) SettleRoomForced(_ *bind.TransactOpts, _ uint64, winners []common.Address) (*types.Transaction, error) {
	f.winners = winners
	return f.tx("settle-forced")
}

func (f *fakeContract) Pause(*bind.TransactOpts) (*types.Transaction, error) {
	return f.tx("pause")
}

func (f *fakeContract) Unpause(*bind.TransactOpts) (*types.Transaction, error) {
	return f.tx("unpause")
}

func (f *fakeContract) TransferTokens(*bind.TransactOpts, common.Address, common.Address, *big.Int) (*types.Transaction, error) {
	return f.tx("transfer")
}

func (f *fakeContract) WaitMined(context.Context, *types.Transaction) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(900)}, nil
}

type fakeRooms struct {
	rooms map[uint64]*domain.Room
}

func (f fakeRooms) ListRooms(context.Context, aggregator.Filter) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f fakeRooms) GetRoom(_ context.Context, id uint64) (*domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

var now = time.Unix(1_800_000_000, 0)

func room(id uint64, payout domain.PayoutType, closed bool, players ...common.Address) *domain.Room {
	r := domain.NewRoom(id, domain.RoomRecord{
		MinStake:            tokenamount.MustParse("10"),
		MaxStake:            tokenamount.MustParse("100"),
		SettlementTimestamp: now.Add(-time.Hour).Unix(),
		Closed:              closed,
		PayoutType:          payout,
	})
	r.Players = players
	return &r
}

func newPanel(t *testing.T, rooms ...*domain.Room) (*Panel, *fakeContract, *wallet.KeyWallet) {
	t.Helper()
	w, err := wallet.NewKeyWallet(ownerKey, chainID, wallet.AutoConfirm, nil)
	require.NoError(t, err)

	c := &fakeContract{owner: w.Address()}
	byID := map[uint64]*domain.Room{}
	for _, r := range rooms {
		byID[r.ID] = r
	}
	p := NewPanel(c, fakeRooms{rooms: byID}, w)
	p.now = func() time.Time { return now }
	return p, c, w
}

func TestGateRequiresConnectedOwner(t *testing.T) {
	g := NewGate(&fakeContract{owner: alice})

	require.ErrorIs(t, g.Authorize(context.Background(), wallet.State{}), domain.ErrNotConnected)
	require.ErrorIs(t, g.Authorize(context.Background(), wallet.State{Address: bob, Connected: true}), domain.ErrForbidden)
	require.NoError(t, g.Authorize(context.Background(), wallet.State{Address: alice, Connected: true}))
}

func TestNonOwnerCannotAct(t *testing.T) {
	p, c, _ := newPanel(t, room(0, domain.PayoutSingleWinner, true, alice))
	c.owner = bob

	_, err := p.Overview(context.Background())
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = p.SettleRandom(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = p.Pause(context.Background())
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Empty(t, c.sent)
}

func TestOverview(t *testing.T) {
	p, c, _ := newPanel(t, room(0, domain.PayoutSingleWinner, false))
	c.paused = true

	ov, err := p.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, ov.Rooms, 1)
	require.Len(t, ov.Users, 1)
	require.True(t, ov.Paused)
}

func TestCreateRoom(t *testing.T) {
	p, c, _ := newPanel(t)
	settle := now.Add(24 * time.Hour)

	res, err := p.CreateRoom(context.Background(), CreateRoomParams{
		MinStake: "10", MaxStake: "100.5", SettlementTime: settle, PayoutType: domain.PayoutTop3,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(900), res.BlockNumber)
	require.Equal(t, big.NewInt(10_000_000), c.created.min)
	require.Equal(t, big.NewInt(100_500_000), c.created.max)
	require.Equal(t, settle.Unix(), c.created.settlement)
	require.Equal(t, domain.PayoutTop3, c.created.payout)
}

func TestCreateRoomValidation(t *testing.T) {
	p, c, _ := newPanel(t)
	future := now.Add(time.Hour)

	for _, tc := range []struct {
		name   string
		params CreateRoomParams
	}{
		{"past settlement", CreateRoomParams{MinStake: "1", MaxStake: "2", SettlementTime: now}},
		{"min above max", CreateRoomParams{MinStake: "5", MaxStake: "2", SettlementTime: future}},
		{"zero min", CreateRoomParams{MinStake: "0", MaxStake: "2", SettlementTime: future}},
		{"bad amount", CreateRoomParams{MinStake: "x", MaxStake: "2", SettlementTime: future}},
		{"bad payout", CreateRoomParams{MinStake: "1", MaxStake: "2", SettlementTime: future, PayoutType: 7}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.CreateRoom(context.Background(), tc.params)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	require.Empty(t, c.sent)
}

func TestCloseRoom(t *testing.T) {
	p, c, _ := newPanel(t, room(0, domain.PayoutSingleWinner, false), room(1, domain.PayoutSingleWinner, true))

	_, err := p.CloseRoom(context.Background(), 0)
	require.NoError(t, err)
	_, err = p.CloseRoom(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = p.CloseRoom(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, []string{"close"}, c.sent)
}

func TestSettleRandomPreconditions(t *testing.T) {
	open := room(0, domain.PayoutSingleWinner, false, alice)
	early := room(1, domain.PayoutSingleWinner, true, alice)
	early.SettlementTimestamp = now.Add(time.Minute).Unix()
	ready := room(2, domain.PayoutSingleWinner, true, alice)
	p, c, _ := newPanel(t, open, early, ready)

	_, err := p.SettleRandom(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrRoomNotClosed)
	_, err = p.SettleRandom(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrTooEarly)
	_, err = p.SettleRandom(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, []string{"settle-random"}, c.sent)
}

func TestTop3NeedsThreePlayers(t *testing.T) {
	p, c, _ := newPanel(t, room(0, domain.PayoutTop3, true, alice, bob))

	_, err := p.SettleForced(context.Background(), 0, []common.Address{alice, bob, carol})
	require.ErrorIs(t, err, domain.ErrNotEnoughPlayers)
	require.Empty(t, c.sent)
}

func TestSettleForcedWinnerSelection(t *testing.T) {
	top3 := room(0, domain.PayoutTop3, true, alice, bob, carol)
	single := room(1, domain.PayoutSingleWinner, true, alice, bob)
	p, c, _ := newPanel(t, top3, single)

	for _, winners := range [][]common.Address{
		{alice, bob},
		{alice, bob, bob},
		{alice, bob, common.HexToAddress("0xdead")},
	} {
		_, err := p.SettleForced(context.Background(), 0, winners)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, err := p.SettleForced(context.Background(), 1, []common.Address{alice, bob})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Empty(t, c.sent)

	_, err = p.SettleForced(context.Background(), 0, []common.Address{carol, alice, bob})
	require.NoError(t, err)
	require.Equal(t, []common.Address{carol, alice, bob}, c.winners)
}

func TestTogglePause(t *testing.T) {
	p, c, _ := newPanel(t)

	_, paused, err := p.TogglePause(context.Background())
	require.NoError(t, err)
	require.True(t, paused)

	c.paused = true
	_, paused, err = p.TogglePause(context.Background())
	require.NoError(t, err)
	require.False(t, paused)
	require.Equal(t, []string{"pause", "unpause"}, c.sent)
}

func TestTransferTokens(t *testing.T) {
	p, c, _ := newPanel(t)

	_, err := p.TransferTokens(context.Background(), TransferParams{Sender: alice.Hex(), Amount: "5"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.TransferTokens(context.Background(), TransferParams{Sender: "nope", Receiver: bob.Hex(), Amount: "5"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = p.TransferTokens(context.Background(), TransferParams{Sender: alice.Hex(), Receiver: bob.Hex(), Amount: "5"})
	require.NoError(t, err)
	require.Equal(t, []string{"transfer"}, c.sent)
}

func TestTxFailureCarriesRevertReason(t *testing.T) {
	p, c, _ := newPanel(t)
	c.txErr = errors.New("execution reverted: Pausable: paused")

	_, err := p.Pause(context.Background())
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, "Pausable: paused", actionErr.Message)
}

func TestDeclinedPromptIsRejection(t *testing.T) {
	w, err := wallet.NewKeyWallet(ownerKey, chainID, wallet.ConfirmerFunc(func(context.Context, wallet.Prompt) (bool, error) {
		return false, nil
	}), nil)
	require.NoError(t, err)
	c := &fakeContract{owner: w.Address()}
	p := NewPanel(c, fakeRooms{}, w)

	_, err = p.Pause(context.Background())
	require.ErrorIs(t, err, domain.ErrUserRejected)
	require.Empty(t, c.sent)
}
