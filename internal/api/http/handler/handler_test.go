package handler

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http/httptest"
	"testing"

	"betting-service/domain"
	httpUsecase "betting-service/internal/api/http/usecase"
	"betting-service/internal/aggregator"
	"betting-service/internal/handler"
	"betting-service/pkg/tokenamount"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var player = common.HexToAddress("0x00000000000000000000000000000000000000a1")

type fakeRooms struct {
	rooms   map[uint64]*domain.Room
	listErr error
	getErr  error
}

func (f *fakeRooms) RoomCount(context.Context) (uint64, error) { return uint64(len(f.rooms)), nil }

func (f *fakeRooms) ListRooms(_ context.Context, filter aggregator.Filter) ([]domain.Room, error) {
	if f.listErr != nil {
		return []domain.Room{}, f.listErr
	}
	var out []domain.Room
	for id := uint64(0); id < uint64(len(f.rooms)); id++ {
		out = append(out, *f.rooms[id])
	}
	return out, nil
}

func (f *fakeRooms) GetRoom(_ context.Context, id uint64) (*domain.Room, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRooms) PlayerStake(context.Context, uint64, common.Address) (*big.Int, error) {
	return tokenamount.MustParse("20"), nil
}

func (f *fakeRooms) GetUserRooms(_ context.Context, _ common.Address, q aggregator.UserRoomsQuery) (aggregator.UserRooms, error) {
	if q.Settled {
		return aggregator.UserRooms{Settled: []domain.SettledRoom{{Room: *f.rooms[0], IsWinner: true, TotalPrize: big.NewInt(50_000_000)}}}, nil
	}
	return aggregator.UserRooms{Active: []domain.Room{*f.rooms[0]}}, nil
}

func (f *fakeRooms) CalculateWinnings(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(32_000_000), nil
}

func (f *fakeRooms) WithdrawableBalance(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(1_500_000), nil
}

func (f *fakeRooms) TokenBalance(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func newApp(rooms *fakeRooms) *fiber.App {
	app := fiber.New()
	app.Get("/rooms", handler.HandleWithFiber[ListRoomsRequest, ListRoomsResponse](NewListRoomsHandler(httpUsecase.NewListRoomsUseCase(rooms))))
	app.Get("/rooms/count", handler.HandleWithFiber[RoomCountRequest, RoomCountResponse](NewRoomCountHandler(httpUsecase.NewRoomCountUseCase(rooms))))
	app.Get("/rooms/:room_id", handler.HandleWithFiber[GetRoomRequest, GetRoomResponse](NewGetRoomHandler(httpUsecase.NewGetRoomUseCase(rooms))))
	app.Get("/rooms/:room_id/chance", handler.HandleWithFiber[WinningChanceRequest, WinningChanceResponse](NewWinningChanceHandler(httpUsecase.NewWinningChanceUseCase(rooms))))
	app.Get("/rooms/:room_id/stakes/:address", handler.HandleWithFiber[PlayerStakeRequest, PlayerStakeResponse](NewPlayerStakeHandler(httpUsecase.NewPlayerStakeUseCase(rooms))))
	app.Get("/users/:address/rooms", handler.HandleWithFiber[UserRoomsRequest, UserRoomsResponse](NewUserRoomsHandler(httpUsecase.NewUserRoomsUseCase(rooms))))
	app.Get("/users/:address/winnings", handler.HandleWithFiber[WinningsRequest, WinningsResponse](NewWinningsHandler(httpUsecase.NewWinningsUseCase(rooms))))
	app.Get("/users/:address/balance", handler.HandleWithFiber[UserBalanceRequest, UserBalanceResponse](NewUserBalanceHandler(httpUsecase.NewUserBalanceUseCase(rooms))))
	return app
}

func seeded() *fakeRooms {
	r := domain.NewRoom(0, domain.RoomRecord{
		MinStake:            tokenamount.MustParse("10"),
		MaxStake:            tokenamount.MustParse("100"),
		SettlementTimestamp: 1_900_000_000,
	})
	r.Players = []common.Address{player}
	r.TotalPool = tokenamount.MustParse("50")
	return &fakeRooms{rooms: map[uint64]*domain.Room{0: &r}}
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestGetRoom(t *testing.T) {
	status, body := get(t, newApp(seeded()), "/rooms/0")
	require.Equal(t, fiber.StatusOK, status)
	room := body["room"].(map[string]interface{})
	require.Equal(t, "50.0", room["total_pool"])
	require.Equal(t, "50000000", room["total_pool_units"])
	require.Equal(t, float64(1), room["display_id"])
	require.Equal(t, "active", room["status"])
	require.Equal(t, "SINGLE_WINNER", room["payout_type"])
}

func TestGetRoomNotFound(t *testing.T) {
	status, body := get(t, newApp(seeded()), "/rooms/9")
	require.Equal(t, fiber.StatusNotFound, status)
	require.NotEmpty(t, body["error"])
	require.Nil(t, body["retry"])
}

func TestUnavailableIsRetryable(t *testing.T) {
	rooms := seeded()
	rooms.getErr = domain.ErrUnavailable
	status, body := get(t, newApp(rooms), "/rooms/0")
	require.Equal(t, fiber.StatusServiceUnavailable, status)
	require.Equal(t, true, body["retry"])

	rooms.listErr = domain.ErrUnavailable
	status, body = get(t, newApp(rooms), "/rooms")
	require.Equal(t, fiber.StatusServiceUnavailable, status)
	require.Equal(t, true, body["retry"])
}

func TestListRoomsValidatesStatus(t *testing.T) {
	status, _ := get(t, newApp(seeded()), "/rooms?status=bogus")
	require.Equal(t, fiber.StatusBadRequest, status)

	status, body := get(t, newApp(seeded()), "/rooms?status=active")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body["rooms"], 1)
}

func TestRoomCount(t *testing.T) {
	status, body := get(t, newApp(seeded()), "/rooms/count")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, float64(1), body["count"])
}

func TestWinningChance(t *testing.T) {
	status, body := get(t, newApp(seeded()), "/rooms/0/chance?amount=55")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "54.0", body["chance"])

	status, _ = get(t, newApp(seeded()), "/rooms/0/chance?amount=1e3")
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestPlayerStakeRejectsBadAddress(t *testing.T) {
	status, _ := get(t, newApp(seeded()), "/rooms/0/stakes/not-an-address")
	require.Equal(t, fiber.StatusBadRequest, status)

	status, body := get(t, newApp(seeded()), "/rooms/0/stakes/"+player.Hex())
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "20.0", body["stake"].(map[string]interface{})["amount"])
}

func TestUserViews(t *testing.T) {
	app := newApp(seeded())

	status, body := get(t, app, "/users/"+player.Hex()+"/winnings")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "32.0", body["winnings"].(map[string]interface{})["amount"])

	status, body = get(t, app, "/users/"+player.Hex()+"/rooms?settled=true")
	require.Equal(t, fiber.StatusOK, status)
	settled := body["settled"].([]interface{})
	require.Len(t, settled, 1)
	require.Equal(t, true, settled[0].(map[string]interface{})["is_winner"])

	status, body = get(t, app, "/users/"+player.Hex()+"/balance")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "1.5", body["withdrawable"].(map[string]interface{})["amount"])
	require.Equal(t, "0.0", body["token"].(map[string]interface{})["amount"])
}
