package httpUsecase

import (
	"context"
	"errors"
	"math/big"
	"net/http"

	"betting-service/domain"
	"betting-service/internal/aggregator"

	"github.com/ethereum/go-ethereum/common"
)

type RoomService interface {
	RoomCount(ctx context.Context) (uint64, error)
	ListRooms(ctx context.Context, filter aggregator.Filter) ([]domain.Room, error)
	GetRoom(ctx context.Context, roomID uint64) (*domain.Room, error)
	PlayerStake(ctx context.Context, roomID uint64, player common.Address) (*big.Int, error)
	GetUserRooms(ctx context.Context, user common.Address, q aggregator.UserRoomsQuery) (aggregator.UserRooms, error)
	CalculateWinnings(ctx context.Context, user common.Address) (*big.Int, error)
	WithdrawableBalance(ctx context.Context, user common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, account common.Address) (*big.Int, error)
}

type ContractInfo interface {
	Owner(ctx context.Context) (common.Address, error)
	Paused(ctx context.Context) (bool, error)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
