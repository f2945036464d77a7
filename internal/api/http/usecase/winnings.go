package httpUsecase

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

type WinningsUseCase interface {
	Execute(ctx context.Context, user common.Address) (int, *big.Int, error)
}

type winningsUseCase struct {
	rooms RoomService
}

func NewWinningsUseCase(rooms RoomService) WinningsUseCase {
	return &winningsUseCase{rooms: rooms}
}

func (u *winningsUseCase) Execute(ctx context.Context, user common.Address) (int, *big.Int, error) {
	total, err := u.rooms.CalculateWinnings(ctx, user)
	if err != nil {
		return statusFor(err), nil, err
	}
	return http.StatusOK, total, nil
}
