package httpUsecase

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
)

type PlayerStakeUseCase interface {
	Execute(ctx context.Context, roomID uint64, player common.Address) (int, *big.Int, error)
}

type playerStakeUseCase struct {
	rooms RoomService
}

func NewPlayerStakeUseCase(rooms RoomService) PlayerStakeUseCase {
	return &playerStakeUseCase{rooms: rooms}
}

func (u *playerStakeUseCase) Execute(ctx context.Context, roomID uint64, player common.Address) (int, *big.Int, error) {
	// GetRoom distinguishes unknown rooms from RPC failures.
	if _, err := u.rooms.GetRoom(ctx, roomID); err != nil {
		return statusFor(err), nil, err
	}
	stake, err := u.rooms.PlayerStake(ctx, roomID, player)
	if err != nil {
		return http.StatusServiceUnavailable, nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return http.StatusOK, stake, nil
}
