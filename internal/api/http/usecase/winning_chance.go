package httpUsecase

import (
	"context"
	"fmt"
	"net/http"

	"betting-service/domain"
	"betting-service/internal/staking"
	"betting-service/pkg/tokenamount"
)

type ChanceResult struct {
	Room   *domain.Room
	Chance string
}

type WinningChanceUseCase interface {
	Execute(ctx context.Context, roomID uint64, amount string) (int, *ChanceResult, error)
}

type winningChanceUseCase struct {
	rooms RoomService
}

func NewWinningChanceUseCase(rooms RoomService) WinningChanceUseCase {
	return &winningChanceUseCase{rooms: rooms}
}

func (u *winningChanceUseCase) Execute(ctx context.Context, roomID uint64, amount string) (int, *ChanceResult, error) {
	stake, err := tokenamount.Parse(amount)
	if err != nil {
		return http.StatusBadRequest, nil, fmt.Errorf("%w: amount: %v", domain.ErrInvalidInput, err)
	}
	room, err := u.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return statusFor(err), nil, err
	}
	chance := staking.WinningChance(stake, room.MinStake, room.MaxStake)
	return http.StatusOK, &ChanceResult{Room: room, Chance: staking.FormatChance(chance)}, nil
}
