package httpUsecase

import (
	"context"
	"net/http"

	"betting-service/internal/aggregator"

	"github.com/ethereum/go-ethereum/common"
)

type UserRoomsUseCase interface {
	Execute(ctx context.Context, user common.Address, settled bool) (int, aggregator.UserRooms, error)
}

type userRoomsUseCase struct {
	rooms RoomService
}

func NewUserRoomsUseCase(rooms RoomService) UserRoomsUseCase {
	return &userRoomsUseCase{rooms: rooms}
}

func (u *userRoomsUseCase) Execute(ctx context.Context, user common.Address, settled bool) (int, aggregator.UserRooms, error) {
	res, err := u.rooms.GetUserRooms(ctx, user, aggregator.UserRoomsQuery{Settled: settled})
	if err != nil {
		return statusFor(err), aggregator.UserRooms{}, err
	}
	return http.StatusOK, res, nil
}
