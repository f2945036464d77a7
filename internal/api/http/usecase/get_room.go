package httpUsecase

import (
	"context"
	"net/http"

	"betting-service/domain"
)

type GetRoomUseCase interface {
	Execute(ctx context.Context, roomID uint64) (int, *domain.Room, error)
}

type getRoomUseCase struct {
	rooms RoomService
}

func NewGetRoomUseCase(rooms RoomService) GetRoomUseCase {
	return &getRoomUseCase{rooms: rooms}
}

func (u *getRoomUseCase) Execute(ctx context.Context, roomID uint64) (int, *domain.Room, error) {
	room, err := u.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return statusFor(err), nil, err
	}
	return http.StatusOK, room, nil
}
