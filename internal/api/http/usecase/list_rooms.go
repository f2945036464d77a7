package httpUsecase

import (
	"context"
	"fmt"
	"net/http"

	"betting-service/domain"
	"betting-service/internal/aggregator"
)

type ListRoomsUseCase interface {
	Execute(ctx context.Context, status string) (int, []domain.Room, error)
}

type listRoomsUseCase struct {
	rooms RoomService
}

func NewListRoomsUseCase(rooms RoomService) ListRoomsUseCase {
	return &listRoomsUseCase{rooms: rooms}
}

func (u *listRoomsUseCase) Execute(ctx context.Context, status string) (int, []domain.Room, error) {
	filter, err := aggregator.ParseFilter(status)
	if err != nil {
		return http.StatusBadRequest, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rooms, err := u.rooms.ListRooms(ctx, filter)
	if err != nil {
		return statusFor(err), nil, err
	}
	return http.StatusOK, rooms, nil
}
