package httpUsecase

import (
	"context"
	"fmt"
	"net/http"

	"betting-service/domain"
)

type RoomCountUseCase interface {
	Execute(ctx context.Context) (int, uint64, error)
}

type roomCountUseCase struct {
	rooms RoomService
}

func NewRoomCountUseCase(rooms RoomService) RoomCountUseCase {
	return &roomCountUseCase{rooms: rooms}
}

func (u *roomCountUseCase) Execute(ctx context.Context) (int, uint64, error) {
	n, err := u.rooms.RoomCount(ctx)
	if err != nil {
		return http.StatusServiceUnavailable, 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return http.StatusOK, n, nil
}
