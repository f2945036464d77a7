package handler

import (
	"context"

	httpUsecase "betting-service/internal/api/http/usecase"

	"github.com/gofiber/fiber/v2"
)

type ListRoomsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=all active closed settled"`
}

type ListRoomsResponse struct {
	Rooms []RoomView `json:"rooms"`
}

type ListRoomsHandler struct {
	usecase httpUsecase.ListRoomsUseCase
}

func NewListRoomsHandler(usecase httpUsecase.ListRoomsUseCase) *ListRoomsHandler {
	return &ListRoomsHandler{usecase: usecase}
}

func (h *ListRoomsHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *ListRoomsRequest) (*ListRoomsResponse, int, error) {
	status, rooms, err := h.usecase.Execute(ctx, req.Status)
	if err != nil {
		return nil, status, err
	}
	return &ListRoomsResponse{Rooms: NewRoomViews(rooms)}, status, nil
}

type RoomCountRequest struct{}

type RoomCountResponse struct {
	Count uint64 `json:"count"`
}

type RoomCountHandler struct {
	usecase httpUsecase.RoomCountUseCase
}

func NewRoomCountHandler(usecase httpUsecase.RoomCountUseCase) *RoomCountHandler {
	return &RoomCountHandler{usecase: usecase}
}

func (h *RoomCountHandler) Handle(_ *fiber.Ctx, ctx context.Context, _ *RoomCountRequest) (*RoomCountResponse, int, error) {
	status, n, err := h.usecase.Execute(ctx)
	if err != nil {
		return nil, status, err
	}
	return &RoomCountResponse{Count: n}, status, nil
}

type GetRoomRequest struct {
	RoomID uint64 `params:"room_id"`
}

type GetRoomResponse struct {
	Room RoomView `json:"room"`
}

type GetRoomHandler struct {
	usecase httpUsecase.GetRoomUseCase
}

func NewGetRoomHandler(usecase httpUsecase.GetRoomUseCase) *GetRoomHandler {
	return &GetRoomHandler{usecase: usecase}
}

func (h *GetRoomHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *GetRoomRequest) (*GetRoomResponse, int, error) {
	status, room, err := h.usecase.Execute(ctx, req.RoomID)
	if err != nil {
		return nil, status, err
	}
	return &GetRoomResponse{Room: NewRoomView(room)}, status, nil
}

type PlayerStakeRequest struct {
	RoomID  uint64 `params:"room_id"`
	Address string `params:"address" validate:"required,ethaddr"`
}

type PlayerStakeResponse struct {
	RoomID  uint64     `json:"room_id"`
	Address string     `json:"address"`
	Stake   AmountView `json:"stake"`
}

type PlayerStakeHandler struct {
	usecase httpUsecase.PlayerStakeUseCase
}

func NewPlayerStakeHandler(usecase httpUsecase.PlayerStakeUseCase) *PlayerStakeHandler {
	return &PlayerStakeHandler{usecase: usecase}
}

func (h *PlayerStakeHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *PlayerStakeRequest) (*PlayerStakeResponse, int, error) {
	addr := parseAddress(req.Address)
	status, stake, err := h.usecase.Execute(ctx, req.RoomID, addr)
	if err != nil {
		return nil, status, err
	}
	return &PlayerStakeResponse{RoomID: req.RoomID, Address: addr.Hex(), Stake: NewAmountView(stake)}, status, nil
}

type WinningChanceRequest struct {
	RoomID uint64 `params:"room_id"`
	Amount string `query:"amount" validate:"required"`
}

type WinningChanceResponse struct {
	RoomID uint64 `json:"room_id"`
	Amount string `json:"amount"`
	Chance string `json:"chance"`
}

type WinningChanceHandler struct {
	usecase httpUsecase.WinningChanceUseCase
}

func NewWinningChanceHandler(usecase httpUsecase.WinningChanceUseCase) *WinningChanceHandler {
	return &WinningChanceHandler{usecase: usecase}
}

func (h *WinningChanceHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *WinningChanceRequest) (*WinningChanceResponse, int, error) {
	status, res, err := h.usecase.Execute(ctx, req.RoomID, req.Amount)
	if err != nil {
		return nil, status, err
	}
	return &WinningChanceResponse{RoomID: req.RoomID, Amount: req.Amount, Chance: res.Chance}, status, nil
}
