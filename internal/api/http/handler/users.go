package handler

import (
	"context"

	httpUsecase "betting-service/internal/api/http/usecase"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
)

func parseAddress(s string) common.Address {
	return common.HexToAddress(s)
}

type UserRoomsRequest struct {
	Address string `params:"address" validate:"required,ethaddr"`
	Settled bool   `query:"settled"`
}

type UserRoomsResponse struct {
	Address string            `json:"address"`
	Active  []RoomView        `json:"active,omitempty"`
	Settled []SettledRoomView `json:"settled,omitempty"`
}

type UserRoomsHandler struct {
	usecase httpUsecase.UserRoomsUseCase
}

func NewUserRoomsHandler(usecase httpUsecase.UserRoomsUseCase) *UserRoomsHandler {
	return &UserRoomsHandler{usecase: usecase}
}

func (h *UserRoomsHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *UserRoomsRequest) (*UserRoomsResponse, int, error) {
	addr := parseAddress(req.Address)
	status, rooms, err := h.usecase.Execute(ctx, addr, req.Settled)
	if err != nil {
		return nil, status, err
	}

	res := &UserRoomsResponse{Address: addr.Hex()}
	if req.Settled {
		res.Settled = make([]SettledRoomView, len(rooms.Settled))
		for i := range rooms.Settled {
			res.Settled[i] = NewSettledRoomView(&rooms.Settled[i])
		}
	} else {
		res.Active = NewRoomViews(rooms.Active)
	}
	return res, status, nil
}

type WinningsRequest struct {
	Address string `params:"address" validate:"required,ethaddr"`
}

type WinningsResponse struct {
	Address  string     `json:"address"`
	Winnings AmountView `json:"winnings"`
}

type WinningsHandler struct {
	usecase httpUsecase.WinningsUseCase
}

func NewWinningsHandler(usecase httpUsecase.WinningsUseCase) *WinningsHandler {
	return &WinningsHandler{usecase: usecase}
}

func (h *WinningsHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *WinningsRequest) (*WinningsResponse, int, error) {
	addr := parseAddress(req.Address)
	status, total, err := h.usecase.Execute(ctx, addr)
	if err != nil {
		return nil, status, err
	}
	return &WinningsResponse{Address: addr.Hex(), Winnings: NewAmountView(total)}, status, nil
}

type UserBalanceRequest struct {
	Address string `params:"address" validate:"required,ethaddr"`
}

type UserBalanceResponse struct {
	Address      string     `json:"address"`
	Withdrawable AmountView `json:"withdrawable"`
	Token        AmountView `json:"token"`
}

type UserBalanceHandler struct {
	usecase httpUsecase.UserBalanceUseCase
}

func NewUserBalanceHandler(usecase httpUsecase.UserBalanceUseCase) *UserBalanceHandler {
	return &UserBalanceHandler{usecase: usecase}
}

func (h *UserBalanceHandler) Handle(_ *fiber.Ctx, ctx context.Context, req *UserBalanceRequest) (*UserBalanceResponse, int, error) {
	addr := parseAddress(req.Address)
	status, b, err := h.usecase.Execute(ctx, addr)
	if err != nil {
		return nil, status, err
	}
	return &UserBalanceResponse{
		Address:      addr.Hex(),
		Withdrawable: NewAmountView(b.Withdrawable),
		Token:        NewAmountView(b.Token),
	}, status, nil
}
