package handler

import (
	"context"

	httpUsecase "betting-service/internal/api/http/usecase"
)

type OwnerRequest struct{}

type OwnerResponse struct {
	Owner string `json:"owner"`
}

type OwnerHandler struct {
	usecase httpUsecase.ContractInfoUseCase
}

func NewOwnerHandler(usecase httpUsecase.ContractInfoUseCase) *OwnerHandler {
	return &OwnerHandler{usecase: usecase}
}

func (h *OwnerHandler) Handle(ctx context.Context, _ *OwnerRequest) (*OwnerResponse, int, error) {
	status, owner, err := h.usecase.Owner(ctx)
	if err != nil {
		return nil, status, err
	}
	return &OwnerResponse{Owner: owner.Hex()}, status, nil
}

type PausedRequest struct{}

type PausedResponse struct {
	Paused bool `json:"paused"`
}

type PausedHandler struct {
	usecase httpUsecase.ContractInfoUseCase
}

func NewPausedHandler(usecase httpUsecase.ContractInfoUseCase) *PausedHandler {
	return &PausedHandler{usecase: usecase}
}

func (h *PausedHandler) Handle(ctx context.Context, _ *PausedRequest) (*PausedResponse, int, error) {
	status, paused, err := h.usecase.Paused(ctx)
	if err != nil {
		return nil, status, err
	}
	return &PausedResponse{Paused: paused}, status, nil
}
