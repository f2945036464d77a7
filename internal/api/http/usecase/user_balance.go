package httpUsecase

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
)

type Balances struct {
	Withdrawable *big.Int
	Token        *big.Int
}

type UserBalanceUseCase interface {
	Execute(ctx context.Context, user common.Address) (int, *Balances, error)
}

type userBalanceUseCase struct {
	rooms RoomService
}

func NewUserBalanceUseCase(rooms RoomService) UserBalanceUseCase {
	return &userBalanceUseCase{rooms: rooms}
}

func (u *userBalanceUseCase) Execute(ctx context.Context, user common.Address) (int, *Balances, error) {
	withdrawable, err := u.rooms.WithdrawableBalance(ctx, user)
	if err != nil {
		return http.StatusServiceUnavailable, nil, fmt.Errorf("%w: withdrawable balance: %v", domain.ErrUnavailable, err)
	}
	token, err := u.rooms.TokenBalance(ctx, user)
	if err != nil {
		return http.StatusServiceUnavailable, nil, fmt.Errorf("%w: token balance: %v", domain.ErrUnavailable, err)
	}
	return http.StatusOK, &Balances{Withdrawable: withdrawable, Token: token}, nil
}
