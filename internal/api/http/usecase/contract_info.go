package httpUsecase

import (
	"context"
	"fmt"
	"net/http"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
)

type ContractInfoUseCase interface {
	Owner(ctx context.Context) (int, common.Address, error)
	Paused(ctx context.Context) (int, bool, error)
}

type contractInfoUseCase struct {
	contract ContractInfo
}

func NewContractInfoUseCase(contract ContractInfo) ContractInfoUseCase {
	return &contractInfoUseCase{contract: contract}
}

func (u *contractInfoUseCase) Owner(ctx context.Context) (int, common.Address, error) {
	owner, err := u.contract.Owner(ctx)
	if err != nil {
		return http.StatusServiceUnavailable, common.Address{}, fmt.Errorf("%w: owner: %v", domain.ErrUnavailable, err)
	}
	return http.StatusOK, owner, nil
}

func (u *contractInfoUseCase) Paused(ctx context.Context) (int, bool, error) {
	paused, err := u.contract.Paused(ctx)
	if err != nil {
		return http.StatusServiceUnavailable, false, fmt.Errorf("%w: paused: %v", domain.ErrUnavailable, err)
	}
	return http.StatusOK, paused, nil
}
