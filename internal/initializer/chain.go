package initializer

import (
	"context"

	"betting-service/config"
	"betting-service/infra/chain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

type Chain struct {
	Client *ethclient.Client
	Rooms  *chain.BettingRooms
	Token  *chain.Token
}

func InitChain(ctx context.Context, appConfig config.Config) *Chain {
	cfg := appConfig.Chain
	if !common.IsHexAddress(cfg.BettingRoomsAddress) || !common.IsHexAddress(cfg.TokenAddress) {
		zap.L().Fatal("chain.betting_rooms_address and chain.token_address must be set")
	}

	client, err := chain.Dial(ctx, cfg.RPCURLs, cfg.ChainID)
	if err != nil {
		zap.L().Fatal("No usable RPC endpoint", zap.Error(err))
	}

	return &Chain{
		Client: client,
		Rooms:  chain.NewBettingRooms(common.HexToAddress(cfg.BettingRoomsAddress), client),
		Token:  chain.NewToken(common.HexToAddress(cfg.TokenAddress), client),
	}
}
