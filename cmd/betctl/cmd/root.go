// Package cmd implements betctl, a terminal client for the betting
// contract. The configured private key acts as the wallet and every signature
// or transaction is confirmed at the prompt unless --yes is given.
package cmd

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	"betting-service/config"
	"betting-service/domain"
	"betting-service/infra/chain"
	"betting-service/internal/aggregator"
	"betting-service/internal/coordinator"
	"betting-service/internal/wallet"
	logpkg "betting-service/log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type env struct {
	cfg config.Config
	yes bool
	in  io.Reader
	out io.Writer

	client *ethclient.Client
	rooms  *chain.BettingRooms
	token  *chain.Token
	agg    *aggregator.Aggregator
	wallet *wallet.KeyWallet
	coord  *coordinator.Coordinator
}

// NewRootCmd creates the betctl command tree.
func NewRootCmd() *cobra.Command {
	e := &env{in: os.Stdin, coord: coordinator.New()}

	rootCmd := &cobra.Command{
		Use:           "betctl",
		Short:         "Browse betting rooms, stake, withdraw and administer the contract",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			zap.ReplaceGlobals(logpkg.New(os.Getenv("BETCTL_LOG_LEVEL"), "warn"))
			e.out = cmd.OutOrStdout()
			e.cfg = config.Read()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.client != nil {
				e.client.Close()
			}
			_ = zap.L().Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&e.yes, "yes", "y", false, "approve every signature and transaction without asking")

	rootCmd.AddCommand(
		newRoomsCmd(e),
		newRoomCmd(e),
		newChanceCmd(e),
		newJoinCmd(e),
		newWithdrawCmd(e),
		newWinningsCmd(e),
		newMyRoomsCmd(e),
		newAdminCmd(e),
	)
	return rootCmd
}

// connect dials the first usable RPC endpoint and builds the readers.
func (e *env) connect(ctx context.Context) error {
	if e.agg != nil {
		return nil
	}
	cfg := e.cfg.Chain
	if !common.IsHexAddress(cfg.BettingRoomsAddress) || !common.IsHexAddress(cfg.TokenAddress) {
		return fmt.Errorf("chain.betting_rooms_address and chain.token_address must be configured")
	}

	client, err := chain.Dial(ctx, cfg.RPCURLs, cfg.ChainID)
	if err != nil {
		return err
	}
	e.client = client
	e.rooms = chain.NewBettingRooms(common.HexToAddress(cfg.BettingRoomsAddress), client)
	e.token = chain.NewToken(common.HexToAddress(cfg.TokenAddress), client)

	policy, err := aggregator.ParseSplitPolicy(e.cfg.Aggregator.Top3Split)
	if err != nil {
		policy = aggregator.SplitRanked
	}
	e.agg = aggregator.New(e.rooms,
		&chain.SettlementLog{Rooms: e.rooms, FromBlock: cfg.StartBlock, Chunk: cfg.LogChunk},
		aggregator.WithConcurrency(e.cfg.Aggregator.Concurrency),
		aggregator.WithSplitPolicy(policy),
		aggregator.WithBalances(e.rooms, e.token),
	)
	return nil
}

// connectWallet also loads the signing key.
func (e *env) connectWallet(ctx context.Context) error {
	if err := e.connect(ctx); err != nil {
		return err
	}
	if e.wallet != nil {
		return nil
	}

	var confirmer wallet.Confirmer = wallet.NewTerminalConfirmer(e.in, e.out)
	if e.yes {
		confirmer = wallet.AutoConfirm
	}
	chainID, err := nodeChainID(ctx, e.client)
	if err != nil {
		return err
	}
	w, err := wallet.NewKeyWallet(e.cfg.Wallet.PrivateKey, chainID, confirmer, nil)
	if err != nil {
		return fmt.Errorf("%w (set wallet.private_key or BET_WALLET_PRIVATE_KEY)", err)
	}
	e.wallet = w
	return nil
}

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// nodeChainID is the network the wallet session reports. It comes from the
// node so the workflows' network check compares against the real chain.
func nodeChainID(ctx context.Context, node chainIDReader) (int64, error) {
	id, err := node.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: chain id: %v", domain.ErrUnavailable, err)
	}
	return id.Int64(), nil
}

// exclusive runs fn while holding the coordinator slot for kind.
func (e *env) exclusive(kind string, fn func() error) error {
	id, err := e.coord.Acquire(kind)
	if err != nil {
		return err
	}
	defer e.coord.Release(id)
	return fn()
}

// address returns flagValue when set, otherwise the wallet address.
func (e *env) address(ctx context.Context, flagValue string) (common.Address, error) {
	if flagValue != "" {
		if !common.IsHexAddress(flagValue) {
			return common.Address{}, fmt.Errorf("invalid address %q", flagValue)
		}
		return common.HexToAddress(flagValue), nil
	}
	if err := e.connectWallet(ctx); err != nil {
		return common.Address{}, err
	}
	return e.wallet.Address(), nil
}
