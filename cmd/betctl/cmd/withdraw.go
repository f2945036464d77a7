package cmd

import (
	"fmt"

	"betting-service/internal/payout"
	"betting-service/pkg/tokenamount"

	"github.com/spf13/cobra"
)

func newWithdrawCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw all winnings held by the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := e.connectWallet(ctx); err != nil {
				return err
			}
			w := payout.NewWithdrawer(e.rooms, e.wallet, e.cfg.Chain.ChainID)
			return e.exclusive("withdraw", func() error {
				res, err := w.Withdraw(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Withdrew %s USDT (tx %s, block %d)\n",
					tokenamount.Format(res.Amount), res.TxHash.Hex(), res.BlockNumber)
				return nil
			})
		},
	}
}
