package cmd

import (
	"fmt"

	"betting-service/internal/aggregator"
	"betting-service/pkg/tokenamount"

	"github.com/spf13/cobra"
)

func newWinningsCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "winnings",
		Short: "Show total winnings and the withdrawable balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := e.connect(ctx); err != nil {
				return err
			}
			user, err := e.address(ctx, addr)
			if err != nil {
				return err
			}
			total, err := e.agg.CalculateWinnings(ctx, user)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Total winnings:   %s USDT\n", tokenamount.Format(total))

			if balance, err := e.agg.WithdrawableBalance(ctx, user); err == nil {
				fmt.Fprintf(e.out, "Withdrawable:     %s USDT\n", tokenamount.Format(balance))
			}
			if balance, err := e.agg.TokenBalance(ctx, user); err == nil {
				fmt.Fprintf(e.out, "Wallet balance:   %s USDT\n", tokenamount.Format(balance))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "address to inspect (defaults to the wallet)")
	return cmd
}

func newMyRoomsCmd(e *env) *cobra.Command {
	var (
		addr    string
		settled bool
	)
	cmd := &cobra.Command{
		Use:   "my-rooms",
		Short: "List rooms the address has joined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := e.connect(ctx); err != nil {
				return err
			}
			user, err := e.address(ctx, addr)
			if err != nil {
				return err
			}
			rooms, err := e.agg.GetUserRooms(ctx, user, aggregator.UserRoomsQuery{Settled: settled})
			if err != nil {
				return err
			}
			if settled {
				printSettled(e.out, rooms.Settled)
			} else {
				printRooms(e.out, rooms.Active)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "address to inspect (defaults to the wallet)")
	cmd.Flags().BoolVar(&settled, "settled", false, "show settled rooms and results instead of active ones")
	return cmd
}
