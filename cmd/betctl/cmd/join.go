package cmd

import (
	"fmt"

	"betting-service/internal/staking"
	"betting-service/pkg/chainerr"
	"betting-service/pkg/tokenamount"

	"github.com/spf13/cobra"
)

var stepLabels = map[staking.State]string{
	staking.StateSigning:   "Step 1/3: sign the participation disclaimer",
	staking.StateApproving: "Step 2/3: approve the token allowance",
	staking.StateJoining:   "Step 3/3: join the room",
}

func newJoinCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "join <number> <amount>",
		Short: "Stake USDT into a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRoomID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := e.connectWallet(ctx); err != nil {
				return err
			}

			wf := staking.NewWorkflow(e.agg, e.rooms, e.token, e.wallet, e.cfg.Chain.ChainID)
			wf.OnTransition(func(_, to staking.State, _ staking.Event) {
				if label, ok := stepLabels[to]; ok {
					fmt.Fprintln(e.out, label)
				}
			})

			return e.exclusive("stake", func() error {
				rcpt, err := wf.Run(ctx, staking.JoinRequest{RoomID: id, Amount: args[1]})
				if err != nil {
					if chainerr.IsUserRejection(err) {
						return fmt.Errorf("cancelled: %w", err)
					}
					return err
				}
				fmt.Fprintf(e.out, "Joined room #%d with %s USDT\n", rcpt.DisplayID, tokenamount.Format(rcpt.Amount))
				if rcpt.ApprovalTx != nil {
					fmt.Fprintf(e.out, "  approval tx: %s\n", rcpt.ApprovalTx.Hex())
				}
				fmt.Fprintf(e.out, "  join tx:     %s (block %d)\n", rcpt.JoinTx.Hex(), rcpt.BlockNumber)
				return nil
			})
		},
	}
}
