package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"betting-service/domain"
	"betting-service/internal/admin"
	"betting-service/internal/handler"
	"betting-service/pkg/tokenamount"

	"github.com/spf13/cobra"
)

func newAdminCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Owner-only contract operations",
	}
	cmd.AddCommand(
		newAdminOverviewCmd(e),
		newAdminCreateCmd(e),
		newAdminCloseCmd(e),
		newAdminSettleRandomCmd(e),
		newAdminSettleForcedCmd(e),
		newAdminPauseCmd(e, "pause"),
		newAdminPauseCmd(e, "unpause"),
		newAdminPauseCmd(e, "toggle-pause"),
		newAdminTransferCmd(e),
	)
	return cmd
}

// runAdmin connects the owner wallet and runs fn on a panel while holding
// the admin slot.
func (e *env) runAdmin(cmd *cobra.Command, fn func(p *admin.Panel) (*admin.TxResult, error)) error {
	if err := e.connectWallet(cmd.Context()); err != nil {
		return err
	}
	panel := admin.NewPanel(e.rooms, e.agg, e.wallet)
	return e.exclusive("admin", func() error {
		res, err := fn(panel)
		if err != nil {
			return err
		}
		if res != nil {
			fmt.Fprintf(e.out, "Confirmed: tx %s (block %d)\n", res.Hash.Hex(), res.BlockNumber)
		}
		return nil
	})
}

func newAdminOverviewCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show all rooms, user balances and the pause flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				ov, err := p.Overview(cmd.Context())
				if err != nil {
					return nil, err
				}
				state := "running"
				if ov.Paused {
					state = "paused"
				}
				fmt.Fprintf(e.out, "Contract is %s\n\n", state)
				printRooms(e.out, ov.Rooms)

				fmt.Fprintln(e.out)
				if len(ov.Users) == 0 {
					fmt.Fprintln(e.out, "No user balances.")
					return nil, nil
				}
				tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "USER\tBALANCE (USDT)")
				for _, u := range ov.Users {
					fmt.Fprintf(tw, "%s\t%s\n", u.Address.Hex(), tokenamount.Format(u.Balance))
				}
				return nil, tw.Flush()
			})
		},
	}
}

type createFlags struct {
	MinStake string `validate:"required,numeric"`
	MaxStake string `validate:"required,numeric"`
	SettleAt string
	SettleIn string
	Payout   string `validate:"required"`
}

func newAdminCreateCmd(e *env) *cobra.Command {
	var flags createFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := handler.Validate(flags); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			pt, err := parsePayout(flags.Payout)
			if err != nil {
				return err
			}
			at, err := parseSettlement(flags.SettleAt, flags.SettleIn, time.Now())
			if err != nil {
				return err
			}
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				return p.CreateRoom(cmd.Context(), admin.CreateRoomParams{
					MinStake:       flags.MinStake,
					MaxStake:       flags.MaxStake,
					SettlementTime: at,
					PayoutType:     pt,
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.MinStake, "min", "", "minimum stake in USDT")
	f.StringVar(&flags.MaxStake, "max", "", "maximum stake in USDT")
	f.StringVar(&flags.SettleAt, "settle-at", "", "settlement time (RFC3339)")
	f.StringVar(&flags.SettleIn, "settle-in", "", "settlement delay from now, e.g. 24h")
	f.StringVar(&flags.Payout, "payout", "single", "single or top3")
	return cmd
}

func newAdminCloseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "close <number>",
		Short: "Close a room to new stakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRoomID(args[0])
			if err != nil {
				return err
			}
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				return p.CloseRoom(cmd.Context(), id)
			})
		},
	}
}

func newAdminSettleRandomCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "settle-random <number>",
		Short: "Settle a closed room with contract-chosen winners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRoomID(args[0])
			if err != nil {
				return err
			}
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				return p.SettleRandom(cmd.Context(), id)
			})
		},
	}
}

func newAdminSettleForcedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "settle-forced <number> <winner>...",
		Short: "Settle a closed room with the given winners, first place first",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRoomID(args[0])
			if err != nil {
				return err
			}
			winners, err := parseAddresses(args[1:])
			if err != nil {
				return err
			}
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				return p.SettleForced(cmd.Context(), id, winners)
			})
		},
	}
}

func newAdminPauseCmd(e *env, use string) *cobra.Command {
	short := map[string]string{
		"pause":        "Pause the contract",
		"unpause":      "Unpause the contract",
		"toggle-pause": "Flip the pause flag",
	}[use]
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				ctx := cmd.Context()
				switch use {
				case "pause":
					return p.Pause(ctx)
				case "unpause":
					return p.Unpause(ctx)
				}
				res, paused, err := p.TogglePause(ctx)
				if err == nil {
					fmt.Fprintf(e.out, "Contract paused: %t\n", paused)
				}
				return res, err
			})
		},
	}
}

type transferFlags struct {
	From   string `validate:"omitempty,ethaddr"`
	To     string `validate:"omitempty,ethaddr"`
	Amount string
}

func newAdminTransferCmd(e *env) *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move tokens between accounts through the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// empty fields are reported by the panel itself
			if err := handler.Validate(flags); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			return e.runAdmin(cmd, func(p *admin.Panel) (*admin.TxResult, error) {
				return p.TransferTokens(cmd.Context(), admin.TransferParams{
					Sender:   flags.From,
					Receiver: flags.To,
					Amount:   flags.Amount,
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.From, "from", "", "sender address")
	f.StringVar(&flags.To, "to", "", "receiver address")
	f.StringVar(&flags.Amount, "amount", "", "amount in USDT")
	return cmd
}
