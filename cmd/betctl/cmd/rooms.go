package cmd

import (
	"errors"
	"fmt"

	"betting-service/domain"
	"betting-service/internal/aggregator"
	"betting-service/internal/staking"
	"betting-service/pkg/tokenamount"

	"github.com/spf13/cobra"
)

func newRoomsCmd(e *env) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := aggregator.ParseFilter(status)
			if err != nil {
				return err
			}
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
			rooms, err := e.agg.ListRooms(cmd.Context(), filter)
			if errors.Is(err, domain.ErrUnavailable) {
				return fmt.Errorf("could not reach the network, try again: %w", err)
			}
			if err != nil {
				return err
			}
			printRooms(e.out, rooms)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "active", "all, active, closed or settled")
	return cmd
}

func newRoomCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "room <number>",
		Short: "Show one room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRoomID(args[0])
			if err != nil {
				return err
			}
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
			room, err := e.agg.GetRoom(cmd.Context(), id)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("room %s does not exist", args[0])
			}
			if err != nil {
				return err
			}
			printRoom(e.out, room)
			return nil
		},
	}
}

func newChanceCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chance <number> <amount>",
		Short: "Show the displayed winning chance for a stake",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRoomID(args[0])
			if err != nil {
				return err
			}
			amount, err := tokenamount.Parse(args[1])
			if err != nil {
				return err
			}
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
			room, err := e.agg.GetRoom(cmd.Context(), id)
			if err != nil {
				return err
			}
			chance := staking.WinningChance(amount, room.MinStake, room.MaxStake)
			fmt.Fprintf(e.out, "Staking %s USDT in room #%d: %s%% winning chance\n",
				tokenamount.Format(amount), room.DisplayID, staking.FormatChance(chance))
			return nil
		},
	}
}
