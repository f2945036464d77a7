package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"betting-service/domain"
	"betting-service/pkg/tokenamount"
)

func printRooms(out io.Writer, rooms []domain.Room) {
	if len(rooms) == 0 {
		fmt.Fprintln(out, "No rooms.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tSTATUS\tPAYOUT\tSTAKE (USDT)\tPOOL (USDT)\tPLAYERS\tSETTLES")
	for i := range rooms {
		r := &rooms[i]
		pool := tokenamount.Format(r.TotalPool)
		if r.StakesIncomplete {
			pool += "*"
		}
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s-%s\t%s\t%d\t%s\n",
			r.DisplayID, r.Status(), r.PayoutType,
			tokenamount.Format(r.MinStake), tokenamount.Format(r.MaxStake),
			pool, len(r.Players), r.SettlementTime().Local().Format(time.DateTime))
	}
	tw.Flush()
}

func printRoom(out io.Writer, r *domain.Room) {
	fmt.Fprintf(out, "Room #%d (%s)\n", r.DisplayID, r.Status())
	fmt.Fprintf(out, "  Payout:      %s\n", r.PayoutType)
	fmt.Fprintf(out, "  Stake range: %s - %s USDT\n", tokenamount.Format(r.MinStake), tokenamount.Format(r.MaxStake))
	fmt.Fprintf(out, "  Total pool:  %s USDT\n", tokenamount.Format(r.TotalPool))
	if r.StakesIncomplete {
		fmt.Fprintln(out, "               (some stakes could not be read)")
	}
	fmt.Fprintf(out, "  Settles:     %s\n", r.SettlementTime().Local().Format(time.DateTime))
	fmt.Fprintf(out, "  Players:     %d\n", len(r.Players))
	for _, p := range r.Players {
		fmt.Fprintf(out, "    %s\n", p.Hex())
	}
}

func printSettled(out io.Writer, rooms []domain.SettledRoom) {
	if len(rooms) == 0 {
		fmt.Fprintln(out, "No settled rooms.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tPAYOUT\tPRIZE (USDT)\tRESULT")
	for i := range rooms {
		r := &rooms[i]
		result := "lost"
		if r.IsWinner {
			result = fmt.Sprintf("won (rank %d)", r.WinnerRank+1)
		}
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", r.DisplayID, r.PayoutType, tokenamount.Format(r.TotalPrize), result)
	}
	tw.Flush()
}
