package handler

import (
	"math/big"
	"time"

	"betting-service/domain"
	"betting-service/pkg/tokenamount"
)

// Amounts are sent both as base units and as 6-decimal display strings.

type RoomView struct {
	ID               uint64   `json:"id"`
	DisplayID        uint64   `json:"display_id"`
	Status           string   `json:"status"`
	PayoutType       string   `json:"payout_type"`
	MinStake         string   `json:"min_stake"`
	MaxStake         string   `json:"max_stake"`
	MinStakeUnits    string   `json:"min_stake_units"`
	MaxStakeUnits    string   `json:"max_stake_units"`
	TotalPool        string   `json:"total_pool"`
	TotalPoolUnits   string   `json:"total_pool_units"`
	SettlementTime   string   `json:"settlement_time"`
	Players          []string `json:"players"`
	StakesIncomplete bool     `json:"stakes_incomplete,omitempty"`
}

func NewRoomView(r *domain.Room) RoomView {
	players := make([]string, len(r.Players))
	for i, p := range r.Players {
		players[i] = p.Hex()
	}
	return RoomView{
		ID:               r.ID,
		DisplayID:        r.DisplayID,
		Status:           string(r.Status()),
		PayoutType:       r.PayoutType.String(),
		MinStake:         tokenamount.Format(r.MinStake),
		MaxStake:         tokenamount.Format(r.MaxStake),
		MinStakeUnits:    units(r.MinStake),
		MaxStakeUnits:    units(r.MaxStake),
		TotalPool:        tokenamount.Format(r.TotalPool),
		TotalPoolUnits:   units(r.TotalPool),
		SettlementTime:   r.SettlementTime().UTC().Format(time.RFC3339),
		Players:          players,
		StakesIncomplete: r.StakesIncomplete,
	}
}

func NewRoomViews(rooms []domain.Room) []RoomView {
	out := make([]RoomView, len(rooms))
	for i := range rooms {
		out[i] = NewRoomView(&rooms[i])
	}
	return out
}

type SettledRoomView struct {
	RoomView
	Winners    []string `json:"winners"`
	IsWinner   bool     `json:"is_winner"`
	WinnerRank int      `json:"winner_rank"`
	TotalPrize string   `json:"total_prize"`
}

func NewSettledRoomView(r *domain.SettledRoom) SettledRoomView {
	winners := make([]string, len(r.Winners))
	for i, w := range r.Winners {
		winners[i] = w.Hex()
	}
	return SettledRoomView{
		RoomView:   NewRoomView(&r.Room),
		Winners:    winners,
		IsWinner:   r.IsWinner,
		WinnerRank: r.WinnerRank,
		TotalPrize: tokenamount.Format(r.TotalPrize),
	}
}

type AmountView struct {
	Amount string `json:"amount"`
	Units  string `json:"units"`
}

func NewAmountView(v *big.Int) AmountView {
	return AmountView{Amount: tokenamount.Format(v), Units: units(v)}
}

func units(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
