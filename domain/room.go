package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type PayoutType uint8

const (
	PayoutSingleWinner PayoutType = 0
	PayoutTop3         PayoutType = 1
)

func (p PayoutType) String() string {
	switch p {
	case PayoutSingleWinner:
		return "SINGLE_WINNER"
	case PayoutTop3:
		return "TOP_3"
	default:
		return "UNKNOWN"
	}
}

// RequiredWinners is the number of winners a settlement must name.
func (p PayoutType) RequiredWinners() int {
	if p == PayoutTop3 {
		return 3
	}
	return 1
}

// Shares returns the percentage paid to each rank.
func (p PayoutType) Shares() []int64 {
	if p == PayoutTop3 {
		return []int64{50, 30, 20}
	}
	return []int64{100}
}

func ParsePayoutType(s string) (PayoutType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SINGLE_WINNER", "SINGLE", "0":
		return PayoutSingleWinner, true
	case "TOP_3", "TOP3", "1":
		return PayoutTop3, true
	}
	return 0, false
}

type RoomStatus string

const (
	RoomStatusActive  RoomStatus = "active"
	RoomStatusClosed  RoomStatus = "closed"
	RoomStatusSettled RoomStatus = "settled"
)

// RoomRecord is the storage tuple returned by rooms(uint256).
type RoomRecord struct {
	MinStake            *big.Int   `json:"min_stake"`
	MaxStake            *big.Int   `json:"max_stake"`
	SettlementTimestamp int64      `json:"settlement_timestamp"`
	Closed              bool       `json:"closed"`
	Settled             bool       `json:"settled"`
	PayoutType          PayoutType `json:"payout_type"`
}

type Room struct {
	ID        uint64 `json:"id"`
	DisplayID uint64 `json:"display_id"`
	RoomRecord
	Players          []common.Address `json:"players"`
	TotalPool        *big.Int         `json:"total_pool"`
	StakesIncomplete bool             `json:"stakes_incomplete"`
	FetchedAt        time.Time        `json:"fetched_at"`
}

func NewRoom(id uint64, rec RoomRecord) Room {
	return Room{
		ID:         id,
		DisplayID:  id + 1,
		RoomRecord: rec,
		TotalPool:  new(big.Int),
		FetchedAt:  time.Now(),
	}
}

// Active reports whether the room still accepts joins.
func (r *Room) Active() bool {
	return !r.Closed && !r.Settled
}

func (r *Room) Status() RoomStatus {
	switch {
	case r.Settled:
		return RoomStatusSettled
	case r.Closed:
		return RoomStatusClosed
	default:
		return RoomStatusActive
	}
}

func (r *Room) HasPlayer(addr common.Address) bool {
	for _, p := range r.Players {
		if SameAddress(p, addr) {
			return true
		}
	}
	return false
}

// SettlementTime is the earliest moment the room may be settled.
func (r *Room) SettlementTime() time.Time {
	return time.Unix(r.SettlementTimestamp, 0)
}

// SameAddress compares two addresses ignoring checksum casing.
func SameAddress(a, b common.Address) bool {
	return strings.EqualFold(a.Hex(), b.Hex())
}

type RoomSettledEvent struct {
	RoomID      uint64           `json:"room_id"`
	Winners     []common.Address `json:"winners"`
	BlockNumber uint64           `json:"block_number"`
	TxHash      common.Hash      `json:"tx_hash"`
	LogIndex    uint             `json:"log_index"`
}

// Rank returns the position of addr in the winners list, or -1.
func (e *RoomSettledEvent) Rank(addr common.Address) int {
	for i, w := range e.Winners {
		if SameAddress(w, addr) {
			return i
		}
	}
	return -1
}

type SettledRoom struct {
	Room
	Winners    []common.Address `json:"winners"`
	IsWinner   bool             `json:"is_winner"`
	WinnerRank int              `json:"winner_rank"`
	TotalPrize *big.Int         `json:"total_prize"`
}

type UserBalance struct {
	Address common.Address `json:"address"`
	Balance *big.Int       `json:"balance"`
}
