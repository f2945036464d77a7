package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract surface used by the service. Only the functions and events that
// are called from Go are listed.
const bettingRoomsABI = `[
  {"type":"function","name":"nextRoomId","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"rooms","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[
    {"name":"minStakeAmount","type":"uint256"},
    {"name":"maxStakeAmount","type":"uint256"},
    {"name":"settlementTimestamp","type":"uint256"},
    {"name":"closed","type":"bool"},
    {"name":"settled","type":"bool"},
    {"name":"payoutType","type":"uint8"}]},
  {"type":"function","name":"getRoomPlayers","stateMutability":"view","inputs":[{"name":"roomId","type":"uint256"}],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"getPlayerStake","stateMutability":"view","inputs":[{"name":"roomId","type":"uint256"},{"name":"player","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"withdrawableBalances","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getAllUsersWithBalances","stateMutability":"view","inputs":[],"outputs":[{"name":"users","type":"address[]"},{"name":"balances","type":"uint256[]"}]},
  {"type":"function","name":"joinRoom","stateMutability":"nonpayable","inputs":[{"name":"roomId","type":"uint256"},{"name":"stakeAmount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"createRoom","stateMutability":"nonpayable","inputs":[{"name":"minStakeAmount","type":"uint256"},{"name":"maxStakeAmount","type":"uint256"},{"name":"settlementTimestamp","type":"uint256"},{"name":"payoutType","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"closeRoom","stateMutability":"nonpayable","inputs":[{"name":"roomId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"settleRoomRandom","stateMutability":"nonpayable","inputs":[{"name":"roomId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"settleRoomForced","stateMutability":"nonpayable","inputs":[{"name":"roomId","type":"uint256"},{"name":"winners","type":"address[]"}],"outputs":[]},
  {"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"transferTokens","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"RoomSettled","anonymous":false,"inputs":[{"name":"roomId","type":"uint256","indexed":true},{"name":"winners","type":"address[]","indexed":false}]}
]`

const erc20ABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	BettingRoomsABI = mustParse(bettingRoomsABI)
	ERC20ABI        = mustParse(erc20ABI)
)

const EventRoomSettled = "RoomSettled"

func mustParse(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
