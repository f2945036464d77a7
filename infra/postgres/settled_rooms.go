package postgres

import (
	"context"
	"fmt"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lib/pq"
)

// SaveSettlement stores one RoomSettled log. It reports false when the log
// was already indexed.
func (r *Repository) SaveSettlement(ctx context.Context, ev domain.RoomSettledEvent) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO settled_rooms (room_id, winners, block_number, tx_hash, log_index)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (tx_hash, log_index) DO NOTHING`,
		ev.RoomID, pq.Array(addressStrings(ev.Winners)), ev.BlockNumber, ev.TxHash.Hex(), ev.LogIndex,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// SettledEvents returns every indexed settlement in chain order.
func (r *Repository) SettledEvents(ctx context.Context) ([]domain.RoomSettledEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT room_id, winners, block_number, tx_hash, log_index
		 FROM settled_rooms
		 ORDER BY block_number, log_index`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query settlements: %v", domain.ErrUnavailable, err)
	}
	defer rows.Close()

	var events []domain.RoomSettledEvent
	for rows.Next() {
		var (
			ev      domain.RoomSettledEvent
			winners []string
			txHash  string
		)
		if err := rows.Scan(&ev.RoomID, pq.Array(&winners), &ev.BlockNumber, &txHash, &ev.LogIndex); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		ev.Winners = parseAddresses(winners)
		ev.TxHash = common.HexToHash(txHash)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return events, nil
}

func addressStrings(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}

func parseAddresses(ss []string) []common.Address {
	out := make([]common.Address, len(ss))
	for i, s := range ss {
		out[i] = common.HexToAddress(s)
	}
	return out
}
