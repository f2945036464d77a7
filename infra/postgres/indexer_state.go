package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Cursor returns the last processed block for the named indexer. ok is false
// when the indexer has never run.
func (r *Repository) Cursor(ctx context.Context, name string) (block uint64, ok bool, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT last_block FROM indexer_state WHERE name = $1`, name,
	).Scan(&block)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cursor: %w", err)
	}
	return block, true, nil
}

func (r *Repository) SetCursor(ctx context.Context, name string, block uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO indexer_state (name, last_block, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (name) DO UPDATE SET last_block = EXCLUDED.last_block, updated_at = NOW()`,
		name, block,
	)
	if err != nil {
		return fmt.Errorf("failed to update cursor: %w", err)
	}
	return nil
}
