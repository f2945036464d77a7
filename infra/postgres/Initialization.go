package postgres

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const (
	createSettledRoomsTable = `
		CREATE TABLE IF NOT EXISTS settled_rooms (
			id BIGSERIAL PRIMARY KEY,
			room_id BIGINT NOT NULL,
			winners TEXT[] NOT NULL,
			block_number BIGINT NOT NULL,
			tx_hash VARCHAR(66) NOT NULL,
			log_index INT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			CONSTRAINT settled_rooms_log_unique UNIQUE (tx_hash, log_index)
		)`

	createSettledRoomsIndex = `
		CREATE INDEX IF NOT EXISTS idx_settled_rooms_room_id ON settled_rooms (room_id)`

	createIndexerStateTable = `
		CREATE TABLE IF NOT EXISTS indexer_state (
			name VARCHAR(64) PRIMARY KEY,
			last_block BIGINT NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`
)

func initDB(db *sql.DB) error {
	if _, err := db.Exec(createSettledRoomsTable); err != nil {
		return fmt.Errorf("failed to create settled_rooms table: %w", err)
	}
	if _, err := db.Exec(createSettledRoomsIndex); err != nil {
		return fmt.Errorf("failed to create settled_rooms index: %w", err)
	}
	if _, err := db.Exec(createIndexerStateTable); err != nil {
		return fmt.Errorf("failed to create indexer_state table: %w", err)
	}

	zap.L().Info("Database tables initialized")
	return nil
}
