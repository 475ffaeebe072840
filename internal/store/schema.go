package store

import (
	"context"
	"fmt"
)

// Schema statements, applied in order. Idempotent: every statement is
// IF NOT EXISTS.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL UNIQUE,
		display_name VARCHAR(256)
	)`,
	`CREATE TABLE IF NOT EXISTS markets (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		market_id VARCHAR(128) NOT NULL UNIQUE,
		slug VARCHAR(512),
		title VARCHAR(1024)
	)`,
	`CREATE TABLE IF NOT EXISTS positions_closed (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_pk BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		market_pk BIGINT NOT NULL REFERENCES markets(id) ON DELETE CASCADE,
		side VARCHAR(64) NOT NULL DEFAULT '',
		quantity NUMERIC(38,8),
		entry_avg_price NUMERIC(38,8),
		exit_avg_price NUMERIC(38,8),
		realized_pnl NUMERIC(38,8),
		fees_total NUMERIC(38,8),
		opened_at TIMESTAMPTZ,
		closed_at TIMESTAMPTZ,
		close_reason VARCHAR(32),
		tx_hash VARCHAR(128) NOT NULL DEFAULT '',
		raw_json TEXT,
		UNIQUE (user_pk, market_pk, side, tx_hash)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_positions_closed_user ON positions_closed (user_pk)`,
	`CREATE INDEX IF NOT EXISTS idx_positions_closed_closed_at ON positions_closed (closed_at)`,
	`CREATE TABLE IF NOT EXISTS positions_active (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_pk BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		asset VARCHAR(128) NOT NULL,
		condition_id VARCHAR(128),
		size NUMERIC(38,8) NOT NULL,
		avg_price NUMERIC(38,8) NOT NULL,
		initial_value NUMERIC(38,8),
		current_value NUMERIC(38,8),
		cash_pnl NUMERIC(38,8),
		percent_pnl NUMERIC(38,8),
		total_bought NUMERIC(38,8),
		realized_pnl NUMERIC(38,8),
		current_price NUMERIC(38,8),
		redeemable BOOLEAN,
		mergeable BOOLEAN,
		title VARCHAR(1024),
		slug VARCHAR(512),
		icon VARCHAR(1024),
		event_id VARCHAR(64),
		event_slug VARCHAR(512),
		outcome VARCHAR(256),
		outcome_index INTEGER,
		end_date TIMESTAMPTZ,
		negative_risk BOOLEAN,
		raw_json TEXT,
		updated_at TIMESTAMPTZ,
		UNIQUE (user_pk, asset)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_positions_active_updated_at ON positions_active (updated_at)`,
}

// EnsureSchema creates tables and indexes if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
