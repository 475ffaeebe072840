package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/polymoney/polymarket-data/internal/model"
)

// PostgresStore implements Store on PostgreSQL. Monetary values are stored
// as NUMERIC for exact decimal precision; dedup relies on the unique
// constraints declared in the schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithScope runs fn inside a single transaction.
func (s *PostgresStore) WithScope(ctx context.Context, fn func(ctx context.Context, sc Scope) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, &pgScope{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgScope implements Scope over one open transaction.
type pgScope struct {
	tx pgx.Tx
}

func (s *pgScope) UpsertUser(ctx context.Context, userID, displayName string) (int64, error) {
	var (
		id     int64
		stored string
	)
	err := s.tx.QueryRow(ctx,
		`SELECT id, COALESCE(display_name, '') FROM users WHERE user_id = $1`,
		userID).Scan(&id, &stored)

	switch {
	case err == pgx.ErrNoRows:
		err = s.tx.QueryRow(ctx,
			`INSERT INTO users (user_id, display_name) VALUES ($1, NULLIF($2, ''))
			 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			 RETURNING id`,
			userID, displayName).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert user %s: %w", userID, err)
		}
		return id, nil
	case err != nil:
		return 0, fmt.Errorf("lookup user %s: %w", userID, err)
	}

	if displayName != "" && displayName != stored {
		if _, err := s.tx.Exec(ctx,
			`UPDATE users SET display_name = $1 WHERE id = $2`,
			displayName, id); err != nil {
			return 0, fmt.Errorf("update user %s: %w", userID, err)
		}
	}
	return id, nil
}

func (s *pgScope) MarketKeys(ctx context.Context, externalIDs []string) (map[string]int64, error) {
	keys := make(map[string]int64, len(externalIDs))
	if len(externalIDs) == 0 {
		return keys, nil
	}

	rows, err := s.tx.Query(ctx,
		`SELECT id, market_id FROM markets WHERE market_id = ANY($1)`,
		externalIDs)
	if err != nil {
		return nil, fmt.Errorf("lookup markets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       int64
			marketID string
		)
		if err := rows.Scan(&id, &marketID); err != nil {
			return nil, err
		}
		keys[marketID] = id
	}
	return keys, rows.Err()
}

func (s *pgScope) InsertMarkets(ctx context.Context, markets []model.Market) error {
	if len(markets) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range markets {
		batch.Queue(`
			INSERT INTO markets (market_id, slug, title)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
			ON CONFLICT (market_id) DO NOTHING
		`, m.MarketID, m.Slug, m.Title)
	}

	results := s.tx.SendBatch(ctx, batch)
	defer results.Close()

	for range markets {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert market: %w", err)
		}
	}
	return nil
}

func (s *pgScope) InsertClosedPositions(ctx context.Context, positions []model.ClosedPosition) (int, error) {
	if len(positions) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`
			INSERT INTO positions_closed
				(user_pk, market_pk, side, quantity, entry_avg_price, exit_avg_price,
				 realized_pnl, fees_total, opened_at, closed_at, close_reason, tx_hash, raw_json)
			VALUES ($1, $2, $3, $4::NUMERIC, $5::NUMERIC, $6::NUMERIC,
				$7::NUMERIC, $8::NUMERIC, $9, $10, $11, $12, $13)
			ON CONFLICT (user_pk, market_pk, side, tx_hash) DO NOTHING
		`, p.UserPK, p.MarketPK, p.Side,
			numericArg(p.Quantity), numericArg(p.EntryAvgPrice), numericArg(p.ExitAvgPrice),
			numericArg(p.RealizedPnl), numericArg(p.FeesTotal),
			p.OpenedAt, p.ClosedAt, p.CloseReason, p.TxHash, p.RawJSON)
	}

	results := s.tx.SendBatch(ctx, batch)
	defer results.Close()

	conflicts := 0
	for range positions {
		ct, err := results.Exec()
		if err != nil {
			return 0, fmt.Errorf("insert closed position: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return len(positions) - conflicts, nil
}

func (s *pgScope) UpsertActivePositions(ctx context.Context, positions []model.ActivePosition) (int, error) {
	if len(positions) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`
			INSERT INTO positions_active
				(user_pk, asset, condition_id, size, avg_price, initial_value,
				 current_value, cash_pnl, percent_pnl, total_bought, realized_pnl,
				 current_price, redeemable, mergeable, title, slug, icon, event_id,
				 event_slug, outcome, outcome_index, end_date, negative_risk,
				 raw_json, updated_at)
			VALUES ($1, $2, $3, $4::NUMERIC, $5::NUMERIC, $6::NUMERIC,
				$7::NUMERIC, $8::NUMERIC, $9::NUMERIC, $10::NUMERIC, $11::NUMERIC,
				$12::NUMERIC, $13, $14, NULLIF($15, ''), NULLIF($16, ''), NULLIF($17, ''), NULLIF($18, ''),
				NULLIF($19, ''), NULLIF($20, ''), $21, $22, $23, $24, $25)
			ON CONFLICT (user_pk, asset) DO UPDATE SET
				condition_id = EXCLUDED.condition_id,
				size = EXCLUDED.size,
				avg_price = EXCLUDED.avg_price,
				initial_value = EXCLUDED.initial_value,
				current_value = EXCLUDED.current_value,
				cash_pnl = EXCLUDED.cash_pnl,
				percent_pnl = EXCLUDED.percent_pnl,
				total_bought = EXCLUDED.total_bought,
				realized_pnl = EXCLUDED.realized_pnl,
				current_price = EXCLUDED.current_price,
				redeemable = EXCLUDED.redeemable,
				mergeable = EXCLUDED.mergeable,
				title = EXCLUDED.title,
				slug = EXCLUDED.slug,
				icon = EXCLUDED.icon,
				event_id = EXCLUDED.event_id,
				event_slug = EXCLUDED.event_slug,
				outcome = EXCLUDED.outcome,
				outcome_index = EXCLUDED.outcome_index,
				end_date = EXCLUDED.end_date,
				negative_risk = EXCLUDED.negative_risk,
				raw_json = EXCLUDED.raw_json,
				updated_at = EXCLUDED.updated_at
		`, p.UserPK, p.Asset, p.ConditionID,
			numericArg(p.Size), numericArg(p.AvgPrice), numericArg(p.InitialValue),
			numericArg(p.CurrentValue), numericArg(p.CashPnl), numericArg(p.PercentPnl),
			numericArg(p.TotalBought), numericArg(p.RealizedPnl), numericArg(p.CurrentPrice),
			p.Redeemable, p.Mergeable, p.Title, p.Slug, p.Icon, p.EventID,
			p.EventSlug, p.Outcome, p.OutcomeIndex, p.EndDate, p.NegativeRisk,
			p.RawJSON, p.UpdatedAt)
	}

	results := s.tx.SendBatch(ctx, batch)
	defer results.Close()

	for range positions {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("upsert active position: %w", err)
		}
	}
	return len(positions), nil
}

// numericArg converts an optional decimal to a NUMERIC-castable argument.
func numericArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
