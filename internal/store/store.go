package store

import (
	"context"

	"github.com/polymoney/polymarket-data/internal/model"
)

// Scope is one transactional write scope: all writes for a single user's
// ingestion pass commit or roll back together.
type Scope interface {
	// UpsertUser ensures a user row exists for the external id and returns
	// its surrogate key. A newer non-empty display name replaces the stored
	// one; otherwise the row is left untouched.
	UpsertUser(ctx context.Context, userID, displayName string) (int64, error)

	// MarketKeys returns external id -> surrogate key for the ids that
	// already exist.
	MarketKeys(ctx context.Context, externalIDs []string) (map[string]int64, error)

	// InsertMarkets inserts market rows, ignoring conflicts on the external
	// id. Slug and title of existing rows are never overwritten.
	InsertMarkets(ctx context.Context, markets []model.Market) error

	// InsertClosedPositions inserts a batch with conflicts on the dedup key
	// (user_pk, market_pk, side, tx_hash) ignored. Returns the number of
	// rows actually inserted.
	InsertClosedPositions(ctx context.Context, rows []model.ClosedPosition) (int, error)

	// UpsertActivePositions writes a batch, overwriting all non-key columns
	// on (user_pk, asset) conflict. Returns the number of rows written.
	UpsertActivePositions(ctx context.Context, rows []model.ActivePosition) (int, error)
}

// Store opens write scopes against a backend.
type Store interface {
	WithScope(ctx context.Context, fn func(ctx context.Context, s Scope) error) error
}
