package ingest

import (
	"context"
	"time"

	"github.com/polymoney/polymarket-data/internal/model"
	"github.com/polymoney/polymarket-data/internal/store"
)

// writeClosedPositions resolves referenced markets, links rows to their
// surrogate keys, and bulk-inserts in chunks with dedup conflicts ignored.
// Rows whose market cannot be resolved are skipped; they only show up as a
// lower saved count.
func (ing *Ingester) writeClosedPositions(ctx context.Context, sc store.Scope, userPK int64, rows []model.ClosedPosition) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	marketKeys, err := resolveMarkets(ctx, sc, rows)
	if err != nil {
		return 0, err
	}

	linked := make([]model.ClosedPosition, 0, len(rows))
	for _, row := range rows {
		marketPK, ok := marketKeys[row.MarketExternalID]
		if !ok {
			continue
		}
		row.UserPK = userPK
		row.MarketPK = marketPK
		linked = append(linked, row)
	}

	saved := 0
	for chunk := range chunks(linked, ing.cfg.BatchSize) {
		n, err := sc.InsertClosedPositions(ctx, chunk)
		if err != nil {
			return saved, err
		}
		saved += n
	}
	return saved, nil
}

// resolveMarkets ensures every market referenced by the batch exists and
// returns the complete external id -> surrogate key mapping. Existing rows
// are never updated; slug and title stick from first sighting.
func resolveMarkets(ctx context.Context, sc store.Scope, rows []model.ClosedPosition) (map[string]int64, error) {
	byID := make(map[string]model.Market)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.MarketExternalID == "" {
			continue
		}
		if _, ok := byID[row.MarketExternalID]; ok {
			continue
		}
		byID[row.MarketExternalID] = model.Market{
			MarketID: row.MarketExternalID,
			Slug:     row.MarketSlug,
			Title:    row.MarketTitle,
		}
		ids = append(ids, row.MarketExternalID)
	}
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}

	keys, err := sc.MarketKeys(ctx, ids)
	if err != nil {
		return nil, err
	}

	var missing []model.Market
	for _, id := range ids {
		if _, ok := keys[id]; !ok {
			missing = append(missing, byID[id])
		}
	}
	if len(missing) == 0 {
		return keys, nil
	}

	if err := sc.InsertMarkets(ctx, missing); err != nil {
		return nil, err
	}

	// Reload to pick up keys for rows inserted here or by a concurrent
	// scope that won the conflict.
	return sc.MarketKeys(ctx, ids)
}

// writeActivePositions drops incomplete rows, deduplicates the batch by
// asset keeping the last occurrence, and bulk-upserts in chunks.
func (ing *Ingester) writeActivePositions(ctx context.Context, sc store.Scope, userPK int64, rows []model.ActivePosition, now time.Time) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	// A batch touching the same (user, asset) twice would fail the upsert
	// statement, so keep only the last occurrence in input order.
	seen := make(map[string]int)
	deduped := make([]model.ActivePosition, 0, len(rows))
	for _, row := range rows {
		// Required columns; rows missing them would violate NOT NULL.
		if row.Asset == "" || row.Size == nil || row.AvgPrice == nil {
			continue
		}
		row.UserPK = userPK
		row.UpdatedAt = now

		if i, ok := seen[row.Asset]; ok {
			deduped[i] = row
			continue
		}
		seen[row.Asset] = len(deduped)
		deduped = append(deduped, row)
	}

	saved := 0
	for chunk := range chunks(deduped, ing.cfg.BatchSize) {
		n, err := sc.UpsertActivePositions(ctx, chunk)
		if err != nil {
			return saved, err
		}
		saved += n
	}
	return saved, nil
}

// chunks yields size-bounded sub-slices of rows in order.
func chunks[T any](rows []T, size int) func(func([]T) bool) {
	if size < 1 {
		size = 1
	}
	return func(yield func([]T) bool) {
		for i := 0; i < len(rows); i += size {
			end := i + size
			if end > len(rows) {
				end = len(rows)
			}
			if !yield(rows[i:end]) {
				return
			}
		}
	}
}
