package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Reference Entities
// -----------------------------------------------------------------------------

// User is a ranked leaderboard participant.
type User struct {
	ID          int64  // Surrogate primary key
	UserID      string // External wallet address/handle (unique)
	DisplayName string // Optional display name, updated on later sightings
}

// Market is an external prediction market, identified by its condition id.
// Created lazily when first referenced by a closed position; slug and title
// of an existing row are never overwritten.
type Market struct {
	ID       int64  // Surrogate primary key
	MarketID string // External condition id (unique)
	Slug     string // Optional market slug
	Title    string // Optional market title
}

// -----------------------------------------------------------------------------
// Position Rows
// -----------------------------------------------------------------------------

// ClosedPosition is a finalized trade record. Immutable once stored;
// (user_pk, market_pk, side, tx_hash) is the dedup key.
type ClosedPosition struct {
	UserPK   int64 // Foreign key to users
	MarketPK int64 // Foreign key to markets, set during market resolution

	// MarketExternalID carries the unresolved condition id between
	// normalization and market resolution. Rows whose id cannot be
	// resolved to a market key are skipped by the write engine.
	MarketExternalID string
	MarketSlug       string
	MarketTitle      string

	Side          string           // Outcome side; sports markets aren't Yes/No, may be ""
	Quantity      *decimal.Decimal // Contracts held
	EntryAvgPrice *decimal.Decimal // Average entry price
	ExitAvgPrice  *decimal.Decimal // Average exit price
	RealizedPnl   *decimal.Decimal // Realized profit and loss
	FeesTotal     *decimal.Decimal // Total fees paid

	OpenedAt    *time.Time // When the position was opened
	ClosedAt    *time.Time // When the position was closed/resolved
	CloseReason string     // "resolved" or "flattened"

	TxHash  string // Transaction hash, or on-chain asset id when absent
	RawJSON string // Original payload, serialized verbatim
}

// ActivePosition is a currently-held trade record. Mutable: each ingestion
// of the same (user_pk, asset) overwrites all non-key fields.
type ActivePosition struct {
	UserPK int64 // Foreign key to users

	Asset       string // On-chain asset id (unique per user)
	ConditionID string // Market condition id

	Size         *decimal.Decimal // Current position size
	AvgPrice     *decimal.Decimal // Average entry price
	InitialValue *decimal.Decimal // Value at entry
	CurrentValue *decimal.Decimal // Value at last observation
	CashPnl      *decimal.Decimal // Unrealized PnL in cash
	PercentPnl   *decimal.Decimal // Unrealized PnL in percent
	TotalBought  *decimal.Decimal // Total contracts bought
	RealizedPnl  *decimal.Decimal // Realized PnL so far
	CurrentPrice *decimal.Decimal // Last observed price

	Redeemable *bool // Position can be redeemed
	Mergeable  *bool // Position can be merged

	// Market metadata, denormalized from the payload.
	Title        string
	Slug         string
	Icon         string // Always empty; oversized icon payloads are dropped
	EventID      string
	EventSlug    string
	Outcome      string
	OutcomeIndex *int
	EndDate      *time.Time
	NegativeRisk *bool

	RawJSON   string    // Original payload (icon stripped), serialized
	UpdatedAt time.Time // Bumped on every upsert
}
