// Package model defines the canonical row types shared across the ingester.
//
// Monetary and size fields use shopspring decimals so NUMERIC values survive
// the round trip through Postgres without float drift. Optional fields are
// pointers; nil means the source payload had no usable value.
package model
