// Package store persists ingested rows.
//
// The write surface is a transactional Scope per user: user upsert, market
// insert-or-ignore, closed-position insert-or-ignore on the dedup key, and
// active-position insert-or-update on (user_pk, asset). Two backends exist:
// Postgres (production) and an in-memory store with matching conflict
// semantics for tests.
package store
