// Package ingest orchestrates one batch ingestion run.
//
// Flow: fetch the leaderboard once, then fan out over ranked users under a
// bounded-concurrency semaphore. Each user's closed and open positions are
// fetched concurrently, normalized, and written inside one transactional
// scope: user upsert, market resolution, chunked closed-position insert
// (conflicts ignored), chunked active-position upsert. A failing user is
// logged and skipped; the run never aborts on per-user errors.
package ingest
