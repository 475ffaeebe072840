// Package api provides the Polymarket data API client.
//
// Endpoints:
//   - GET /v1/leaderboard: ranked users by PnL/volume
//   - GET /closed-positions: finalized positions per user
//   - GET /positions: currently-held positions per user
//
// All requests share one token-bucket rate limiter and retry transient
// failures (transport errors, 5xx, 429) with jittered exponential backoff.
package api
