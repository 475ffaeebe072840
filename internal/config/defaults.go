package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL           = "https://data-api.polymarket.com"
	DefaultAPITimeout        = 20 * time.Second
	DefaultMaxRetries        = 4 // 5 attempts total
	DefaultRetryBackoff      = 500 * time.Millisecond
	DefaultRequestsPerSecond = 6.0
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultLeaderboardLimit  = 500
	DefaultTimePeriod        = "month"
	DefaultOrderBy           = "PNL"
	DefaultCategory          = "overall"
	DefaultConcurrency       = 8
	DefaultLeaderboardPage   = 200
	DefaultClosedPage        = 100
	DefaultActivePage        = 100
	DefaultBatchSize         = 500
	DefaultOpsPort           = 9090
	DefaultOpsPath           = "/metrics"
)

// ApplyDefaults fills unset fields with default values.
func (c *IngesterConfig) ApplyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = DefaultRequestsPerSecond
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Ingest defaults
	if c.Ingest.LeaderboardLimit == 0 {
		c.Ingest.LeaderboardLimit = DefaultLeaderboardLimit
	}
	if c.Ingest.TimePeriod == "" {
		c.Ingest.TimePeriod = DefaultTimePeriod
	}
	if c.Ingest.OrderBy == "" {
		c.Ingest.OrderBy = DefaultOrderBy
	}
	if c.Ingest.Category == "" {
		c.Ingest.Category = DefaultCategory
	}
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = DefaultConcurrency
	}
	if c.Ingest.LeaderboardPageSize == 0 {
		c.Ingest.LeaderboardPageSize = DefaultLeaderboardPage
	}
	if c.Ingest.ClosedPageSize == 0 {
		c.Ingest.ClosedPageSize = DefaultClosedPage
	}
	if c.Ingest.ActivePageSize == 0 {
		c.Ingest.ActivePageSize = DefaultActivePage
	}
	if c.Ingest.BatchSize == 0 {
		c.Ingest.BatchSize = DefaultBatchSize
	}

	// Ops defaults
	if c.Ops.Port == 0 {
		c.Ops.Port = DefaultOpsPort
	}
	if c.Ops.Path == "" {
		c.Ops.Path = DefaultOpsPath
	}
}
