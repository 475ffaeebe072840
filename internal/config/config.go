package config

import "time"

// IngesterConfig is the root configuration for an ingester run.
type IngesterConfig struct {
	API      APIConfig    `yaml:"api"`
	Database DBConfig     `yaml:"database"`
	Ingest   IngestConfig `yaml:"ingest"`
	Ops      OpsConfig    `yaml:"ops"`
}

// APIConfig holds Polymarket data-api settings.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// DBConfig holds the Postgres connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// IngestConfig holds fan-out and pagination tuning.
type IngestConfig struct {
	LeaderboardLimit    int    `yaml:"leaderboard_limit"`
	TimePeriod          string `yaml:"time_period"`
	OrderBy             string `yaml:"order_by"`
	Category            string `yaml:"category"`
	Concurrency         int    `yaml:"concurrency"`
	LeaderboardPageSize int    `yaml:"leaderboard_page_size"`
	ClosedPageSize      int    `yaml:"closed_page_size"`
	ActivePageSize      int    `yaml:"active_page_size"`
	ClosedMaxTotal      int    `yaml:"closed_max_total"` // 0 = unbounded
	ActiveMaxTotal      int    `yaml:"active_max_total"` // 0 = unbounded
	BatchSize           int    `yaml:"batch_size"`
	QuickTest           bool   `yaml:"quick_test"`
}

// OpsConfig holds the health/metrics HTTP endpoint.
type OpsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
