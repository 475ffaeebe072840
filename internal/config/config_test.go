package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	yaml := `
api:
  base_url: https://data-api.example.com
  timeout: 30s
database:
  host: localhost
  port: 5432
  name: test_db
  user: testuser
  password: testpass
ingest:
  leaderboard_limit: 250
  time_period: week
  concurrency: 4
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://data-api.example.com" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://data-api.example.com")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Ingest.LeaderboardLimit != 250 {
		t.Errorf("Ingest.LeaderboardLimit = %d, want 250", cfg.Ingest.LeaderboardLimit)
	}
	if cfg.Ingest.TimePeriod != "week" {
		t.Errorf("Ingest.TimePeriod = %q, want %q", cfg.Ingest.TimePeriod, "week")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
database:
  host: localhost
  name: test_db
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.API.RequestsPerSecond != DefaultRequestsPerSecond {
		t.Errorf("API.RequestsPerSecond = %v, want default %v", cfg.API.RequestsPerSecond, DefaultRequestsPerSecond)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Ingest.LeaderboardLimit != DefaultLeaderboardLimit {
		t.Errorf("Ingest.LeaderboardLimit = %d, want default %d", cfg.Ingest.LeaderboardLimit, DefaultLeaderboardLimit)
	}
	if cfg.Ingest.Concurrency != DefaultConcurrency {
		t.Errorf("Ingest.Concurrency = %d, want default %d", cfg.Ingest.Concurrency, DefaultConcurrency)
	}
	if cfg.Ingest.BatchSize != DefaultBatchSize {
		t.Errorf("Ingest.BatchSize = %d, want default %d", cfg.Ingest.BatchSize, DefaultBatchSize)
	}
	if cfg.Ops.Port != DefaultOpsPort {
		t.Errorf("Ops.Port = %d, want default %d", cfg.Ops.Port, DefaultOpsPort)
	}
}

func TestValidate(t *testing.T) {
	valid := func() IngesterConfig {
		cfg := IngesterConfig{
			Database: DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass"},
		}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*IngesterConfig)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*IngesterConfig) {},
			wantErr: "",
		},
		{
			name:    "missing base url",
			mutate:  func(c *IngesterConfig) { c.API.BaseURL = "" },
			wantErr: "api.base_url is required",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *IngesterConfig) { c.API.RequestsPerSecond = -1 },
			wantErr: "api.requests_per_second must be > 0",
		},
		{
			name:    "missing database host",
			mutate:  func(c *IngesterConfig) { c.Database.Host = "" },
			wantErr: "database.host is required",
		},
		{
			name:    "missing database password",
			mutate:  func(c *IngesterConfig) { c.Database.Password = "" },
			wantErr: "database.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *IngesterConfig) {
				c.Database.MaxConns = 5
				c.Database.MinConns = 10
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *IngesterConfig) { c.Ingest.Concurrency = -1 },
			wantErr: "ingest.concurrency must be >= 1",
		},
		{
			name:    "negative closed max total",
			mutate:  func(c *IngesterConfig) { c.Ingest.ClosedMaxTotal = -1 },
			wantErr: "ingest.closed_max_total must be >= 0",
		},
		{
			name:    "ops port out of range",
			mutate:  func(c *IngesterConfig) { c.Ops.Port = 70000 },
			wantErr: "ops.port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
