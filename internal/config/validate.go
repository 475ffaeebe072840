package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *IngesterConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.RequestsPerSecond <= 0 {
		return errors.New("api.requests_per_second must be > 0")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Ingest.LeaderboardLimit < 1 {
		return errors.New("ingest.leaderboard_limit must be >= 1")
	}
	if c.Ingest.Concurrency < 1 {
		return errors.New("ingest.concurrency must be >= 1")
	}
	if c.Ingest.LeaderboardPageSize < 1 {
		return errors.New("ingest.leaderboard_page_size must be >= 1")
	}
	if c.Ingest.ClosedPageSize < 1 {
		return errors.New("ingest.closed_page_size must be >= 1")
	}
	if c.Ingest.ActivePageSize < 1 {
		return errors.New("ingest.active_page_size must be >= 1")
	}
	if c.Ingest.ClosedMaxTotal < 0 {
		return errors.New("ingest.closed_max_total must be >= 0")
	}
	if c.Ingest.ActiveMaxTotal < 0 {
		return errors.New("ingest.active_max_total must be >= 0")
	}
	if c.Ingest.BatchSize < 1 {
		return errors.New("ingest.batch_size must be >= 1")
	}

	if c.Ops.Port < 1 || c.Ops.Port > 65535 {
		return fmt.Errorf("ops.port must be between 1 and 65535, got %d", c.Ops.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
