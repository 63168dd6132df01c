package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *SyncerConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Archive.BatchDays < 1 {
		return errors.New("archive.batch_days must be >= 1")
	}
	if c.Archive.FetchConcurrency < 1 {
		return errors.New("archive.fetch_concurrency must be >= 1")
	}

	if c.Sync.LookbackDays < 1 {
		return errors.New("sync.lookback_days must be >= 1")
	}
	if c.Sync.BacktrackDays < 0 {
		return errors.New("sync.backtrack_days must be >= 0")
	}
	if c.Sync.BacktrackDays > c.Sync.LookbackDays {
		return fmt.Errorf("sync.backtrack_days (%d) cannot exceed lookback_days (%d)",
			c.Sync.BacktrackDays, c.Sync.LookbackDays)
	}
	if c.Sync.DiscountThreshold <= 0 || c.Sync.DiscountThreshold >= 1 {
		return fmt.Errorf("sync.discount_threshold must be in (0, 1), got %g", c.Sync.DiscountThreshold)
	}
	if c.Sync.InsertBatch < 1 {
		return errors.New("sync.insert_batch must be >= 1")
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
