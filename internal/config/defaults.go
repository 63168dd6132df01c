package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultArchiveBaseURL    = "https://api.data.gov.hk/v1/historical-archive"
	DefaultArchiveSourceURL  = "https://online-price-watch.consumer.org.hk/opw/opendata/pricewatch.json"
	DefaultArchiveTimeout    = 20 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryBackoff      = 1 * time.Second
	DefaultBatchDays         = 10
	DefaultFetchConcurrency  = 4
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultLookbackDays      = 90
	DefaultBacktrackDays     = 3
	DefaultDiscountThreshold = 0.3
	DefaultInsertBatch       = 10000
	DefaultRunInterval       = 24 * time.Hour
	DefaultNotifyTimeout     = 30 * time.Second
)

func (c *SyncerConfig) applyDefaults() {
	// Archive defaults
	if c.Archive.BaseURL == "" {
		c.Archive.BaseURL = DefaultArchiveBaseURL
	}
	if c.Archive.SourceURL == "" {
		c.Archive.SourceURL = DefaultArchiveSourceURL
	}
	if c.Archive.Timeout == 0 {
		c.Archive.Timeout = DefaultArchiveTimeout
	}
	if c.Archive.MaxRetries == 0 {
		c.Archive.MaxRetries = DefaultMaxRetries
	}
	if c.Archive.RetryBackoff == 0 {
		c.Archive.RetryBackoff = DefaultRetryBackoff
	}
	if c.Archive.BatchDays == 0 {
		c.Archive.BatchDays = DefaultBatchDays
	}
	if c.Archive.FetchConcurrency == 0 {
		c.Archive.FetchConcurrency = DefaultFetchConcurrency
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Sync defaults
	if c.Sync.LookbackDays == 0 {
		c.Sync.LookbackDays = DefaultLookbackDays
	}
	if c.Sync.BacktrackDays == 0 {
		c.Sync.BacktrackDays = DefaultBacktrackDays
	}
	if c.Sync.DiscountThreshold == 0 {
		c.Sync.DiscountThreshold = DefaultDiscountThreshold
	}
	if c.Sync.InsertBatch == 0 {
		c.Sync.InsertBatch = DefaultInsertBatch
	}

	// Scheduler defaults
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = DefaultRunInterval
	}

	// Notify defaults
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = DefaultNotifyTimeout
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
