package config

import "time"

// SyncerConfig is the root configuration for a syncer instance.
type SyncerConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Database  DatabaseConfig  `yaml:"database"`
	Sync      SyncConfig      `yaml:"sync"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// InstanceConfig identifies this syncer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ArchiveConfig holds historical-archive API settings.
type ArchiveConfig struct {
	BaseURL          string        `yaml:"base_url"`
	SourceURL        string        `yaml:"source_url"` // archived file the versions refer to
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	RetryBackoff     time.Duration `yaml:"retry_backoff"`
	BatchDays        int           `yaml:"batch_days"` // version-listing sub-window size
	FetchConcurrency int           `yaml:"fetch_concurrency"`
}

// DatabaseConfig holds the Postgres connection for catalog and price data.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
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

// SyncConfig holds incremental-window and pricing parameters.
type SyncConfig struct {
	LookbackDays      int     `yaml:"lookback_days"`      // horizon of remote dates considered
	BacktrackDays     int     `yaml:"backtrack_days"`     // age beyond which a stored date is final
	DiscountThreshold float64 `yaml:"discount_threshold"` // plausibility floor fraction
	InsertBatch       int     `yaml:"insert_batch"`
}

// SchedulerConfig holds the daily run trigger settings.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// NotifyConfig holds the bot relay webhook settings. An empty WebhookURL
// disables notifications.
type NotifyConfig struct {
	WebhookURL  string        `yaml:"webhook_url"`
	DeveloperID string        `yaml:"developer_id"`
	Recipients  []string      `yaml:"recipients"`
	Timeout     time.Duration `yaml:"timeout"`
}
