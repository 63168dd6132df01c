package store

import (
	"context"

	"github.com/klcheung/opw-data/internal/model"
)

// Store is the storage surface the sync pipeline runs against.
type Store interface {
	// KnownDates returns the distinct dates currently holding price rows.
	KnownDates(ctx context.Context) ([]model.Date, error)

	// KnownSKUs returns the SKUs already present in the item catalog.
	KnownSKUs(ctx context.Context) (map[string]bool, error)

	// UpsertItems inserts items, ignoring SKUs that already exist.
	UpsertItems(ctx context.Context, items []model.Item) error

	// DeletePrices removes every price row dated in dates.
	DeletePrices(ctx context.Context, dates []model.Date) error

	// InsertPrices appends price rows in batches.
	InsertPrices(ctx context.Context, rows []model.PriceRow) error
}
