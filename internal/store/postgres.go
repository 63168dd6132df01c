package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/klcheung/opw-data/internal/config"
	"github.com/klcheung/opw-data/internal/model"
)

// Postgres is the pgxpool-backed Store implementation.
type Postgres struct {
	pool        *pgxpool.Pool
	insertBatch int
	logger      *slog.Logger
}

var _ Store = (*Postgres)(nil)

// Connect creates the connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DBConfig, insertBatch int, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{
		pool:        pool,
		insertBatch: insertBatch,
		logger:      logger,
	}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ping verifies the connection is healthy.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// KnownDates returns the distinct dates holding price rows.
func (p *Postgres) KnownDates(ctx context.Context) ([]model.Date, error) {
	rows, err := p.pool.Query(ctx, `SELECT DISTINCT date FROM prices ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query known dates: %w", err)
	}
	defer rows.Close()

	var dates []model.Date
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, model.Date(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate known dates: %w", err)
	}
	return dates, nil
}

// KnownSKUs returns the SKUs already in the item catalog.
func (p *Postgres) KnownSKUs(ctx context.Context) (map[string]bool, error) {
	rows, err := p.pool.Query(ctx, `SELECT sku FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query known skus: %w", err)
	}
	defer rows.Close()

	skus := make(map[string]bool)
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		skus[sku] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate known skus: %w", err)
	}
	return skus, nil
}

// UpsertItems inserts items using pgx.Batch with ON CONFLICT DO NOTHING.
func (p *Postgres) UpsertItems(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	start := time.Now()

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO items (sku, department_en, department_zh, category_en, category_zh,
				subcategory_en, subcategory_zh, brand_en, brand_zh, name_en, name_zh)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (sku) DO NOTHING
		`, it.SKU, it.DepartmentEn, it.DepartmentZh, it.CategoryEn, it.CategoryZh,
			it.SubcategoryEn, it.SubcategoryZh, it.BrandEn, it.BrandZh, it.NameEn, it.NameZh)
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	conflicts := 0
	for range items {
		ct, err := results.Exec()
		if err != nil {
			return fmt.Errorf("upsert items: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	p.logger.Info("items upserted",
		"items", len(items),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// DeletePrices removes every price row for the given dates.
func (p *Postgres) DeletePrices(ctx context.Context, dates []model.Date) error {
	if len(dates) == 0 {
		return nil
	}

	strs := make([]string, len(dates))
	for i, d := range dates {
		strs[i] = string(d)
	}

	ct, err := p.pool.Exec(ctx, `DELETE FROM prices WHERE date = ANY($1)`, strs)
	if err != nil {
		return fmt.Errorf("delete prices: %w", err)
	}

	p.logger.Info("prices deleted",
		"dates", len(dates),
		"rows", ct.RowsAffected(),
	)
	return nil
}

// InsertPrices appends price rows in insertBatch-sized pgx batches.
func (p *Postgres) InsertPrices(ctx context.Context, rows []model.PriceRow) error {
	if len(rows) == 0 {
		return nil
	}
	start := time.Now()

	for offset := 0; offset < len(rows); offset += p.insertBatch {
		end := offset + p.insertBatch
		if end > len(rows) {
			end = len(rows)
		}
		if err := p.insertChunk(ctx, rows[offset:end]); err != nil {
			return err
		}
	}

	p.logger.Info("prices inserted",
		"rows", len(rows),
		"duration", time.Since(start),
	)
	return nil
}

func (p *Postgres) insertChunk(ctx context.Context, rows []model.PriceRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO prices (sku, date, supermarket, original_price, promotion_en, promotion_zh, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, r.SKU, string(r.Date), r.Supermarket, r.OriginalPrice, r.PromotionEn, r.PromotionZh, r.UnitPrice)
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert prices: %w", err)
		}
	}
	return nil
}
