// Package dedup collapses priced candidate rows to one row per
// catalog key, keeping the cheapest offer.
package dedup

import (
	"sort"

	"github.com/klcheung/opw-data/internal/model"
)

// Merge reduces candidates to the minimum unit price per (sku, date,
// supermarket) key. The input is sorted stably by key then unit price
// before selection, so ties resolve to the earliest candidate in the
// input order and the result is deterministic for any input ordering.
func Merge(rows []model.PriceRow) []model.PriceRow {
	if len(rows) == 0 {
		return nil
	}

	sorted := make([]model.PriceRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Supermarket != b.Supermarket {
			return a.Supermarket < b.Supermarket
		}
		return a.UnitPrice < b.UnitPrice
	})

	out := make([]model.PriceRow, 0, len(sorted))
	var last model.PriceKey
	for i, row := range sorted {
		key := row.Key()
		if i > 0 && key == last {
			continue
		}
		out = append(out, row)
		last = key
	}
	return out
}
