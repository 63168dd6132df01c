// Package plan assembles the atomic write set of a sync run.
package plan

import (
	"sort"

	"github.com/google/uuid"

	"github.com/klcheung/opw-data/internal/model"
	"github.com/klcheung/opw-data/internal/window"
)

// Build assembles the WriteSet for one run. Items are reduced to their
// first occurrence per SKU, items storage already knows are dropped,
// and delete dates cover every date whose rows are re-inserted or
// expired so the commit leaves exactly one generation per date.
func Build(runID uuid.UUID, items []model.Item, rows []model.PriceRow, win *window.VersionWindow, knownSKUs map[string]bool) model.WriteSet {
	seen := make(map[string]bool, len(items))
	newItems := make([]model.Item, 0, len(items))
	for _, it := range items {
		if seen[it.SKU] || knownSKUs[it.SKU] {
			continue
		}
		seen[it.SKU] = true
		newItems = append(newItems, it)
	}
	sort.Slice(newItems, func(i, j int) bool { return newItems[i].SKU < newItems[j].SKU })

	expired := make([]model.Date, len(win.Expired))
	copy(expired, win.Expired)
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })

	return model.WriteSet{
		RunID:        runID,
		NewItems:     newItems,
		PriceRows:    rows,
		DeleteDates:  win.DeleteDates(),
		ExpiredDates: expired,
	}
}
