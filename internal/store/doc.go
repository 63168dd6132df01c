// Package store persists the normalized catalog in PostgreSQL.
//
// Two tables back the syncer:
//   - items: one row per SKU, bilingual descriptive fields
//   - prices: one row per (sku, date, supermarket), the deduplicated
//     best unit price with its promotion text
//
// Writes happen once per run as a WriteSet: item upserts, then deletes
// of re-processed dates, then batched price inserts.
package store
