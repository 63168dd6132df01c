// Package model defines shared data types used across the OPW sync pipeline.
//
// Conventions:
//   - Dates: Date, a YYYYMMDD string (the archive's native key format)
//   - Versions: archive timestamp strings, e.g. "20240115-0915"
//   - Prices: float64 HKD, 0 when the upstream field is unparseable
//   - IDs: string for SKUs and market codes, uuid.UUID for run IDs
package model
