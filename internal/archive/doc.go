// Package archive provides the client for the data.gov.hk historical
// archive, which serves dated, versioned copies of the Online Price Watch
// (OPW) price catalog.
//
// Endpoints:
//   - /list-file-versions: version stamps available for a date range
//   - /get-file: one archived snapshot by version stamp
//
// Both take the archived file's own URL as a query parameter; the client
// is configured once with that source URL.
package archive
