// Package window decides which snapshot dates a sync run must fetch,
// re-fetch, or purge.
//
// The tracker walks the archive's version listing over a lookback
// horizon in fixed-size sub-windows, maps version stamps to the data
// dates they cover, and diffs the result against the dates storage
// already holds. Stored dates missing from the remote horizon have aged
// out upstream and must be purged; stored dates older than the backtrack
// cutoff are final and are skipped; everything else is fetched.
package window
