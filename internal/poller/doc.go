// Package poller drives the snapshot cycle.
//
// Each cycle:
//   - Fetches page 0 of the auction snapshot
//   - Skips the cycle when the feed timestamp has not moved
//   - Fetches the remaining pages with bounded concurrency
//   - Filters to active BIN listings
//   - Periodically rebuilds the market price index
//   - Diffs against the previous snapshot and runs flip detection on the
//     newly added listings
package poller
