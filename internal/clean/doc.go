// Package clean implements the deterministic tick-cleaning pipeline.
//
// Cleaning applies, in order:
//   - trading-hours filter (inclusive on both bounds)
//   - non-positive price filter
//   - same-timestamp median aggregation (sorts by timestamp)
//   - centered rolling median/MAD outlier filter
//   - split rebasing
//   - date tagging
//
// The order is significant: outliers are judged on deduplicated, in-hours
// data, and split rebasing runs afterwards so a genuine split-day jump is
// never judged as an outlier.
package clean
