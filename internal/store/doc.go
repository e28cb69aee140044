// Package store persists cleaned prices and volatility series.
//
// Two stores, both partitioned per instrument:
//   - PriceStore: cleaned ticks, sub-partitioned by trading date
//   - VolatilityStore: one ordered record series per
//     (instrument, estimator, lookback) key
//
// Backends:
//   - FS: CSV partitions under a storage root, atomic replace via
//     temp file + rename
//   - Postgres: pgx pool, transactional day rewrites, batched inserts
//
// Controllers depend only on the interfaces; the backend is chosen by
// configuration at startup.
package store
