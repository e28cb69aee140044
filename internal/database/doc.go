// Package database provides the PostgreSQL connection pool for the
// postgres store backend.
//
// Two tables back the partitioned stores:
//   - cleaned_ticks: cleaned prices, partitioned by (instrument, trade_date)
//   - historical_volatility: one record series per
//     (instrument, estimator, lookback)
package database
