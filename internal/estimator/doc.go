// Package estimator implements rolling annualized historical-volatility
// estimators over cleaned price series.
//
// Components:
//   - Config: shared estimator parameters, validated at construction
//   - Registry: explicit name-to-factory lookup, no process-global state
//   - Built-ins: tick-average realised variance, close-to-close standard
//     deviation, close-to-close average realised variance, Yang-Zhang
//
// All built-ins share the partial-window policy: a day without a full
// lookback window of history produces no record at all.
package estimator
