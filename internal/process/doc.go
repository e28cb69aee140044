// Package process drives cleaning and volatility estimation.
//
// Two controllers share the same dependencies (cleaning pipeline,
// estimator registry, price and volatility stores):
//   - Batch recomputes an instrument's cleaned history and every
//     configured volatility series from complete raw history.
//   - Incremental appends one new trading day: clean the day in
//     isolation, persist its partition, then extend each volatility
//     series by one record computed over a bounded trailing window of
//     business days. A split effective on the new day rebases the whole
//     persisted history and forces a full volatility recompute.
//
// Processing is single-threaded per instrument; distinct instruments own
// disjoint partition spaces and may run concurrently.
package process
