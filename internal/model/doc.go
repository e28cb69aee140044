// Package model defines shared data types used across the histvol pipeline.
//
// Conventions:
//   - Timestamps: time.Time in UTC
//   - Dates: midnight-UTC time.Time (see DateOf)
//   - Prices and annualized volatilities: float64
//   - Empty OHLC bars carry NaN price fields
package model
