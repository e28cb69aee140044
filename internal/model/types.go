package model

import (
	"math"
	"time"
)

// -----------------------------------------------------------------------------
// Raw Types
// -----------------------------------------------------------------------------

// Tick is a single trade observation as received from a raw price file.
type Tick struct {
	Timestamp time.Time // Trade time (UTC)
	Price     float64   // Traded price, unadjusted
}

// PriceSeries is one raw-file batch of ticks for a single instrument.
// It carries ticks in file order; the cleaning pipeline sorts by timestamp.
type PriceSeries []Tick

// -----------------------------------------------------------------------------
// Cleaned Types
// -----------------------------------------------------------------------------

// CleanedTick is a tick that survived the cleaning pipeline, tagged with its
// trading date.
type CleanedTick struct {
	Timestamp time.Time // Trade time (UTC), unique within a series
	Price     float64   // Cleaned price, > 0, split-adjusted
	Date      time.Time // Calendar date of Timestamp (midnight UTC)
}

// CleanedSeries is an ascending-by-timestamp sequence of cleaned ticks for a
// single instrument.
type CleanedSeries []CleanedTick

// Prices returns the price column in series order.
func (s CleanedSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, tk := range s {
		out[i] = tk.Price
	}
	return out
}

// Dates returns the distinct trading dates present in the series, in order.
func (s CleanedSeries) Dates() []time.Time {
	var out []time.Time
	for _, tk := range s {
		if len(out) == 0 || !tk.Date.Equal(out[len(out)-1]) {
			out = append(out, tk.Date)
		}
	}
	return out
}

// Day returns the contiguous sub-series for one trading date.
func (s CleanedSeries) Day(date time.Time) CleanedSeries {
	var out CleanedSeries
	for _, tk := range s {
		if tk.Date.Equal(date) {
			out = append(out, tk)
		}
	}
	return out
}

// DateOf truncates a timestamp to its calendar date at midnight UTC.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------
// Corporate Actions
// -----------------------------------------------------------------------------

// Split is a stock split effective at the start of Date. Ticks strictly
// before Date are divided by Ratio when rebasing.
type Split struct {
	Date  time.Time // Effective date (midnight UTC)
	Ratio float64   // Split ratio, > 0; 1 means no-op
}

// -----------------------------------------------------------------------------
// Derived Types
// -----------------------------------------------------------------------------

// Bar is a daily open/high/low/close summary of ticks. A business day with no
// ticks yields an empty bar whose price fields are NaN.
type Bar struct {
	Date  time.Time // Business day (midnight UTC)
	Open  float64   // First tick price of the day
	High  float64   // Highest tick price of the day
	Low   float64   // Lowest tick price of the day
	Close float64   // Last tick price of the day
}

// Empty reports whether the bar's day had no ticks.
func (b Bar) Empty() bool {
	return math.IsNaN(b.Open)
}

// VolatilityRecord is one day's annualized volatility estimate.
type VolatilityRecord struct {
	Date       time.Time // Trading date the estimate is for
	Volatility float64   // Annualized volatility
}

// VolatilitySeries is an ascending-by-date sequence of volatility records for
// one (instrument, estimator, lookback) key.
type VolatilitySeries []VolatilityRecord

// Last returns the most recent record, if any.
func (s VolatilitySeries) Last() (VolatilityRecord, bool) {
	if len(s) == 0 {
		return VolatilityRecord{}, false
	}
	return s[len(s)-1], true
}
