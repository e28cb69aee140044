// Package calendar provides the business-day calendar used to window
// incremental volatility updates and to lay out daily OHLC bars.
//
// Business days are weekdays (Monday through Friday); exchange holidays are
// not modeled.
package calendar

import "time"

// IsBusinessDay reports whether d falls on a weekday.
func IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// PrevBusinessDay returns the last business day strictly before d.
func PrevBusinessDay(d time.Time) time.Time {
	for {
		d = d.AddDate(0, 0, -1)
		if IsBusinessDay(d) {
			return d
		}
	}
}

// Roll returns d when d is a business day, otherwise the last business day
// before it.
func Roll(d time.Time) time.Time {
	if IsBusinessDay(d) {
		return d
	}
	return PrevBusinessDay(d)
}

// WindowEnding returns the n business days ending at end, ascending. When end
// falls on a weekend the window ends at the preceding business day instead.
func WindowEnding(end time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	d := Roll(end)
	for i := n - 1; i >= 0; i-- {
		out[i] = d
		d = PrevBusinessDay(d)
	}
	return out
}

// Range returns every business day from first through last inclusive,
// ascending. An inverted range yields nil.
func Range(first, last time.Time) []time.Time {
	var out []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}
