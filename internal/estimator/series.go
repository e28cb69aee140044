package estimator

import (
	"math"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

// dailyCloses returns each trading day present in the series together with
// its last traded price.
func dailyCloses(s model.CleanedSeries) ([]time.Time, []float64) {
	dates := s.Dates()
	closes := make([]float64, len(dates))
	idx := 0
	for _, tk := range s {
		for !tk.Date.Equal(dates[idx]) {
			idx++
		}
		closes[idx] = tk.Price
	}
	return dates, closes
}

// logReturns computes ln(x[i]/x[i-1]) with an undefined (NaN) first entry.
func logReturns(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log(xs[i] / xs[i-1])
	}
	return out
}

// toSeries pairs dates with volatility values, dropping entries whose rolling
// statistic is undefined.
func toSeries(dates []time.Time, vols []float64) model.VolatilitySeries {
	out := make(model.VolatilitySeries, 0, len(vols))
	for i, v := range vols {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, model.VolatilityRecord{Date: dates[i], Volatility: v})
	}
	return out
}
