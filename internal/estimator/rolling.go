package estimator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Rolling statistics over trailing windows. Until a full window of values is
// available the statistic is undefined and reported as NaN; a NaN anywhere in
// the window also yields NaN. This matches the partial-window policy: callers
// drop NaN entries rather than emit partial estimates.

func rollingMean(xs []float64, window int) []float64 {
	return rollingApply(xs, window, func(w []float64) float64 {
		return stat.Mean(w, nil)
	})
}

func rollingSum(xs []float64, window int) []float64 {
	return rollingApply(xs, window, floats.Sum)
}

// rollingStd computes the trailing sample standard deviation (one delta
// degree of freedom).
func rollingStd(xs []float64, window int) []float64 {
	return rollingApply(xs, window, func(w []float64) float64 {
		return stat.StdDev(w, nil)
	})
}

func rollingApply(xs []float64, window int, f func([]float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = f(xs[i-window+1 : i+1])
	}
	return out
}
