package clean

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FilterOutliers computes a keep-mask over prices using a centered rolling
// median/MAD test. For each index the window holds up to windowSize/2
// neighbors on each side and never the observation itself; at the series
// boundaries the window shrinks to the neighbors that exist. An observation
// is flagged when its absolute deviation from the window median exceeds
// threshold times the window's mean absolute deviation. A zero MAD flags any
// deviation at all.
//
// windowSize must be even: removing the center from an odd window would leave
// an unbalanced split, so odd sizes are rejected as a configuration error.
func FilterOutliers(prices []float64, windowSize int, threshold float64) ([]bool, error) {
	if windowSize < 2 || windowSize%2 != 0 {
		return nil, fmt.Errorf("outlier window must be even and >= 2, got %d", windowSize)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("outlier threshold must be positive, got %g", threshold)
	}
	return outlierMask(prices, windowSize, threshold), nil
}

func outlierMask(prices []float64, windowSize int, threshold float64) []bool {
	keep := make([]bool, len(prices))
	half := windowSize / 2
	window := make([]float64, 0, windowSize)

	for i, price := range prices {
		window = window[:0]
		lo := max(0, i-half)
		hi := min(len(prices)-1, i+half)
		for j := lo; j <= hi; j++ {
			if j != i {
				window = append(window, prices[j])
			}
		}
		if len(window) == 0 {
			keep[i] = true
			continue
		}
		med := median(window)
		mad := meanAbsDev(window, med)
		keep[i] = math.Abs(price-med) <= threshold*mad
	}
	return keep
}

// median sorts xs in place and returns its median, averaging the two middle
// values for even lengths.
func median(xs []float64) float64 {
	sort.Float64s(xs)
	n := len(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

func meanAbsDev(xs []float64, center float64) float64 {
	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - center)
	}
	return stat.Mean(devs, nil)
}
