package estimator

import (
	"math"
	"testing"
)

func TestRollingMean(t *testing.T) {
	got := rollingMean([]float64{1, 2, 3, 4}, 2)
	want := []float64{math.NaN(), 1.5, 2.5, 3.5}
	checkRolling(t, got, want)
}

func TestRollingSum(t *testing.T) {
	got := rollingSum([]float64{1, 2, 3, 4}, 3)
	want := []float64{math.NaN(), math.NaN(), 6, 9}
	checkRolling(t, got, want)
}

func TestRollingStd(t *testing.T) {
	// Sample std of {1, 2} and {2, 4} with one delta degree of freedom.
	got := rollingStd([]float64{1, 2, 4}, 2)
	want := []float64{math.NaN(), math.Sqrt(0.5), math.Sqrt2}
	checkRolling(t, got, want)
}

func TestRolling_NaNPropagates(t *testing.T) {
	got := rollingMean([]float64{math.NaN(), 2, 3, 4}, 2)
	want := []float64{math.NaN(), math.NaN(), 2.5, 3.5}
	checkRolling(t, got, want)
}

func TestRolling_WindowLongerThanSeries(t *testing.T) {
	got := rollingSum([]float64{1, 2}, 5)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("got[%d] = %v, want NaN", i, v)
		}
	}
}

func checkRolling(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		switch {
		case math.IsNaN(want[i]):
			if !math.IsNaN(got[i]) {
				t.Errorf("got[%d] = %v, want NaN", i, got[i])
			}
		case !approxEqual(got[i], want[i], 1e-12):
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
