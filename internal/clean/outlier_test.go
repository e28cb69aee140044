package clean

import (
	"testing"
)

func TestFilterOutliers_RejectsOddWindow(t *testing.T) {
	if _, err := FilterOutliers([]float64{1, 2, 3}, 5, 10); err == nil {
		t.Error("odd window accepted, want error")
	}
	if _, err := FilterOutliers([]float64{1, 2, 3}, 0, 10); err == nil {
		t.Error("zero window accepted, want error")
	}
}

func TestFilterOutliers_RejectsNonPositiveThreshold(t *testing.T) {
	if _, err := FilterOutliers([]float64{1, 2, 3}, 4, 0); err == nil {
		t.Error("zero threshold accepted, want error")
	}
}

func TestFilterOutliers_ZeroMADFlagsAnyDeviation(t *testing.T) {
	// All neighbors equal: MAD = 0, so any deviation at all is an outlier.
	prices := []float64{100, 100, 100, 100.01, 100, 100, 100}
	keep, err := FilterOutliers(prices, 4, 10)
	if err != nil {
		t.Fatalf("FilterOutliers: %v", err)
	}
	for i, k := range keep {
		want := i != 3
		if k != want {
			t.Errorf("keep[%d] = %v, want %v", i, k, want)
		}
	}
}

func TestFilterOutliers_ThresholdIsStrict(t *testing.T) {
	// The last observation's window is {98, 100}: median 99, MAD 1. With
	// threshold 10 a deviation of exactly 10 is kept, anything beyond is not.
	tests := []struct {
		name string
		last float64
		keep bool
	}{
		{"at threshold", 109, true},
		{"beyond threshold", 115, false},
		{"below threshold", 106, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := []float64{100, 102, 98, 100, tt.last}
			keep, err := FilterOutliers(prices, 4, 10)
			if err != nil {
				t.Fatalf("FilterOutliers: %v", err)
			}
			if keep[4] != tt.keep {
				t.Errorf("keep[4] = %v, want %v", keep[4], tt.keep)
			}
		})
	}
}

func TestFilterOutliers_NoNeighborsKept(t *testing.T) {
	keep, err := FilterOutliers([]float64{42}, 4, 10)
	if err != nil {
		t.Fatalf("FilterOutliers: %v", err)
	}
	if !keep[0] {
		t.Error("lone observation flagged, want kept")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"odd length", []float64{30, 10, 20}, 20},
		{"even length averages middles", []float64{40, 10, 30, 20}, 25},
		{"two values", []float64{98, 100}, 99},
		{"single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.xs); got != tt.want {
				t.Errorf("median = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanAbsDev(t *testing.T) {
	got := meanAbsDev([]float64{98, 100}, 99)
	if got != 1 {
		t.Errorf("meanAbsDev = %v, want 1", got)
	}
}
