package estimator

import (
	"math"
	"testing"
	"time"
)

func TestDailyCloses(t *testing.T) {
	cleaned := series(
		ticksOn(15, 100, 104, 102),
		ticksOn(16, 103),
		ticksOn(17, 99, 101),
	)

	dates, closes := dailyCloses(cleaned)
	if len(dates) != 3 || len(closes) != 3 {
		t.Fatalf("lens = %d, %d, want 3, 3", len(dates), len(closes))
	}
	want := []float64{102, 103, 101}
	for i := range want {
		if closes[i] != want[i] {
			t.Errorf("closes[%d] = %v, want %v", i, closes[i], want[i])
		}
	}
	if !dates[1].Equal(day(16)) {
		t.Errorf("dates[1] = %v, want %v", dates[1], day(16))
	}
}

func TestLogReturns(t *testing.T) {
	got := logReturns([]float64{100, 110, 99})
	if !math.IsNaN(got[0]) {
		t.Errorf("got[0] = %v, want NaN", got[0])
	}
	if !approxEqual(got[1], math.Log(1.1), 1e-15) {
		t.Errorf("got[1] = %v, want %v", got[1], math.Log(1.1))
	}
	if !approxEqual(got[2], math.Log(99.0/110.0), 1e-15) {
		t.Errorf("got[2] = %v, want %v", got[2], math.Log(99.0/110.0))
	}
}

func TestToSeries_DropsUndefined(t *testing.T) {
	dates := []time.Time{day(15), day(16), day(17)}
	vols := []float64{math.NaN(), 0.2, math.NaN()}

	got := toSeries(dates, vols)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].Date.Equal(day(16)) || got[0].Volatility != 0.2 {
		t.Errorf("record = %+v, want 2017-05-16 at 0.2", got[0])
	}
}
