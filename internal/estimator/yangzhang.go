package estimator

import (
	"math"
	"time"

	"github.com/quantfold/histvol/internal/calendar"
	"github.com/quantfold/histvol/internal/model"
)

// yangZhang estimates volatility from daily OHLC bars, combining overnight,
// intraday-range, and open-to-close terms. It is the only estimator that
// needs intraday range information, so the cleaned series is first resampled
// onto a business-day bar axis.
type yangZhang struct {
	cfg Config
}

const yzDriftCoeff = 2*math.Ln2 - 1

func newYangZhang(cfg Config) (Estimator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &yangZhang{cfg: cfg}, nil
}

func (e *yangZhang) Name() string { return YangZhang }

func (e *yangZhang) Estimate(cleaned model.CleanedSeries) model.VolatilitySeries {
	bars := resampleBusinessDays(cleaned)
	if len(bars) == 0 {
		return nil
	}

	// Each log ratio 0-fills independently when a bar (or the previous
	// close) is absent, so empty days never push NaN into the rolling sum.
	terms := make([]float64, len(bars))
	dates := make([]time.Time, len(bars))
	for t, bar := range bars {
		prevClose := math.NaN()
		if t > 0 {
			prevClose = bars[t-1].Close
		}
		oc := safeLogRatio(bar.Open, prevClose)
		hl := safeLogRatio(bar.High, bar.Low)
		co := safeLogRatio(bar.Close, bar.Open)
		terms[t] = oc*oc + 0.5*hl*hl - yzDriftCoeff*co*co
		dates[t] = bar.Date
	}

	scale := float64(e.cfg.TradingDaysPerYear) / float64(e.cfg.LookbackWindow)
	vols := rollingSum(terms, e.cfg.LookbackWindow)
	for i, v := range vols {
		vols[i] = math.Sqrt(v * scale)
	}
	return toSeries(dates, vols)
}

// safeLogRatio returns ln(a/b), or 0 when either operand is missing or
// non-positive.
func safeLogRatio(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) || a <= 0 || b <= 0 {
		return 0
	}
	return math.Log(a / b)
}

// resampleBusinessDays aggregates cleaned ticks into one OHLC bar per
// business day spanning the first through last cleaned dates. Ticks dated on
// a weekend fold into the preceding business day. Days without ticks yield
// empty bars.
func resampleBusinessDays(s model.CleanedSeries) []model.Bar {
	if len(s) == 0 {
		return nil
	}

	dates := s.Dates()
	axis := calendar.Range(calendar.Roll(dates[0]), calendar.Roll(dates[len(dates)-1]))
	bars := make([]model.Bar, len(axis))
	pos := make(map[time.Time]int, len(axis))
	for i, d := range axis {
		bars[i] = model.Bar{Date: d, Open: math.NaN(), High: math.NaN(), Low: math.NaN(), Close: math.NaN()}
		pos[d] = i
	}

	for _, tk := range s {
		i, ok := pos[calendar.Roll(tk.Date)]
		if !ok {
			continue
		}
		bar := &bars[i]
		if bar.Empty() {
			bar.Open, bar.High, bar.Low, bar.Close = tk.Price, tk.Price, tk.Price, tk.Price
			continue
		}
		bar.High = math.Max(bar.High, tk.Price)
		bar.Low = math.Min(bar.Low, tk.Price)
		bar.Close = tk.Price
	}
	return bars
}
