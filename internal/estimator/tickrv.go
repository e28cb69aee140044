package estimator

import (
	"math"

	"github.com/quantfold/histvol/internal/model"
)

// tickRealisedVariance estimates volatility from the average daily realized
// variance of tick-level log returns. Returns span day boundaries: the move
// from one day's last tick to the next day's first tick counts toward the
// later day. The series' very first tick has no predecessor and contributes
// no return.
type tickRealisedVariance struct {
	cfg Config
}

func newTickRealisedVariance(cfg Config) (Estimator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &tickRealisedVariance{cfg: cfg}, nil
}

func (e *tickRealisedVariance) Name() string { return TickAverageRealisedVariance }

func (e *tickRealisedVariance) Estimate(cleaned model.CleanedSeries) model.VolatilitySeries {
	dates := cleaned.Dates()
	if len(dates) == 0 {
		return nil
	}

	variance := make([]float64, len(dates))
	idx := 0
	for i := 1; i < len(cleaned); i++ {
		for !cleaned[i].Date.Equal(dates[idx]) {
			idx++
		}
		r := math.Log(cleaned[i].Price / cleaned[i-1].Price)
		variance[idx] += r * r
	}

	vols := rollingMean(variance, e.cfg.LookbackWindow)
	for i, v := range vols {
		vols[i] = math.Sqrt(v * float64(e.cfg.TradingDaysPerYear))
	}
	return toSeries(dates, vols)
}
