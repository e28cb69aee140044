package estimator

import (
	"math"

	"github.com/quantfold/histvol/internal/model"
)

// closeToCloseStd estimates volatility as the rolling sample standard
// deviation of daily close-to-close log returns.
type closeToCloseStd struct {
	cfg Config
}

func newCloseToCloseStd(cfg Config) (Estimator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &closeToCloseStd{cfg: cfg}, nil
}

func (e *closeToCloseStd) Name() string { return CloseToCloseStdDeviation }

func (e *closeToCloseStd) Estimate(cleaned model.CleanedSeries) model.VolatilitySeries {
	dates, closes := dailyCloses(cleaned)
	rets := logReturns(closes)

	vols := rollingStd(rets, e.cfg.LookbackWindow)
	annualize := math.Sqrt(float64(e.cfg.TradingDaysPerYear))
	for i := range vols {
		vols[i] *= annualize
	}
	return toSeries(dates, vols)
}

// closeToCloseRealisedVariance estimates volatility from squared daily
// close-to-close log returns, each treated as a one-sample realized variance.
type closeToCloseRealisedVariance struct {
	cfg Config
}

func newCloseToCloseRealisedVariance(cfg Config) (Estimator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &closeToCloseRealisedVariance{cfg: cfg}, nil
}

func (e *closeToCloseRealisedVariance) Name() string { return CloseToCloseAverageRealisedVariance }

func (e *closeToCloseRealisedVariance) Estimate(cleaned model.CleanedSeries) model.VolatilitySeries {
	dates, closes := dailyCloses(cleaned)
	rets := logReturns(closes)
	for i, r := range rets {
		rets[i] = r * r
	}

	vols := rollingMean(rets, e.cfg.LookbackWindow)
	for i, v := range vols {
		vols[i] = math.Sqrt(v * float64(e.cfg.TradingDaysPerYear))
	}
	return toSeries(dates, vols)
}
