package estimator

import (
	"fmt"

	"github.com/quantfold/histvol/internal/model"
)

// Built-in estimator names, as registered in Default.
const (
	TickAverageRealisedVariance         = "tick_average_realised_variance"
	CloseToCloseStdDeviation            = "close_to_close_std_deviation"
	CloseToCloseAverageRealisedVariance = "close_to_close_average_realised_variance"
	YangZhang                           = "yang_zhang"
)

// Config holds the parameters common to every estimator.
type Config struct {
	LookbackWindow     int // Rolling window length in trading days
	TradingDaysPerYear int // Annualization constant
}

func (c Config) validate() error {
	if c.LookbackWindow <= 0 {
		return fmt.Errorf("lookback window must be positive, got %d", c.LookbackWindow)
	}
	if c.TradingDaysPerYear <= 0 {
		return fmt.Errorf("trading days per year must be positive, got %d", c.TradingDaysPerYear)
	}
	return nil
}

// Estimator derives a rolling annualized-volatility series from a cleaned
// price series. Days whose rolling window is not yet full yield no record.
type Estimator interface {
	// Name returns the registered estimator name.
	Name() string

	// Estimate computes one volatility record per trading day on the
	// estimator's day axis, ordered by date.
	Estimate(cleaned model.CleanedSeries) model.VolatilitySeries
}
