package clean

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

// Config holds the cleaning parameters for one pipeline instance.
type Config struct {
	MarketOpen       time.Duration // Inclusive lower time-of-day bound
	MarketClose      time.Duration // Inclusive upper time-of-day bound
	OutlierWindow    int           // Centered window size, must be even and >= 2
	OutlierThreshold float64       // MAD multiples beyond which a tick is dropped
}

// DefaultConfig returns a configuration that keeps every time of day and uses
// the standard outlier parameters.
func DefaultConfig() Config {
	return Config{
		MarketOpen:       0,
		MarketClose:      23*time.Hour + 59*time.Minute + 59*time.Second,
		OutlierWindow:    50,
		OutlierThreshold: 10.0,
	}
}

// Pipeline cleans raw tick batches into canonical per-day series. A Pipeline
// is immutable after construction and safe for concurrent use.
type Pipeline struct {
	cfg Config
}

// New validates cfg and returns a Pipeline. Odd or undersized outlier windows
// are configuration errors.
func New(cfg Config) (*Pipeline, error) {
	if cfg.OutlierWindow < 2 || cfg.OutlierWindow%2 != 0 {
		return nil, fmt.Errorf("outlier window must be even and >= 2, got %d", cfg.OutlierWindow)
	}
	if cfg.OutlierThreshold <= 0 {
		return nil, fmt.Errorf("outlier threshold must be positive, got %g", cfg.OutlierThreshold)
	}
	if cfg.MarketOpen < 0 || cfg.MarketClose >= 24*time.Hour {
		return nil, fmt.Errorf("market hours must fall within one day, got %v-%v", cfg.MarketOpen, cfg.MarketClose)
	}
	if cfg.MarketClose < cfg.MarketOpen {
		return nil, fmt.Errorf("market close %v precedes open %v", cfg.MarketClose, cfg.MarketOpen)
	}
	return &Pipeline{cfg: cfg}, nil
}

// Clean runs the full pipeline over one raw batch. The input is not mutated.
// Splits rebase ticks that trade strictly before their effective date; each
// split applies independently, so overlapping splits compose multiplicatively.
func (p *Pipeline) Clean(raw model.PriceSeries, splits []model.Split) model.CleanedSeries {
	ticks := filterTradingHours(raw, p.cfg.MarketOpen, p.cfg.MarketClose)
	ticks = dropNonPositive(ticks)
	ticks = aggregateTimestamps(ticks)
	ticks = dropOutliers(ticks, p.cfg.OutlierWindow, p.cfg.OutlierThreshold)
	ticks = applySplits(ticks, splits)
	return tagDates(ticks)
}

// AdjustForSplit returns a copy of series with every price divided by ratio.
// The incremental controller uses it to rebase persisted history when a split
// becomes effective.
func AdjustForSplit(series model.CleanedSeries, ratio float64) model.CleanedSeries {
	out := make(model.CleanedSeries, len(series))
	for i, tk := range series {
		tk.Price /= ratio
		out[i] = tk
	}
	return out
}

func filterTradingHours(ticks model.PriceSeries, open, close time.Duration) model.PriceSeries {
	out := make(model.PriceSeries, 0, len(ticks))
	for _, tk := range ticks {
		tod := tk.Timestamp.Sub(model.DateOf(tk.Timestamp))
		if tod >= open && tod <= close {
			out = append(out, tk)
		}
	}
	return out
}

func dropNonPositive(ticks model.PriceSeries) model.PriceSeries {
	out := make(model.PriceSeries, 0, len(ticks))
	for _, tk := range ticks {
		if tk.Price > 0 {
			out = append(out, tk)
		}
	}
	return out
}

// aggregateTimestamps sorts by timestamp and collapses ticks sharing an exact
// timestamp into one tick at the group's median price.
func aggregateTimestamps(ticks model.PriceSeries) model.PriceSeries {
	sorted := make(model.PriceSeries, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := make(model.PriceSeries, 0, len(sorted))
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Timestamp.Equal(sorted[i].Timestamp) {
			j++
		}
		if j == i+1 {
			out = append(out, sorted[i])
		} else {
			group := make([]float64, j-i)
			for k := i; k < j; k++ {
				group[k-i] = sorted[k].Price
			}
			out = append(out, model.Tick{Timestamp: sorted[i].Timestamp, Price: median(group)})
		}
		i = j
	}
	return out
}

func dropOutliers(ticks model.PriceSeries, windowSize int, threshold float64) model.PriceSeries {
	prices := make([]float64, len(ticks))
	for i, tk := range ticks {
		prices[i] = tk.Price
	}
	keep := outlierMask(prices, windowSize, threshold)

	out := make(model.PriceSeries, 0, len(ticks))
	for i, tk := range ticks {
		if keep[i] {
			out = append(out, tk)
		}
	}
	return out
}

func applySplits(ticks model.PriceSeries, splits []model.Split) model.PriceSeries {
	out := make(model.PriceSeries, len(ticks))
	copy(out, ticks)
	for _, sp := range splits {
		for i := range out {
			if out[i].Timestamp.Before(sp.Date) {
				out[i].Price /= sp.Ratio
			}
		}
	}
	return out
}

func tagDates(ticks model.PriceSeries) model.CleanedSeries {
	out := make(model.CleanedSeries, len(ticks))
	for i, tk := range ticks {
		out[i] = model.CleanedTick{
			Timestamp: tk.Timestamp,
			Price:     tk.Price,
			Date:      model.DateOf(tk.Timestamp),
		}
	}
	return out
}
