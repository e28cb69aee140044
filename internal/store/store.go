package store

import (
	"context"
	"errors"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

// ErrPartitionMissing marks a read of a day partition that was never
// written. The incremental controller treats it as a fatal gap in upstream
// processing.
var ErrPartitionMissing = errors.New("day partition missing")

// PriceStore persists cleaned ticks partitioned by (instrument, date).
// Callers guarantee one writer per instrument; methods block for their
// duration.
type PriceStore interface {
	// WriteDay replaces the day partition with ticks.
	WriteDay(ctx context.Context, instrument string, date time.Time, ticks model.CleanedSeries) error

	// ReadDay returns one day partition. A missing partition is an error
	// wrapping ErrPartitionMissing.
	ReadDay(ctx context.Context, instrument string, date time.Time) (model.CleanedSeries, error)

	// ReadDays returns the concatenation of the given day partitions in
	// the order given. Any missing partition fails the whole read.
	ReadDays(ctx context.Context, instrument string, dates []time.Time) (model.CleanedSeries, error)

	// ReadAll returns every persisted tick for the instrument, ascending
	// by timestamp. An instrument with no partitions yields an empty
	// series.
	ReadAll(ctx context.Context, instrument string) (model.CleanedSeries, error)

	// ListDays returns the dates of every persisted partition, ascending.
	ListDays(ctx context.Context, instrument string) ([]time.Time, error)
}

// VolatilityStore persists one volatility series per
// (instrument, estimator, lookback) key.
type VolatilityStore interface {
	// Write replaces the series for the key.
	Write(ctx context.Context, instrument, estimator string, lookback int, series model.VolatilitySeries) error

	// Read returns the series for the key, ascending by date. An absent
	// key yields an empty series, not an error: the first incremental
	// append has nothing to extend.
	Read(ctx context.Context, instrument, estimator string, lookback int) (model.VolatilitySeries, error)
}
