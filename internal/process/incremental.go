package process

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantfold/histvol/internal/calendar"
	"github.com/quantfold/histvol/internal/clean"
	"github.com/quantfold/histvol/internal/estimator"
	"github.com/quantfold/histvol/internal/ingest"
	"github.com/quantfold/histvol/internal/store"
)

// Incremental appends one new trading day per cycle. It implements the
// trigger interface the watcher invokes once per arrived raw file.
type Incremental struct {
	cfg      Config
	pipeline *clean.Pipeline
	registry *estimator.Registry
	splits   SplitSource
	prices   store.PriceStore
	vols     store.VolatilityStore
	batch    *Batch
	logger   *slog.Logger
}

// NewIncremental creates an incremental controller. The batch controller
// performs the full volatility recompute after a split-triggered rebase.
func NewIncremental(
	cfg Config,
	pipeline *clean.Pipeline,
	registry *estimator.Registry,
	splits SplitSource,
	prices store.PriceStore,
	vols store.VolatilityStore,
	batch *Batch,
	logger *slog.Logger,
) *Incremental {
	if logger == nil {
		logger = slog.Default()
	}
	return &Incremental{
		cfg:      cfg,
		pipeline: pipeline,
		registry: registry,
		splits:   splits,
		prices:   prices,
		vols:     vols,
		batch:    batch,
		logger:   logger,
	}
}

// OnNewFile processes one newly arrived raw file holding a single trading
// day for one instrument. An empty file is skipped with a warning and no
// state mutated. A missing historical partition during estimation is fatal
// for the cycle: it marks a gap in upstream processing, not a transient
// condition, and is not retried.
func (c *Incremental) OnNewFile(ctx context.Context, instrument string, date time.Time, path string) error {
	logger := c.logger.With(
		"cycle", cycleID(),
		"instrument", instrument,
		"date", date.Format("2006-01-02"),
	)

	raw, err := ingest.LoadFile(path)
	if err != nil {
		return fmt.Errorf("instrument %s date %s: %w", instrument, date.Format("2006-01-02"), err)
	}
	if len(raw) == 0 {
		logger.Warn("empty raw file, skipping cycle", "path", path)
		return nil
	}

	// The new day is cleaned in isolation with no split map: rebasing is
	// a property of history relative to the split date, and the arriving
	// day is never strictly before its own date.
	cleaned := c.pipeline.Clean(raw, nil)
	if err := c.prices.WriteDay(ctx, instrument, date, cleaned); err != nil {
		return err
	}
	logger.Info("appended day partition", "raw_ticks", len(raw), "cleaned_ticks", len(cleaned))

	if ratio := c.splits.SplitOn(instrument, date); ratio != 1 {
		return c.rebase(ctx, logger, instrument, date, ratio)
	}

	for _, name := range c.cfg.EstimatorNames {
		if err := c.appendRecord(ctx, logger, instrument, date, name); err != nil {
			return err
		}
	}
	return nil
}

// rebase divides every pre-existing partition by ratio, then recomputes
// every volatility series from the rebased history: the rebase falsifies
// each previously persisted record, so appending to them would mix price
// bases.
func (c *Incremental) rebase(ctx context.Context, logger *slog.Logger, instrument string, date time.Time, ratio float64) error {
	logger.Info("split effective, rebasing history", "ratio", ratio)

	days, err := c.prices.ListDays(ctx, instrument)
	if err != nil {
		return err
	}

	rebased := 0
	for _, day := range days {
		if !day.Before(date) {
			continue
		}
		partition, err := c.prices.ReadDay(ctx, instrument, day)
		if err != nil {
			return err
		}
		if err := c.prices.WriteDay(ctx, instrument, day, clean.AdjustForSplit(partition, ratio)); err != nil {
			return err
		}
		rebased++
	}
	logger.Info("rebased day partitions", "partitions", rebased)

	if err := c.batch.ComputeVolatility(ctx, instrument); err != nil {
		return fmt.Errorf("recompute volatility after split on %s: %w", date.Format("2006-01-02"), err)
	}
	logger.Info("recomputed volatility series after split")
	return nil
}

// appendRecord extends one volatility series by the new day's record,
// estimated over a bounded trailing window of business days. The window
// holds one day more than the lookback so the estimator sees the previous
// close; the resulting tail record matches a full-history recompute
// exactly.
func (c *Incremental) appendRecord(ctx context.Context, logger *slog.Logger, instrument string, date time.Time, name string) error {
	est, err := c.registry.New(name, c.cfg.estimatorConfig())
	if err != nil {
		return fmt.Errorf("instrument %s: %w", instrument, err)
	}

	window := calendar.WindowEnding(date, c.cfg.LookbackWindow+1)
	cleaned, err := c.prices.ReadDays(ctx, instrument, window)
	if err != nil {
		return fmt.Errorf("instrument %s estimator %s lookback %d: trailing window: %w",
			instrument, name, c.cfg.LookbackWindow, err)
	}

	rec, ok := est.Estimate(cleaned).Last()
	if !ok || !rec.Date.Equal(date) {
		logger.Warn("estimator produced no record for the new day, nothing appended",
			"estimator", name)
		return nil
	}

	series, err := c.vols.Read(ctx, instrument, name, c.cfg.LookbackWindow)
	if err != nil {
		return err
	}
	if last, ok := series.Last(); ok && !last.Date.Before(rec.Date) {
		logger.Warn("volatility series already covers the new day, nothing appended",
			"estimator", name, "last_date", last.Date.Format("2006-01-02"))
		return nil
	}

	series = append(series, rec)
	if err := c.vols.Write(ctx, instrument, name, c.cfg.LookbackWindow, series); err != nil {
		return err
	}

	logger.Info("appended volatility record",
		"estimator", name,
		"lookback", c.cfg.LookbackWindow,
		"volatility", rec.Volatility,
	)
	return nil
}
