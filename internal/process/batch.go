package process

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quantfold/histvol/internal/clean"
	"github.com/quantfold/histvol/internal/estimator"
	"github.com/quantfold/histvol/internal/ingest"
	"github.com/quantfold/histvol/internal/model"
	"github.com/quantfold/histvol/internal/store"
)

// SplitSource resolves registered stock splits per instrument.
// *config.PipelineConfig satisfies it.
type SplitSource interface {
	// SplitsFor returns the instrument's splits sorted by effective date.
	SplitsFor(instrument string) ([]model.Split, error)

	// SplitOn returns the ratio effective for instrument on date, or 1.
	SplitOn(instrument string, date time.Time) float64
}

// Config selects the estimators the controllers run and bounds batch
// concurrency.
type Config struct {
	EstimatorNames     []string // Registered names to run
	LookbackWindow     int      // Rolling window in trading days
	TradingDaysPerYear int      // Annualization constant
	Concurrency        int      // Max instruments processed at once in RunAll
}

func (c Config) estimatorConfig() estimator.Config {
	return estimator.Config{
		LookbackWindow:     c.LookbackWindow,
		TradingDaysPerYear: c.TradingDaysPerYear,
	}
}

// Batch recomputes one instrument's cleaned history and volatility series
// from complete raw history.
type Batch struct {
	cfg      Config
	pipeline *clean.Pipeline
	registry *estimator.Registry
	splits   SplitSource
	prices   store.PriceStore
	vols     store.VolatilityStore
	logger   *slog.Logger
}

// NewBatch creates a batch controller.
func NewBatch(
	cfg Config,
	pipeline *clean.Pipeline,
	registry *estimator.Registry,
	splits SplitSource,
	prices store.PriceStore,
	vols store.VolatilityStore,
	logger *slog.Logger,
) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{
		cfg:      cfg,
		pipeline: pipeline,
		registry: registry,
		splits:   splits,
		prices:   prices,
		vols:     vols,
		logger:   logger,
	}
}

// Run processes the instrument's raw files end to end: cleaning, partition
// writes, and a full recompute of every configured volatility series.
func (b *Batch) Run(ctx context.Context, instrument string, files []string) error {
	if err := b.ProcessPrices(ctx, instrument, files); err != nil {
		return err
	}
	return b.ComputeVolatility(ctx, instrument)
}

// RunAll runs every instrument concurrently, one worker per instrument.
func (b *Batch) RunAll(ctx context.Context, filesByInstrument map[string][]string) error {
	g, ctx := errgroup.WithContext(ctx)
	if b.cfg.Concurrency > 0 {
		g.SetLimit(b.cfg.Concurrency)
	}

	for instrument, files := range filesByInstrument {
		instrument, files := instrument, files
		g.Go(func() error {
			return b.Run(ctx, instrument, files)
		})
	}
	return g.Wait()
}

// ProcessPrices cleans the union of the instrument's raw files and writes
// one partition per cleaned trading date. The merge is order-independent:
// cleaning re-sorts by timestamp.
func (b *Batch) ProcessPrices(ctx context.Context, instrument string, files []string) error {
	logger := b.logger.With("instrument", instrument)

	var raw model.PriceSeries
	for _, path := range files {
		batch, err := ingest.LoadFile(path)
		if err != nil {
			return fmt.Errorf("instrument %s: %w", instrument, err)
		}
		if len(batch) == 0 {
			logger.Warn("empty raw file, skipping", "path", path)
			continue
		}
		raw = append(raw, batch...)
	}
	if len(raw) == 0 {
		return fmt.Errorf("instrument %s: no raw ticks in %d files", instrument, len(files))
	}

	splits, err := b.splits.SplitsFor(instrument)
	if err != nil {
		return err
	}

	cleaned := b.pipeline.Clean(raw, splits)
	if len(cleaned) == 0 {
		return fmt.Errorf("instrument %s: cleaning dropped every tick", instrument)
	}

	dates := cleaned.Dates()
	for _, date := range dates {
		if err := b.prices.WriteDay(ctx, instrument, date, cleaned.Day(date)); err != nil {
			return err
		}
	}

	logger.Info("cleaned raw history",
		"files", len(files),
		"raw_ticks", len(raw),
		"cleaned_ticks", len(cleaned),
		"days", len(dates),
	)
	return nil
}

// ComputeVolatility recomputes every configured volatility series over the
// instrument's full cleaned history, overwriting prior content per
// (estimator, lookback) key.
func (b *Batch) ComputeVolatility(ctx context.Context, instrument string) error {
	cleaned, err := b.prices.ReadAll(ctx, instrument)
	if err != nil {
		return err
	}

	for _, name := range b.cfg.EstimatorNames {
		est, err := b.registry.New(name, b.cfg.estimatorConfig())
		if err != nil {
			return fmt.Errorf("instrument %s: %w", instrument, err)
		}

		series := est.Estimate(cleaned)
		if err := b.vols.Write(ctx, instrument, name, b.cfg.LookbackWindow, series); err != nil {
			return err
		}

		b.logger.Info("wrote volatility series",
			"instrument", instrument,
			"estimator", name,
			"lookback", b.cfg.LookbackWindow,
			"records", len(series),
		)
	}
	return nil
}

// cycleID tags one processing pass in log records.
func cycleID() string {
	return uuid.NewString()
}
