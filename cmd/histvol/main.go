// Command histvol recomputes cleaned price history and every configured
// volatility series from complete raw history.
//
// Raw files are grouped by instrument via their
// {prefix}_{instrument}_{YYYYMMDD} filenames, cleaned as one merged
// batch per instrument, and written to the partitioned store before the
// estimators run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/quantfold/histvol/internal/clean"
	"github.com/quantfold/histvol/internal/config"
	"github.com/quantfold/histvol/internal/database"
	"github.com/quantfold/histvol/internal/estimator"
	"github.com/quantfold/histvol/internal/ingest"
	"github.com/quantfold/histvol/internal/process"
	"github.com/quantfold/histvol/internal/store"
	"github.com/quantfold/histvol/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/histvol.yaml", "path to config file")
	dataDir := flag.String("data", "", "directory holding raw price files")
	instrument := flag.String("instrument", "", "process only this instrument")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("histvol", version.String())
		return
	}

	// A .env file, when present, seeds the environment before config
	// expansion.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = buildLogger(cfg.Logging)
	slog.SetDefault(logger)

	if *dataDir == "" {
		logger.Error("missing required -data flag")
		os.Exit(1)
	}

	logger.Info("starting batch recompute",
		"version", version.Version,
		"config", *configPath,
		"data", *dataDir,
	)

	ctx := context.Background()

	batch, closeStore, err := buildBatch(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	files, err := groupRawFiles(*dataDir, cfg.Watcher.FilePattern, *instrument)
	if err != nil {
		logger.Error("failed to scan raw files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no raw files matched", "data", *dataDir, "pattern", cfg.Watcher.FilePattern)
		os.Exit(1)
	}

	bar := progressbar.Default(int64(len(files)), "instruments")
	failed := 0
	for inst, paths := range files {
		if err := batch.Run(ctx, inst, paths); err != nil {
			logger.Error("instrument failed", "instrument", inst, "error", err)
			failed++
		}
		_ = bar.Add(1)
	}

	logger.Info("batch recompute finished",
		"instruments", len(files),
		"failed", failed,
	)
	if failed > 0 {
		os.Exit(1)
	}
}

// buildBatch wires the cleaning pipeline, registry, and stores into a
// batch controller. The returned func closes the store backend.
func buildBatch(ctx context.Context, cfg *config.PipelineConfig, logger *slog.Logger) (*process.Batch, func(), error) {
	open, close, err := cfg.Trading.Hours()
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := clean.New(clean.Config{
		MarketOpen:       open,
		MarketClose:      close,
		OutlierWindow:    cfg.Cleaning.OutlierWindow,
		OutlierThreshold: cfg.Cleaning.OutlierThreshold,
	})
	if err != nil {
		return nil, nil, err
	}

	prices, vols, closeStore, err := buildStores(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	processCfg := process.Config{
		EstimatorNames:     cfg.Estimators.Names,
		LookbackWindow:     cfg.Estimators.LookbackWindow,
		TradingDaysPerYear: cfg.Trading.DaysPerYear,
	}
	batch := process.NewBatch(processCfg, pipeline, estimator.Default(), cfg, prices, vols, logger)
	return batch, closeStore, nil
}

// buildStores selects the configured store backend.
func buildStores(ctx context.Context, cfg *config.PipelineConfig) (store.PriceStore, store.VolatilityStore, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		pg := store.NewPostgres(pool)
		return pg, pg, pool.Close, nil
	default:
		fs, err := store.NewFS(cfg.Storage.Root)
		if err != nil {
			return nil, nil, nil, err
		}
		return fs, fs, func() {}, nil
	}
}

// groupRawFiles maps instrument names to their raw file paths.
func groupRawFiles(dir, pattern, only string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	files := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !ingest.MatchesPattern(pattern, path) {
			continue
		}
		inst, _, err := ingest.ParseFilename(path)
		if err != nil {
			continue
		}
		if only != "" && inst != only {
			continue
		}
		files[inst] = append(files[inst], path)
	}
	return files, nil
}

// buildLogger constructs the slog handler the config asks for.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			return slog.New(slog.NewJSONHandler(f, opts))
		}
		slog.Warn("cannot open log file, logging to stderr", "path", cfg.File, "error", err)
	}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
