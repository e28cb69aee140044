// Command histvold watches an inbox directory for newly arrived raw
// price files and appends one trading day per file: the day's cleaned
// partition plus one record per configured volatility series.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quantfold/histvol/internal/clean"
	"github.com/quantfold/histvol/internal/config"
	"github.com/quantfold/histvol/internal/database"
	"github.com/quantfold/histvol/internal/estimator"
	"github.com/quantfold/histvol/internal/process"
	"github.com/quantfold/histvol/internal/store"
	"github.com/quantfold/histvol/internal/version"
	"github.com/quantfold/histvol/internal/watch"
)

const stopTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "configs/histvol.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("histvold", version.String())
		return
	}

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

	if cfg.Watcher.Inbox == "" {
		logger.Error("watcher.inbox must be configured")
		os.Exit(1)
	}

	logger.Info("starting watcher daemon",
		"version", version.Version,
		"config", *configPath,
		"inbox", cfg.Watcher.Inbox,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, closeStore, err := buildWatcher(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := watcher.Start(ctx); err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := watcher.Stop(stopCtx); err != nil {
		logger.Error("watcher did not stop cleanly", "error", err)
		os.Exit(1)
	}
}

// buildWatcher wires the incremental controller and its watcher. The
// returned func closes the store backend.
func buildWatcher(ctx context.Context, cfg *config.PipelineConfig, logger *slog.Logger) (*watch.Watcher, func(), error) {
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

	registry := estimator.Default()
	processCfg := process.Config{
		EstimatorNames:     cfg.Estimators.Names,
		LookbackWindow:     cfg.Estimators.LookbackWindow,
		TradingDaysPerYear: cfg.Trading.DaysPerYear,
	}
	batch := process.NewBatch(processCfg, pipeline, registry, cfg, prices, vols, logger)
	incr := process.NewIncremental(processCfg, pipeline, registry, cfg, prices, vols, batch, logger)

	watcher := watch.New(watch.Config{
		Inbox:         cfg.Watcher.Inbox,
		FilePattern:   cfg.Watcher.FilePattern,
		KeepProcessed: cfg.Watcher.KeepProcessed,
		QueueSize:     cfg.Watcher.QueueSize,
	}, incr, logger)
	return watcher, closeStore, nil
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
