package config

import "github.com/quantfold/histvol/internal/estimator"

// Default values for optional configuration fields.
const (
	DefaultStartTime        = "00:00:00"
	DefaultEndTime          = "23:59:59"
	DefaultDaysPerYear      = 252
	DefaultOutlierWindow    = 50
	DefaultOutlierThreshold = 10.0
	DefaultLookbackWindow   = 30
	DefaultStorageBackend   = "filesystem"
	DefaultStorageRoot      = "data"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultFilePattern      = "prices_*_*.csv"
	DefaultQueueSize        = 64
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

func (c *PipelineConfig) applyDefaults() {
	if c.Trading.StartTime == "" {
		c.Trading.StartTime = DefaultStartTime
	}
	if c.Trading.EndTime == "" {
		c.Trading.EndTime = DefaultEndTime
	}
	if c.Trading.DaysPerYear == 0 {
		c.Trading.DaysPerYear = DefaultDaysPerYear
	}

	if c.Cleaning.OutlierWindow == 0 {
		c.Cleaning.OutlierWindow = DefaultOutlierWindow
	}
	if c.Cleaning.OutlierThreshold == 0 {
		c.Cleaning.OutlierThreshold = DefaultOutlierThreshold
	}

	if len(c.Estimators.Names) == 0 {
		c.Estimators.Names = []string{
			estimator.TickAverageRealisedVariance,
			estimator.CloseToCloseStdDeviation,
			estimator.CloseToCloseAverageRealisedVariance,
			estimator.YangZhang,
		}
	}
	if c.Estimators.LookbackWindow == 0 {
		c.Estimators.LookbackWindow = DefaultLookbackWindow
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultStorageBackend
	}
	if c.Storage.Root == "" {
		c.Storage.Root = DefaultStorageRoot
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = DefaultDBPort
	}
	if c.Storage.Postgres.SSLMode == "" {
		c.Storage.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = DefaultMaxConns
	}
	if c.Storage.Postgres.MinConns == 0 {
		c.Storage.Postgres.MinConns = DefaultMinConns
	}

	if c.Watcher.FilePattern == "" {
		c.Watcher.FilePattern = DefaultFilePattern
	}
	if c.Watcher.QueueSize == 0 {
		c.Watcher.QueueSize = DefaultQueueSize
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}
