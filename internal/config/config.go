package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

// PipelineConfig is the root configuration for the histvol pipeline.
type PipelineConfig struct {
	Trading    TradingConfig                 `yaml:"trading"`
	Cleaning   CleaningConfig                `yaml:"cleaning"`
	Estimators EstimatorsConfig              `yaml:"estimators"`
	Storage    StorageConfig                 `yaml:"storage"`
	Watcher    WatcherConfig                 `yaml:"watcher"`
	Splits     map[string]map[string]float64 `yaml:"splits"`
	Logging    LoggingConfig                 `yaml:"logging"`
}

// TradingConfig bounds the trading day and fixes the annualization constant.
type TradingConfig struct {
	StartTime   string `yaml:"start_time"` // Inclusive, HH:MM:SS
	EndTime     string `yaml:"end_time"`   // Inclusive, HH:MM:SS
	DaysPerYear int    `yaml:"days_per_year"`
}

// CleaningConfig holds the outlier-filter parameters.
type CleaningConfig struct {
	OutlierWindow    int     `yaml:"outlier_window"` // Even, >= 2
	OutlierThreshold float64 `yaml:"outlier_threshold"`
}

// EstimatorsConfig selects the estimators to run and their shared lookback.
type EstimatorsConfig struct {
	Names          []string `yaml:"names"`
	LookbackWindow int      `yaml:"lookback_window"`
}

// StorageConfig selects and parameterizes the store backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // "filesystem" or "postgres"
	Root     string         `yaml:"root"`    // Filesystem store root
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds the database connection for the postgres backend.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WatcherConfig parameterizes the raw-file watcher daemon.
type WatcherConfig struct {
	Inbox         string `yaml:"inbox"`          // Directory watched for raw files
	FilePattern   string `yaml:"file_pattern"`   // Glob the raw filenames must match
	KeepProcessed bool   `yaml:"keep_processed"` // Leave processed files in the inbox
	QueueSize     int    `yaml:"queue_size"`     // Initial event-queue capacity
}

// LoggingConfig controls handler construction in the entrypoints.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // JSON lines are appended here when set
}

// timeOfDayLayout parses the inclusive trading-hour bounds.
const timeOfDayLayout = "15:04:05"

// Hours returns the trading-hour bounds as time-of-day offsets.
func (t TradingConfig) Hours() (open, close time.Duration, err error) {
	open, err = parseTimeOfDay(t.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("trading.start_time: %w", err)
	}
	close, err = parseTimeOfDay(t.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("trading.end_time: %w", err)
	}
	return open, close, nil
}

func parseTimeOfDay(s string) (time.Duration, error) {
	tod, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return time.Duration(tod.Hour())*time.Hour +
		time.Duration(tod.Minute())*time.Minute +
		time.Duration(tod.Second())*time.Second, nil
}

// splitDateLayout keys the split registry by effective date.
const splitDateLayout = "2006-01-02"

// SplitsFor returns the instrument's splits sorted by effective date. An
// instrument without registered splits yields nil.
func (c *PipelineConfig) SplitsFor(instrument string) ([]model.Split, error) {
	raw := c.Splits[instrument]
	if len(raw) == 0 {
		return nil, nil
	}

	splits := make([]model.Split, 0, len(raw))
	for dateStr, ratio := range raw {
		date, err := time.Parse(splitDateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("splits.%s: parse date %q: %w", instrument, dateStr, err)
		}
		if ratio <= 0 {
			return nil, fmt.Errorf("splits.%s.%s: ratio must be positive, got %g", instrument, dateStr, ratio)
		}
		splits = append(splits, model.Split{Date: date.UTC(), Ratio: ratio})
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].Date.Before(splits[j].Date) })
	return splits, nil
}

// SplitOn returns the ratio of a split effective for instrument on date, or 1
// when none is registered.
func (c *PipelineConfig) SplitOn(instrument string, date time.Time) float64 {
	ratio, ok := c.Splits[instrument][date.UTC().Format(splitDateLayout)]
	if !ok {
		return 1
	}
	return ratio
}
