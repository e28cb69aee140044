package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *PipelineConfig) Validate() error {
	open, close, err := c.Trading.Hours()
	if err != nil {
		return err
	}
	if close < open {
		return fmt.Errorf("trading.end_time %q precedes start_time %q", c.Trading.EndTime, c.Trading.StartTime)
	}
	if c.Trading.DaysPerYear < 1 {
		return errors.New("trading.days_per_year must be >= 1")
	}

	if c.Cleaning.OutlierWindow < 2 || c.Cleaning.OutlierWindow%2 != 0 {
		return fmt.Errorf("cleaning.outlier_window must be even and >= 2, got %d", c.Cleaning.OutlierWindow)
	}
	if c.Cleaning.OutlierThreshold <= 0 {
		return fmt.Errorf("cleaning.outlier_threshold must be positive, got %g", c.Cleaning.OutlierThreshold)
	}

	if len(c.Estimators.Names) == 0 {
		return errors.New("estimators.names must list at least one estimator")
	}
	if c.Estimators.LookbackWindow < 1 {
		return errors.New("estimators.lookback_window must be >= 1")
	}

	switch c.Storage.Backend {
	case "filesystem":
		if c.Storage.Root == "" {
			return errors.New("storage.root is required for the filesystem backend")
		}
	case "postgres":
		if err := c.Storage.Postgres.validate("storage.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.backend must be \"filesystem\" or \"postgres\", got %q", c.Storage.Backend)
	}

	for instrument, byDate := range c.Splits {
		for dateStr, ratio := range byDate {
			if _, err := time.Parse(splitDateLayout, dateStr); err != nil {
				return fmt.Errorf("splits.%s: invalid date %q", instrument, dateStr)
			}
			if ratio <= 0 {
				return fmt.Errorf("splits.%s.%s: ratio must be positive, got %g", instrument, dateStr, ratio)
			}
		}
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	return nil
}

func (pg *PostgresConfig) validate(prefix string) error {
	if pg.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if pg.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if pg.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if pg.Port < 1 || pg.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, pg.Port)
	}
	if pg.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if pg.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if pg.MinConns > pg.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, pg.MinConns, pg.MaxConns)
	}
	return nil
}
