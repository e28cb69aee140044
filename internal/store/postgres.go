package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantfold/histvol/internal/model"
)

// Postgres persists partitions in two tables:
//
//	cleaned_ticks          (instrument, ts, price, trade_date)
//	historical_volatility  (instrument, estimator, lookback, trade_date, volatility)
//
// Day and series rewrites run in one transaction (delete then batched
// insert), so readers never observe a half-replaced partition.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres returns a store backed by pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool}
}

// WriteDay replaces the (instrument, date) partition with ticks.
func (s *Postgres) WriteDay(ctx context.Context, instrument string, date time.Time, ticks model.CleanedSeries) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin day rewrite %s/%s: %w", instrument, date.UTC().Format(partitionDateLayout), err)
	}
	defer tx.Rollback(ctx)

	day := date.UTC()
	if _, err := tx.Exec(ctx,
		`DELETE FROM cleaned_ticks WHERE instrument = $1 AND trade_date = $2`,
		instrument, day,
	); err != nil {
		return fmt.Errorf("clear day partition %s/%s: %w", instrument, day.Format(partitionDateLayout), err)
	}

	batch := &pgx.Batch{}
	for _, tk := range ticks {
		batch.Queue(`
			INSERT INTO cleaned_ticks (instrument, ts, price, trade_date)
			VALUES ($1, $2, $3, $4)
		`, instrument, tk.Timestamp.UTC(), tk.Price, day)
	}
	if err := sendBatch(ctx, tx, batch, len(ticks)); err != nil {
		return fmt.Errorf("insert day partition %s/%s: %w", instrument, day.Format(partitionDateLayout), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit day partition %s/%s: %w", instrument, day.Format(partitionDateLayout), err)
	}
	return nil
}

// ReadDay returns the (instrument, date) partition.
func (s *Postgres) ReadDay(ctx context.Context, instrument string, date time.Time) (model.CleanedSeries, error) {
	day := date.UTC()
	ticks, err := s.queryTicks(ctx,
		`SELECT ts, price, trade_date FROM cleaned_ticks
		 WHERE instrument = $1 AND trade_date = $2 ORDER BY ts`,
		instrument, day,
	)
	if err != nil {
		return nil, fmt.Errorf("read day partition %s/%s: %w", instrument, day.Format(partitionDateLayout), err)
	}
	if len(ticks) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", instrument, day.Format(partitionDateLayout), ErrPartitionMissing)
	}
	return ticks, nil
}

// ReadDays concatenates the given partitions in order.
func (s *Postgres) ReadDays(ctx context.Context, instrument string, dates []time.Time) (model.CleanedSeries, error) {
	var out model.CleanedSeries
	for _, date := range dates {
		day, err := s.ReadDay(ctx, instrument, date)
		if err != nil {
			return nil, err
		}
		out = append(out, day...)
	}
	return out, nil
}

// ReadAll returns every persisted tick for the instrument, ascending.
func (s *Postgres) ReadAll(ctx context.Context, instrument string) (model.CleanedSeries, error) {
	ticks, err := s.queryTicks(ctx,
		`SELECT ts, price, trade_date FROM cleaned_ticks
		 WHERE instrument = $1 ORDER BY ts`,
		instrument,
	)
	if err != nil {
		return nil, fmt.Errorf("read all ticks for %s: %w", instrument, err)
	}
	return ticks, nil
}

// ListDays returns the persisted partition dates, ascending.
func (s *Postgres) ListDays(ctx context.Context, instrument string) ([]time.Time, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT trade_date FROM cleaned_ticks
		 WHERE instrument = $1 ORDER BY trade_date`,
		instrument,
	)
	if err != nil {
		return nil, fmt.Errorf("list day partitions for %s: %w", instrument, err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan day partition date: %w", err)
		}
		dates = append(dates, d.UTC())
	}
	return dates, rows.Err()
}

// Write replaces the volatility series for the key.
func (s *Postgres) Write(ctx context.Context, instrument, estimator string, lookback int, series model.VolatilitySeries) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin series rewrite %s/%s_%d: %w", instrument, estimator, lookback, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM historical_volatility
		 WHERE instrument = $1 AND estimator = $2 AND lookback = $3`,
		instrument, estimator, lookback,
	); err != nil {
		return fmt.Errorf("clear volatility series %s/%s_%d: %w", instrument, estimator, lookback, err)
	}

	batch := &pgx.Batch{}
	for _, rec := range series {
		batch.Queue(`
			INSERT INTO historical_volatility (instrument, estimator, lookback, trade_date, volatility)
			VALUES ($1, $2, $3, $4, $5)
		`, instrument, estimator, lookback, rec.Date.UTC(), rec.Volatility)
	}
	if err := sendBatch(ctx, tx, batch, len(series)); err != nil {
		return fmt.Errorf("insert volatility series %s/%s_%d: %w", instrument, estimator, lookback, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit volatility series %s/%s_%d: %w", instrument, estimator, lookback, err)
	}
	return nil
}

// Read returns the volatility series for the key, or an empty series when
// none has been written.
func (s *Postgres) Read(ctx context.Context, instrument, estimator string, lookback int) (model.VolatilitySeries, error) {
	rows, err := s.db.Query(ctx,
		`SELECT trade_date, volatility FROM historical_volatility
		 WHERE instrument = $1 AND estimator = $2 AND lookback = $3
		 ORDER BY trade_date`,
		instrument, estimator, lookback,
	)
	if err != nil {
		return nil, fmt.Errorf("read volatility series %s/%s_%d: %w", instrument, estimator, lookback, err)
	}
	defer rows.Close()

	var series model.VolatilitySeries
	for rows.Next() {
		var rec model.VolatilityRecord
		if err := rows.Scan(&rec.Date, &rec.Volatility); err != nil {
			return nil, fmt.Errorf("scan volatility record: %w", err)
		}
		rec.Date = rec.Date.UTC()
		series = append(series, rec)
	}
	return series, rows.Err()
}

func (s *Postgres) queryTicks(ctx context.Context, sql string, args ...any) (model.CleanedSeries, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks model.CleanedSeries
	for rows.Next() {
		var tk model.CleanedTick
		if err := rows.Scan(&tk.Timestamp, &tk.Price, &tk.Date); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		tk.Timestamp = tk.Timestamp.UTC()
		tk.Date = tk.Date.UTC()
		ticks = append(ticks, tk)
	}
	return ticks, rows.Err()
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, n int) error {
	if n == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < n; i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	return results.Close()
}
