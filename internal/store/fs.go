package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

const (
	pricesDir     = "prices"
	volatilityDir = "historical_volatility"

	partitionDateLayout = "2006-01-02"
	tickTimeLayout      = time.RFC3339Nano
)

// FS stores partitions as CSV files under a root directory:
//
//	<root>/prices/<instrument>/<YYYY-MM-DD>.csv            (ts,price)
//	<root>/historical_volatility/<estimator>_<lookback>/<instrument>.csv  (date,volatility)
//
// Writes go through a temp file and rename, so readers never observe a
// partially written partition.
type FS struct {
	root string
}

// NewFS creates the store root if needed and returns a filesystem store.
func NewFS(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FS{root: root}, nil
}

func (s *FS) dayPath(instrument string, date time.Time) string {
	return filepath.Join(s.root, pricesDir, instrument, date.UTC().Format(partitionDateLayout)+".csv")
}

func (s *FS) seriesPath(instrument, estimator string, lookback int) string {
	key := fmt.Sprintf("%s_%d", estimator, lookback)
	return filepath.Join(s.root, volatilityDir, key, instrument+".csv")
}

// WriteDay replaces the (instrument, date) partition with ticks.
func (s *FS) WriteDay(_ context.Context, instrument string, date time.Time, ticks model.CleanedSeries) error {
	rows := make([][]string, 0, len(ticks)+1)
	rows = append(rows, []string{"ts", "price"})
	for _, tk := range ticks {
		rows = append(rows, []string{
			tk.Timestamp.UTC().Format(tickTimeLayout),
			strconv.FormatFloat(tk.Price, 'g', -1, 64),
		})
	}
	if err := writeCSV(s.dayPath(instrument, date), rows); err != nil {
		return fmt.Errorf("write day partition %s/%s: %w", instrument, date.UTC().Format(partitionDateLayout), err)
	}
	return nil
}

// ReadDay returns the (instrument, date) partition.
func (s *FS) ReadDay(_ context.Context, instrument string, date time.Time) (model.CleanedSeries, error) {
	rows, err := readCSV(s.dayPath(instrument, date))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s/%s: %w", instrument, date.UTC().Format(partitionDateLayout), ErrPartitionMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("read day partition %s/%s: %w", instrument, date.UTC().Format(partitionDateLayout), err)
	}

	ticks := make(model.CleanedSeries, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(tickTimeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("day partition %s/%s: parse ts %q: %w", instrument, date.UTC().Format(partitionDateLayout), row[0], err)
		}
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("day partition %s/%s: parse price %q: %w", instrument, date.UTC().Format(partitionDateLayout), row[1], err)
		}
		ticks = append(ticks, model.CleanedTick{Timestamp: ts, Price: price, Date: model.DateOf(ts)})
	}
	return ticks, nil
}

// ReadDays concatenates the given partitions in order.
func (s *FS) ReadDays(ctx context.Context, instrument string, dates []time.Time) (model.CleanedSeries, error) {
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

// ReadAll concatenates every persisted partition for the instrument,
// ascending by date.
func (s *FS) ReadAll(ctx context.Context, instrument string) (model.CleanedSeries, error) {
	dates, err := s.ListDays(ctx, instrument)
	if err != nil {
		return nil, err
	}
	return s.ReadDays(ctx, instrument, dates)
}

// ListDays returns the persisted partition dates, ascending.
func (s *FS) ListDays(_ context.Context, instrument string) ([]time.Time, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, pricesDir, instrument))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list day partitions for %s: %w", instrument, err)
	}

	var dates []time.Time
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".csv")
		date, err := time.Parse(partitionDateLayout, name)
		if err != nil {
			continue
		}
		dates = append(dates, date.UTC())
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Write replaces the volatility series for the key.
func (s *FS) Write(_ context.Context, instrument, estimator string, lookback int, series model.VolatilitySeries) error {
	rows := make([][]string, 0, len(series)+1)
	rows = append(rows, []string{"date", "volatility"})
	for _, rec := range series {
		rows = append(rows, []string{
			rec.Date.UTC().Format(partitionDateLayout),
			strconv.FormatFloat(rec.Volatility, 'g', -1, 64),
		})
	}
	if err := writeCSV(s.seriesPath(instrument, estimator, lookback), rows); err != nil {
		return fmt.Errorf("write volatility series %s/%s_%d: %w", instrument, estimator, lookback, err)
	}
	return nil
}

// Read returns the volatility series for the key, or an empty series when
// none has been written.
func (s *FS) Read(_ context.Context, instrument, estimator string, lookback int) (model.VolatilitySeries, error) {
	rows, err := readCSV(s.seriesPath(instrument, estimator, lookback))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read volatility series %s/%s_%d: %w", instrument, estimator, lookback, err)
	}

	series := make(model.VolatilitySeries, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(partitionDateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("volatility series %s/%s_%d: parse date %q: %w", instrument, estimator, lookback, row[0], err)
		}
		vol, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("volatility series %s/%s_%d: parse volatility %q: %w", instrument, estimator, lookback, row[1], err)
		}
		series = append(series, model.VolatilityRecord{Date: date.UTC(), Volatility: vol})
	}
	return series, nil
}

// writeCSV writes rows to path atomically via a temp file in the target
// directory.
func writeCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create partition directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace partition: %w", err)
	}
	return nil
}

// readCSV reads path and returns its data rows, header stripped. Passes
// through os.IsNotExist errors unwrapped for the caller to classify.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 2
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}
