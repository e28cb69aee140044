package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

// timestampLayouts are tried in order when parsing the ts column.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// LoadFile reads one raw tick file. The returned series carries ticks in
// file order; cleaning sorts by timestamp. A file with only a header (or
// nothing at all) yields an empty series and no error, which the
// controllers treat as a skip. Any malformed row fails the whole file.
func LoadFile(path string) (model.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw file: %w", err)
	}
	defer f.Close()

	series, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("raw file %s: %w", path, err)
	}
	return series, nil
}

// Read parses ts,price rows from r.
func Read(r io.Reader) (model.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	tsCol, priceCol, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var series model.PriceSeries
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := parseTimestamp(row[tsCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		price, err := strconv.ParseFloat(row[priceCol], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse price %q: %w", line, row[priceCol], err)
		}
		series = append(series, model.Tick{Timestamp: ts, Price: price})
	}
	return series, nil
}

func columnIndexes(header []string) (ts, price int, err error) {
	ts, price = -1, -1
	for i, name := range header {
		switch name {
		case "ts":
			ts = i
		case "price":
			price = i
		}
	}
	if ts < 0 || price < 0 {
		return 0, 0, fmt.Errorf("header must name ts and price columns, got %v", header)
	}
	return ts, price, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}
