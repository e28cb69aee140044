package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const filenameDateLayout = "20060102"

// ParseFilename extracts the instrument and trading date from a raw filename
// of the form {prefix}_{instrument}_{YYYYMMDD}.{ext}. The prefix itself may
// contain underscores; the instrument may not.
func ParseFilename(name string) (instrument string, date time.Time, err error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return "", time.Time{}, fmt.Errorf("raw filename %q: want {prefix}_{instrument}_{YYYYMMDD}", name)
	}

	instrument = parts[len(parts)-2]
	if instrument == "" {
		return "", time.Time{}, fmt.Errorf("raw filename %q: empty instrument", name)
	}
	date, err = time.Parse(filenameDateLayout, parts[len(parts)-1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("raw filename %q: parse date %q: %w", name, parts[len(parts)-1], err)
	}
	return instrument, date.UTC(), nil
}

// MatchesPattern reports whether the base name of path matches the
// configured raw-filename glob.
func MatchesPattern(pattern, path string) bool {
	ok, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && ok
}
