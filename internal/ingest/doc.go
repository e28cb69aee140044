// Package ingest loads raw tick files.
//
// Raw files are CSV with a ts,price header, one file per (instrument,
// arrival batch). Filenames encode the instrument and trading date as
// {prefix}_{instrument}_{YYYYMMDD}.{ext} so the watcher can route a file
// without opening it. A malformed row fails the whole file; nothing is
// partially ingested.
package ingest
