// Package watch turns raw-file arrivals into incremental processing
// cycles.
//
// An fsnotify watcher on the inbox directory matches created files
// against the configured raw-filename pattern and enqueues one event per
// file. A single consumer goroutine drains the queue serially and invokes
// the trigger, so no two cycles for the same instrument ever overlap.
// Files that process successfully are removed from the inbox; failed
// files stay behind for operator inspection.
package watch
