package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quantfold/histvol/internal/ingest"
)

// Trigger consumes one arrived raw file. process.Incremental satisfies it.
type Trigger interface {
	OnNewFile(ctx context.Context, instrument string, date time.Time, path string) error
}

// Config holds watcher configuration.
type Config struct {
	Inbox         string // Directory watched for raw files
	FilePattern   string // Glob the raw filenames must match
	KeepProcessed bool   // Leave successfully processed files in the inbox
	QueueSize     int    // Initial event-queue capacity
}

// Watcher feeds inbox file creations through a queue into the trigger.
type Watcher struct {
	cfg     Config
	trigger Trigger
	logger  *slog.Logger

	fs    *fsnotify.Watcher
	queue *Queue

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher.
func New(cfg Config, trigger Trigger, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:     cfg,
		trigger: trigger,
		logger:  logger,
		queue:   NewQueue(cfg.QueueSize),
	}
}

// Start begins watching the inbox and processing queued files. Files
// already sitting in the inbox at startup are enqueued first, so a daemon
// restart never loses arrivals.
func (w *Watcher) Start(ctx context.Context) error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fs.Add(w.cfg.Inbox); err != nil {
		fs.Close()
		return fmt.Errorf("watch inbox %s: %w", w.cfg.Inbox, err)
	}
	w.fs = fs
	w.ctx, w.cancel = context.WithCancel(ctx)

	if err := w.enqueueExisting(); err != nil {
		fs.Close()
		return err
	}

	w.wg.Add(2)
	go w.watchLoop()
	go w.consumeLoop()

	w.logger.Info("watcher started",
		"inbox", w.cfg.Inbox,
		"pattern", w.cfg.FilePattern,
		"pending", w.queue.Len(),
	)
	return nil
}

// Stop shuts the watcher down, letting the in-flight cycle finish.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.fs != nil {
		w.fs.Close()
	}
	w.queue.Close()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("watcher stopped")
		return nil
	case <-ctx.Done():
		w.logger.Warn("watcher stop timed out")
		return ctx.Err()
	}
}

// enqueueExisting queues files already present in the inbox.
func (w *Watcher) enqueueExisting() error {
	entries, err := os.ReadDir(w.cfg.Inbox)
	if err != nil {
		return fmt.Errorf("scan inbox %s: %w", w.cfg.Inbox, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w.offer(filepath.Join(w.cfg.Inbox, e.Name()))
	}
	return nil
}

// watchLoop translates fsnotify events into queue entries.
func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Create covers both fresh writes and files moved into
			// the inbox; Rename only fires for the old name of a
			// file moved away, so it is not matched.
			if ev.Op&fsnotify.Create != 0 {
				w.offer(ev.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

// offer enqueues path if it matches the raw-filename pattern and parses.
func (w *Watcher) offer(path string) {
	if !ingest.MatchesPattern(w.cfg.FilePattern, path) {
		w.logger.Debug("ignoring non-matching file", "path", path)
		return
	}
	instrument, date, err := ingest.ParseFilename(path)
	if err != nil {
		w.logger.Warn("ignoring unparseable filename", "path", path, "error", err)
		return
	}
	if !w.queue.Push(Event{Instrument: instrument, Date: date, Path: path}) {
		w.logger.Warn("queue closed, dropping file event", "path", path)
	}
}

// consumeLoop drains the queue serially. One event runs one complete
// incremental cycle before the next is handled, which keeps a single
// writer per instrument.
func (w *Watcher) consumeLoop() {
	defer w.wg.Done()

	for {
		ev, ok := w.queue.Pop()
		if !ok {
			return
		}

		if err := w.trigger.OnNewFile(w.ctx, ev.Instrument, ev.Date, ev.Path); err != nil {
			w.logger.Error("incremental cycle failed, file left in inbox",
				"instrument", ev.Instrument,
				"date", ev.Date.Format("2006-01-02"),
				"path", ev.Path,
				"error", err,
			)
			continue
		}

		if !w.cfg.KeepProcessed {
			if err := os.Remove(ev.Path); err != nil {
				w.logger.Warn("remove processed file", "path", ev.Path, "error", err)
			}
		}
	}
}
