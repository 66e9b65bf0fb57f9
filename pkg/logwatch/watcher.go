// Package logwatch notices when partition files in the event log directory
// change, including writes made by other processes sharing the directory.
package logwatch

import (
	"context"
	"fmt"
	"os"
	"time"

	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/pkg/eventlog"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// ChangeFunc receives the UTC day of a partition that was created or written.
type ChangeFunc func(day time.Time)

type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration
	logger   logger.ILogger

	// day -> time of the latest event not yet reported
	pending map[time.Time]time.Time
}

func New(dir string, onChange ChangeFunc, log logger.ILogger) (*Watcher, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		watcher:  fw,
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   log,
		pending:  make(map[time.Time]time.Time),
	}, nil
}

// SetDebounce changes how long a partition must stay quiet before it is
// reported. Bursts of appends are reported once.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is cancelled and closes the underlying watcher on
// return. It must be called at most once.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := w.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.logger.Info("LogWatcher", "Watching event log directory", map[string]interface{}{"dir": w.dir})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("LogWatcher", "Watcher error", map[string]interface{}{"error": err.Error()})

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	day, ok := eventlog.ParsePartitionFileName(event.Name)
	if !ok {
		return
	}
	w.pending[day] = time.Now()
}

// flush reports every day that has been quiet for the debounce period.
func (w *Watcher) flush(now time.Time) {
	for day, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, day)
		w.onChange(day)
	}
}
