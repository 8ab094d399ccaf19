// Package watcher reports changes to the games database file after the
// server has loaded it. The loaded Dataset never changes; the watcher only
// tells operators that a restart is needed to see new data.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures the watcher.
type Options struct {
	// SettleDelay is how long the file must stay quiet before an event fires.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = 500 * time.Millisecond
	}
}

// SQLite writes through side files; a change to any of them may change the data.
var companionSuffixes = []string{"-wal", "-journal", "-shm"}

// Watcher watches a single file via its parent directory, so replacing the
// file by rename is seen as well as in-place writes.
type Watcher struct {
	logger *slog.Logger
	opts   Options
	fs     *fsnotify.Watcher

	mu       sync.Mutex
	target   string
	related  map[string]bool
	baseline os.FileInfo
	timer    *time.Timer
	stopped  bool

	// walDirty is set by writes to the -wal file. In WAL mode a commit lands
	// there first and the main file is untouched until a checkpoint.
	walPath  string
	walDirty bool

	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. Call Watch before Start.
func New(logger *slog.Logger, opts Options) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger: logger,
		opts:   opts,
		fs:     fsw,
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}, nil
}

// Watch sets the file to monitor. Its current size and mtime are the baseline
// later changes are compared against.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", abs)
	}

	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	related := map[string]bool{abs: true}
	for _, suffix := range companionSuffixes {
		related[abs+suffix] = true
	}

	w.mu.Lock()
	w.target = abs
	w.related = related
	w.walPath = abs + "-wal"
	w.baseline = info
	w.mu.Unlock()

	w.logger.Debug("watching games database", "path", abs)
	return nil
}

// Start processes file system events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped || !w.related[filepath.Clean(event.Name)] {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Clean(event.Name) == w.walPath && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.walDirty = true
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, w.settle)
}

// settle compares the file against the baseline once writes have stopped.
func (w *Watcher) settle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}

	info, err := os.Stat(w.target)
	if err != nil {
		if w.baseline == nil {
			return
		}
		w.baseline = nil
		w.emit(Event{Type: EventRemoved, Path: w.target})
		return
	}

	walDirty := w.walDirty
	w.walDirty = false

	if !walDirty && w.baseline != nil && info.Size() == w.baseline.Size() && info.ModTime().Equal(w.baseline.ModTime()) {
		// Only -shm or -journal moved; readers touch those too.
		return
	}

	w.baseline = info
	w.emit(Event{Type: EventModified, Path: w.target, Size: info.Size(), ModTime: info.ModTime()})
}

// emit never blocks; callers hold w.mu.
func (w *Watcher) emit(event Event) {
	select {
	case w.events <- event:
	default:
		w.logger.Debug("dropping watcher event, consumer is behind", "type", event.Type, "path", event.Path)
	}
}

// Events returns settled change notifications. The channel is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop releases the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		w.stopped = true
		if w.timer != nil {
			w.timer.Stop()
		}
		close(w.events)
		w.mu.Unlock()

		err = w.fs.Close()
	})
	return err
}
