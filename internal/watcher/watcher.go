// Package watcher reformats exports as they land in watched directories.
//
// Events are filtered, debounced per path, held until the file stops
// changing, and then handed to a single handler one at a time.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"colorder/internal/artifact"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	DebounceSeconds   int      // Delay after the last event before handling (default: 2)
	StableThresholdMs int      // How long a file must stay unchanged (default: 1000)
	IgnorePatterns    []string // Glob patterns to ignore, matched on the base name
	Naming            artifact.Naming
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
		IgnorePatterns:    DefaultIgnorePatterns(),
		Naming:            artifact.DefaultNaming(),
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	FilesReformatted int
	FilesFailed      int
	FilesSkipped     int
	Duration         time.Duration
}

// Handler reformats one export. Handlers are never called concurrently.
type Handler func(path string) error

// ErrorHandler receives failures that do not stop the watch: fsnotify errors,
// files that never stabilized, and handler errors.
type ErrorHandler func(path string, err error)

// Watcher monitors directories for new or rewritten exports.
type Watcher struct {
	config    *WatchConfig
	handler   Handler
	onError   ErrorHandler
	filter    *FileFilter
	debouncer *Debouncer
	stability *StabilityChecker

	fsWatcher *fsnotify.Watcher
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	// runMu serializes handler calls and guards stopped.
	runMu   sync.Mutex
	stopped bool

	mu               sync.Mutex
	filesReformatted int
	filesFailed      int
	filesSkipped     int
}

// New creates a Watcher. If config is nil, default configuration is used.
// onError may be nil.
func New(config *WatchConfig, handler Handler, onError ErrorHandler) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	if config.Naming.ReformattedSuffix == "" || config.Naming.BackupSuffix == "" {
		config.Naming = artifact.DefaultNaming()
	}
	w := &Watcher{
		config:    config,
		handler:   handler,
		onError:   onError,
		filter:    NewFileFilter(config.IgnorePatterns, config.Naming),
		stability: NewStabilityChecker(time.Duration(config.StableThresholdMs) * time.Millisecond),
		done:      make(chan struct{}),
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.debouncer = NewDebouncer(time.Duration(config.DebounceSeconds)*time.Second, w.process)
	return w
}

// Start begins watching dirs. It returns once the watches are registered;
// events are handled in the background until Stop.
func (w *Watcher) Start(dirs []string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			fsWatcher.Close()
			return err
		}
		if err := fsWatcher.Add(absDir); err != nil {
			fsWatcher.Close()
			return err
		}
	}

	w.fsWatcher = fsWatcher
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts the watcher down and returns a summary of the session.
// A handler already running is allowed to finish; pending paths are dropped.
func (w *Watcher) Stop() *WatchSummary {
	close(w.done)
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	dropped := w.debouncer.CancelAll()

	w.runMu.Lock()
	w.stopped = true
	w.runMu.Unlock()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.filesSkipped += dropped

	return &WatchSummary{
		FilesReformatted: w.filesReformatted,
		FilesFailed:      w.filesFailed,
		FilesSkipped:     w.filesSkipped,
		Duration:         time.Since(w.startTime),
	}
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.handleFileEvent(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.reportError("", err)
		}
	}
}

// handleFileEvent filters a changed path and schedules it.
func (w *Watcher) handleFileEvent(path string) {
	if !w.filter.Accept(path) {
		return
	}
	w.debouncer.Add(path)
}

// process runs on a debounce timer once path has been quiet.
func (w *Watcher) process(path string) {
	if err := w.stability.WaitForStable(w.ctx, path); err != nil {
		if w.ctx.Err() == nil {
			w.count(&w.filesSkipped)
			if !errors.Is(err, ErrFileNotFound) {
				w.reportError(path, err)
			}
		}
		return
	}

	w.runMu.Lock()
	defer w.runMu.Unlock()
	if w.stopped {
		return
	}

	if w.handler == nil {
		w.count(&w.filesSkipped)
		return
	}
	if err := w.handler(path); err != nil {
		w.count(&w.filesFailed)
		w.reportError(path, err)
		return
	}
	w.count(&w.filesReformatted)
}

func (w *Watcher) count(counter *int) {
	w.mu.Lock()
	*counter++
	w.mu.Unlock()
}

func (w *Watcher) reportError(path string, err error) {
	if w.onError != nil {
		w.onError(path, err)
	}
}

// Config returns the current watcher configuration.
func (w *Watcher) Config() *WatchConfig {
	return w.config
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	select {
	case <-w.done:
		return false
	default:
		return w.fsWatcher != nil
	}
}
