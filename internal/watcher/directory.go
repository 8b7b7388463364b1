package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	snaperrors "github.com/snapwatch/snapwatch/internal/errors"
	"github.com/snapwatch/snapwatch/internal/stability"
)

// DirectoryWatcher watches a single directory, non-recursively, for new
// screenshot files and emits a ReadyEvent for each file once its content
// has stabilized.
type DirectoryWatcher struct {
	fsWatcher *fsnotify.Watcher
	checker   *stability.Checker
	exts      extensionSet
	opts      Options

	ready  chan ReadyEvent
	errors chan error
	stopCh chan struct{}

	mu      sync.RWMutex
	dir     string
	stopped bool
	dropped atomic.Uint64
}

// New creates a directory watcher with the given options.
func New(opts Options) (*DirectoryWatcher, error) {
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, snaperrors.New(snaperrors.ErrCodeWatchInit,
			"create filesystem watcher", err)
	}

	return &DirectoryWatcher{
		fsWatcher: fsw,
		checker:   stability.NewChecker(opts.PollInterval, opts.StabilityTimeout),
		exts:      newExtensionSet(opts.Extensions),
		opts:      opts,
		ready:     make(chan ReadyEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start begins monitoring dir, creating it if absent. It blocks until Stop
// is called or ctx is cancelled, so callers typically run it in a goroutine.
// Returns a DirectoryUnavailable error when dir cannot be monitored.
func (w *DirectoryWatcher) Start(ctx context.Context, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return snaperrors.DirectoryUnavailable(dir, err)
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return snaperrors.DirectoryUnavailable(absDir, err)
	}

	if err := w.fsWatcher.Add(absDir); err != nil {
		return snaperrors.DirectoryUnavailable(absDir, err)
	}

	w.mu.Lock()
	w.dir = absDir
	w.mu.Unlock()

	slog.Info("watching directory",
		slog.String("dir", absDir),
		slog.Int("extensions", len(w.exts)))

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(snaperrors.New(snaperrors.ErrCodeWatchInternal,
				"watch subsystem error", err))
		}
	}
}

// handleEvent filters a raw fsnotify event and, for accepted creations,
// runs the stability check synchronously. This serializes checks per
// watcher; a slow check delays the next event by at most the stability
// timeout, which the low event rate tolerates.
func (w *DirectoryWatcher) handleEvent(event fsnotify.Event) {
	// A rename into the directory surfaces as Create on every platform
	// fsnotify supports, so Create is the only operation of interest.
	if event.Op&fsnotify.Create == 0 {
		return
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return
	}

	if !w.exts.contains(filepath.Ext(event.Name)) {
		slog.Debug("ignoring non-image file",
			slog.String("path", event.Name))
		return
	}

	verdict := w.checker.Check(event.Name)
	if !verdict.Ready() {
		return
	}

	w.emitReady(ReadyEvent{
		Path:      event.Name,
		Timestamp: time.Now(),
		Assumed:   verdict == stability.VerdictTimedOut,
	})
}

// emitReady sends an event to the ready channel without blocking the
// event loop; a full buffer drops the event and counts it.
func (w *DirectoryWatcher) emitReady(event ReadyEvent) {
	// Holding the read lock across the send keeps Stop from closing the
	// channel mid-emit; the send itself never blocks.
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}

	select {
	case w.ready <- event:
		slog.Info("screenshot ready",
			slog.String("path", event.Path),
			slog.Bool("assumed", event.Assumed))
	default:
		count := w.dropped.Add(1)
		slog.Warn("ready buffer full, dropping event",
			slog.String("path", event.Path),
			slog.Uint64("total_dropped", count))
	}
}

// emitError sends an error to the error channel, dropping when full.
func (w *DirectoryWatcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}

	select {
	case w.errors <- err:
	default:
	}
}

// Stop releases OS watch resources and closes the output channels.
// Idempotent; safe to call multiple times. A stability check already in
// flight completes on its own and its result is discarded.
func (w *DirectoryWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.stopped = true
	close(w.stopCh)
	_ = w.fsWatcher.Close()
	close(w.ready)
	close(w.errors)
	return nil
}

// Ready returns the channel of ready-screenshot events.
// The channel is closed when the watcher stops.
func (w *DirectoryWatcher) Ready() <-chan ReadyEvent {
	return w.ready
}

// Errors returns the channel of watch-subsystem errors.
// The channel is closed when the watcher stops.
func (w *DirectoryWatcher) Errors() <-chan error {
	return w.errors
}

// Dropped returns the number of ready events dropped due to buffer overflow.
func (w *DirectoryWatcher) Dropped() uint64 {
	return w.dropped.Load()
}

// Dir returns the absolute path being watched, empty before Start.
func (w *DirectoryWatcher) Dir() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dir
}
