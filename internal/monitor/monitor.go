// Package monitor wires the snapwatch pipeline together: configuration in,
// ready-screenshot events out. It owns the directory watcher, the dispatcher,
// and the single-instance guard, and runs them under one cancellation domain.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/snapwatch/snapwatch/internal/config"
	"github.com/snapwatch/snapwatch/internal/dispatch"
	snaperrors "github.com/snapwatch/snapwatch/internal/errors"
	"github.com/snapwatch/snapwatch/internal/watcher"
)

// watchSource is the watcher surface the monitor drives.
// *watcher.DirectoryWatcher is the production implementation.
type watchSource interface {
	Start(ctx context.Context, dir string) error
	Stop() error
	Ready() <-chan watcher.ReadyEvent
	Errors() <-chan error
	Dropped() uint64
}

// Monitor runs one watch pipeline: watcher -> dispatcher -> subscribers.
type Monitor struct {
	cfg        *config.Config
	watcher    watchSource
	dispatcher *dispatch.Dispatcher
	lock       *flock.Flock
}

// New builds a monitor from the given configuration.
func New(cfg *config.Config) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w, err := watcher.New(watcher.Options{
		Extensions:       cfg.Extensions,
		PollInterval:     cfg.PollInterval.Duration(),
		StabilityTimeout: cfg.StabilityTimeout.Duration(),
		EventBufferSize:  cfg.EventBufferSize,
	})
	if err != nil {
		return nil, err
	}

	d, err := dispatch.New(dispatch.DefaultRecentSize)
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	return &Monitor{
		cfg:        cfg,
		watcher:    w,
		dispatcher: d,
	}, nil
}

// Dispatcher returns the event dispatcher; consumers subscribe here and own
// the pause flag through it.
func (m *Monitor) Dispatcher() *dispatch.Dispatcher {
	return m.dispatcher
}

// Run starts the pipeline and blocks until ctx is cancelled or the watch
// fails fatally. OS watch-subsystem errors terminate the run; restart policy
// belongs to the caller.
func (m *Monitor) Run(ctx context.Context) error {
	if m.cfg.SingleInstance {
		if err := m.acquireLock(); err != nil {
			return err
		}
		defer m.releaseLock()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.watcher.Start(ctx, m.cfg.WatchDir)
	})

	g.Go(func() error {
		return m.forward(ctx)
	})

	err := g.Wait()
	m.dispatcher.Close()
	wDropped, dDropped := m.watcher.Dropped(), m.dispatcher.Dropped()
	if wDropped+dDropped > 0 {
		slog.Warn("ready events were dropped during the run",
			slog.Uint64("watcher_dropped", wDropped),
			slog.Uint64("dispatch_dropped", dDropped))
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// forward pumps watcher output into the dispatcher until the watcher stops.
// A watch-subsystem error is fatal to the run.
func (m *Monitor) forward(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = m.watcher.Stop()
			return ctx.Err()
		case ev, ok := <-m.watcher.Ready():
			if !ok {
				return nil
			}
			m.dispatcher.Publish(ev)
		case err, ok := <-m.watcher.Errors():
			if !ok {
				return nil
			}
			_ = m.watcher.Stop()
			return err
		}
	}
}

// Stop shuts the pipeline down. Idempotent. A stability check in flight
// completes on its own; its result is discarded.
func (m *Monitor) Stop() {
	_ = m.watcher.Stop()
}

// acquireLock takes the single-instance file lock without blocking;
// a held lock means another monitor is already running.
func (m *Monitor) acquireLock() error {
	path := LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return snaperrors.New(snaperrors.ErrCodeLockFailed, "create lock directory", err)
	}

	m.lock = flock.New(path)
	locked, err := m.lock.TryLock()
	if err != nil {
		return snaperrors.New(snaperrors.ErrCodeLockFailed, "acquire instance lock", err)
	}
	if !locked {
		return snaperrors.Newf(snaperrors.ErrCodeAlreadyRunning, nil,
			"another snapwatch instance holds %s", path).
			WithSuggestion("stop the other instance or run with single_instance: false")
	}
	return nil
}

// releaseLock drops the instance lock if held.
func (m *Monitor) releaseLock() {
	if m.lock != nil {
		_ = m.lock.Unlock()
	}
}

// LockPath returns the single-instance lock file location.
// SNAPWATCH_LOCK_FILE overrides the default (~/.snapwatch/monitor.lock).
func LockPath() string {
	if v := os.Getenv("SNAPWATCH_LOCK_FILE"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".snapwatch", "monitor.lock")
	}
	return filepath.Join(home, ".snapwatch", "monitor.lock")
}
