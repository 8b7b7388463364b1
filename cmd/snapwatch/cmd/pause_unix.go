//go:build !windows

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/snapwatch/snapwatch/internal/dispatch"
)

// notifyPauseToggle flips the dispatcher pause flag on SIGUSR1,
// the headless stand-in for a tray "Pause monitoring" action.
func notifyPauseToggle(ctx context.Context, d *dispatch.Dispatcher) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				if d.TogglePause() {
					slog.Info("monitoring paused")
				} else {
					slog.Info("monitoring resumed")
				}
			}
		}
	}()
}
