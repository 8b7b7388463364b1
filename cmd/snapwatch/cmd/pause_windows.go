//go:build windows

package cmd

import (
	"context"

	"github.com/snapwatch/snapwatch/internal/dispatch"
)

// notifyPauseToggle is a no-op on Windows, which has no SIGUSR1.
// Pause stays available programmatically via the dispatcher.
func notifyPauseToggle(_ context.Context, _ *dispatch.Dispatcher) {}
