package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snapwatch/snapwatch/internal/config"
	"github.com/snapwatch/snapwatch/internal/monitor"
)

// Watch flag state, shared between the root command and `snapwatch watch`.
var (
	flagWatchDir         string
	flagPollInterval     time.Duration
	flagStabilityTimeout time.Duration
	flagExtensions       []string
)

// addWatchFlags registers the watch flags on a command.
func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagWatchDir, "watch-dir", "", "Directory to watch for new screenshots")
	cmd.Flags().DurationVar(&flagPollInterval, "poll-interval", 0, "Stability size-poll cadence (default 80ms)")
	cmd.Flags().DurationVar(&flagStabilityTimeout, "stability-timeout", 0, "Soft deadline per stability check (default 2.5s)")
	cmd.Flags().StringSliceVar(&flagExtensions, "extensions", nil, "Accepted file extensions (default .png,.jpg,.jpeg,.bmp,.gif,.webp)")
}

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the screenshots directory and print finished captures",
		Long: `Watch the configured directory and print the path of each screenshot
to stdout once its content has stabilized, one path per line.

Send SIGUSR1 to pause or resume delivery without stopping the watch.
Ctrl+C stops the watcher.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	addWatchFlags(cmd)
	return cmd
}

// loadEffectiveConfig resolves config file, env, and flag layers.
func loadEffectiveConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Flags are the highest-precedence layer
	if flagWatchDir != "" {
		cfg.WatchDir = flagWatchDir
	}
	if flagPollInterval > 0 {
		cfg.PollInterval = config.Duration(flagPollInterval)
	}
	if flagStabilityTimeout > 0 {
		cfg.StabilityTimeout = config.Duration(flagStabilityTimeout)
	}
	if len(flagExtensions) > 0 {
		cfg.Extensions = flagExtensions
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runWatch runs the monitor until interrupted, printing each ready path.
func runWatch(cmd *cobra.Command) error {
	cfg, err := loadEffectiveConfig()
	if err != nil {
		return err
	}
	applyLogLevel(cfg.LogLevel)

	m, err := monitor.New(cfg)
	if err != nil {
		return err
	}

	events, unsubscribe := m.Dispatcher().Subscribe(cfg.EventBufferSize)
	defer unsubscribe()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	notifyPauseToggle(ctx, m.Dispatcher())

	runDone := make(chan error, 1)
	go func() { runDone <- m.Run(ctx) }()

	slog.Info("snapwatch started",
		slog.String("watch_dir", cfg.WatchDir),
		slog.Duration("poll_interval", cfg.PollInterval.Duration()),
		slog.Duration("stability_timeout", cfg.StabilityTimeout.Duration()))

	out := cmd.OutOrStdout()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return <-runDone
			}
			if _, err := fmt.Fprintln(out, ev.Path); err != nil {
				cancel()
				return <-runDone
			}
		case err := <-runDone:
			return err
		}
	}
}
