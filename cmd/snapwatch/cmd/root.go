// Package cmd provides the CLI commands for snapwatch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/snapwatch/snapwatch/internal/logging"
	"github.com/snapwatch/snapwatch/pkg/version"
)

// Global flag state shared across commands.
var (
	configPath     string
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the snapwatch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapwatch",
		Short: "Watch a screenshots folder and announce finished captures",
		Long: `snapwatch monitors a directory for newly created screenshot files,
waits for each file's content to stop growing, and emits the path once
per capture. Downstream tooling (a tray popup, a notifier, a script)
reads the stream and takes it from there.

Running 'snapwatch' with no subcommand starts watching immediately.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runWatch(cmd)
		},
	}

	cmd.SetVersionTemplate("snapwatch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.snapwatch/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.snapwatch/logs/")

	addWatchFlags(cmd)

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRunE = teardownLogging

	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging configures slog before any command runs.
// With --debug, logs also rotate into the log directory.
func setupLogging(_ *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Debug("debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()))
		return nil
	}

	slog.SetDefault(logging.SetupStderr("info"))
	return nil
}

// applyLogLevel re-levels the default stderr logger once the effective
// configuration is known. Debug mode already forced the debug level and
// owns the log file, so it is left alone.
func applyLogLevel(level string) {
	if debugMode {
		return
	}
	slog.SetDefault(logging.SetupStderr(level))
	slog.Debug("log level applied",
		slog.String("level", logging.LevelFromString(level).String()))
}

// teardownLogging flushes and closes the log file if one was opened.
func teardownLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
