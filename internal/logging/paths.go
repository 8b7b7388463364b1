package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.snapwatch/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".snapwatch", "logs")
	}
	return filepath.Join(home, ".snapwatch", "logs")
}

// DefaultLogPath returns the default monitor log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "monitor.log")
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	dir := DefaultLogDir()
	return os.MkdirAll(dir, 0o755)
}
