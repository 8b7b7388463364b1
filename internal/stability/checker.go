package stability

import (
	"log/slog"
	"os"
	"time"
)

// Verdict is the outcome of a stability check.
// Produced exactly once per candidate file.
type Verdict int

const (
	// VerdictStable indicates two consecutive size polls returned the same
	// non-zero byte count.
	VerdictStable Verdict = iota
	// VerdictVanished indicates the file disappeared before it stabilized.
	VerdictVanished
	// VerdictTimedOut indicates the deadline elapsed; the file is assumed
	// stable as a best effort.
	VerdictTimedOut
)

// String returns a human-readable representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictStable:
		return "STABLE"
	case VerdictVanished:
		return "VANISHED"
	case VerdictTimedOut:
		return "TIMED_OUT_ASSUMED_STABLE"
	default:
		return "UNKNOWN"
	}
}

// Ready reports whether the verdict allows the file to be handed to consumers.
func (v Verdict) Ready() bool {
	return v == VerdictStable || v == VerdictTimedOut
}

const (
	// DefaultPollInterval is the default size-poll cadence.
	DefaultPollInterval = 80 * time.Millisecond
	// DefaultTimeout is the default soft deadline per check.
	DefaultTimeout = 2500 * time.Millisecond

	// sizeSentinel compares unequal to every real size, including 0,
	// so the first reading can never match.
	sizeSentinel = int64(-1)
)

// Checker polls a file's size until it stabilizes.
// It holds no shared state; a zero-cost value safe for concurrent use.
type Checker struct {
	interval time.Duration
	timeout  time.Duration
}

// NewChecker creates a checker with the given poll interval and timeout.
// Zero values fall back to the defaults.
func NewChecker(interval, timeout time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{interval: interval, timeout: timeout}
}

// Check blocks until path stabilizes, vanishes, or the deadline elapses.
// Sizes are compared as exact byte counts; a zero-byte file never satisfies
// the stable condition. The call is deliberately not cancellable: a check
// in flight runs to its verdict even if the watcher is stopping.
func (c *Checker) Check(path string) Verdict {
	deadline := time.Now().Add(c.timeout)
	lastSize := sizeSentinel

	for {
		if !time.Now().Before(deadline) {
			slog.Warn("stability check timed out, assuming stable",
				slog.String("path", path),
				slog.Duration("timeout", c.timeout))
			return VerdictTimedOut
		}

		info, err := os.Stat(path)
		if err != nil {
			// The producer renamed or deleted its temp file; a normal
			// race, not an error to surface.
			slog.Debug("candidate vanished before stabilizing",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return VerdictVanished
		}

		size := info.Size()
		if size > 0 && size == lastSize {
			return VerdictStable
		}
		lastSize = size

		time.Sleep(c.interval)
	}
}
