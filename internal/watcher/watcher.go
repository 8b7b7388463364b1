package watcher

import (
	"strings"
	"time"
)

// ReadyEvent is the watcher's sole output: a file path confirmed (or assumed)
// to be a complete, readable image. Delivered at most once per physical file.
type ReadyEvent struct {
	// Path is the absolute path to the stabilized file.
	Path string

	// Timestamp is when the verdict was reached.
	Timestamp time.Time

	// Assumed is true when the stability check timed out and the file is
	// assumed complete rather than confirmed.
	Assumed bool
}

// DefaultExtensions is the accepted extension set when none is configured.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"}

// Options configures the watcher behavior.
type Options struct {
	// Extensions is the accepted file extension allow-list, matched
	// case-insensitively against the file suffix. Fixed once Start is called.
	Extensions []string

	// PollInterval is the stability size-poll cadence.
	// Default: 80ms
	PollInterval time.Duration

	// StabilityTimeout is the soft deadline per stability check.
	// Default: 2500ms
	StabilityTimeout time.Duration

	// EventBufferSize is the size of the ready-event channel buffer.
	// Default: 64
	EventBufferSize int
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		Extensions:       DefaultExtensions,
		PollInterval:     80 * time.Millisecond,
		StabilityTimeout: 2500 * time.Millisecond,
		EventBufferSize:  64,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if len(o.Extensions) == 0 {
		o.Extensions = defaults.Extensions
	}
	if o.PollInterval == 0 {
		o.PollInterval = defaults.PollInterval
	}
	if o.StabilityTimeout == 0 {
		o.StabilityTimeout = defaults.StabilityTimeout
	}
	if o.EventBufferSize == 0 {
		o.EventBufferSize = defaults.EventBufferSize
	}
	return o
}

// extensionSet is a lowercase extension allow-list.
type extensionSet map[string]struct{}

// newExtensionSet builds the set from a slice, lowercasing each entry.
func newExtensionSet(exts []string) extensionSet {
	set := make(extensionSet, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

// contains reports whether ext (any case) is in the set.
// Files without an extension never match.
func (s extensionSet) contains(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := s[strings.ToLower(ext)]
	return ok
}
