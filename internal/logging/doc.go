// Package logging provides opt-in file-based logging with rotation for snapwatch.
// When the --debug flag is set, comprehensive logs are written to ~/.snapwatch/logs/
// for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr only.
// Stderr output uses a human-readable text handler when attached to a terminal
// and JSON otherwise, so piped output stays machine-parseable.
package logging
