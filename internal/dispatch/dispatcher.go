// Package dispatch fans ready-screenshot events out to consumers.
//
// The watcher delivers events from its own goroutine; consumers (a tray UI,
// a stdout printer, a webhook) run on their own. The Dispatcher is the
// cross-context handoff between the two: buffered per-subscriber channels
// with at-most-once delivery per event per subscriber, a pause flag owned by
// the consuming side, and a small in-memory list of recently seen files.
package dispatch

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/snapwatch/snapwatch/internal/watcher"
)

// DefaultRecentSize is the default capacity of the recent-files list.
const DefaultRecentSize = 16

// Dispatcher delivers ReadyEvents to registered subscribers.
// Safe for concurrent use; publishing never blocks.
type Dispatcher struct {
	mu     sync.RWMutex
	subs   map[int]chan watcher.ReadyEvent
	nextID int
	paused bool
	closed bool

	recent  *lru.Cache[string, time.Time]
	dropped atomic.Uint64
}

// New creates a dispatcher keeping up to recentSize recent entries.
// recentSize <= 0 falls back to DefaultRecentSize.
func New(recentSize int) (*Dispatcher, error) {
	if recentSize <= 0 {
		recentSize = DefaultRecentSize
	}
	cache, err := lru.New[string, time.Time](recentSize)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		subs:   make(map[int]chan watcher.ReadyEvent),
		recent: cache,
	}, nil
}

// Subscribe registers a consumer and returns its event channel plus an
// unsubscribe function. The channel is buffered; a consumer that falls
// behind loses events rather than stalling delivery to others.
func (d *Dispatcher) Subscribe(buffer int) (<-chan watcher.ReadyEvent, func()) {
	if buffer <= 0 {
		buffer = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	ch := make(chan watcher.ReadyEvent, buffer)
	d.subs[id] = ch

	unsubscribe := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if sub, ok := d.subs[id]; ok {
			delete(d.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers an event to all subscribers. Paused dispatchers record
// the file as recent but deliver nothing, mirroring a tray app whose
// monitoring is paused: the screenshot still happened, the popup doesn't.
func (d *Dispatcher) Publish(event watcher.ReadyEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	d.recent.Add(event.Path, event.Timestamp)

	if d.paused {
		slog.Debug("monitoring paused, suppressing event",
			slog.String("path", event.Path))
		return
	}

	for _, ch := range d.subs {
		select {
		case ch <- event:
		default:
			count := d.dropped.Add(1)
			slog.Warn("subscriber buffer full, dropping event",
				slog.String("path", event.Path),
				slog.Uint64("total_dropped", count))
		}
	}
}

// Pause suppresses event delivery until Resume is called.
func (d *Dispatcher) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
}

// Resume re-enables event delivery.
func (d *Dispatcher) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
}

// TogglePause flips the pause flag and returns the new state.
func (d *Dispatcher) TogglePause() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = !d.paused
	return d.paused
}

// Paused reports whether delivery is currently suppressed.
func (d *Dispatcher) Paused() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.paused
}

// Recent returns the most recently seen file paths, newest last.
// In-memory only; the list does not survive a restart.
func (d *Dispatcher) Recent() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.recent.Keys()
}

// Dropped returns the number of events dropped across all subscribers.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close closes all subscriber channels. Idempotent.
// Publish after Close is a no-op.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true

	for id, ch := range d.subs {
		delete(d.subs, id)
		close(ch)
	}
}
