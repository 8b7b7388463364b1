// Package watcher bridges raw filesystem notifications into ready-screenshot
// events.
//
// A DirectoryWatcher monitors exactly one directory, non-recursively, for
// newly created files. Each creation event passes an extension allow-list,
// then a blocking stability check, and only files that stabilize (or are
// assumed stable after the timeout) are emitted as ReadyEvents. Stability
// checks run synchronously on the watcher's own event goroutine, so
// successive creations are processed one at a time in delivery order;
// screenshot creation is infrequent enough that this never becomes a
// bottleneck.
//
// Usage:
//
//	w, err := watcher.New(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go w.Start(ctx, "/shots")
//
//	for ev := range w.Ready() {
//	    show(ev.Path)
//	}
package watcher
