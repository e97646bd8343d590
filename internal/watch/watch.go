// Package watch turns filesystem-change notifications on the library
// root and the external configuration file into a single debounced
// reload trigger. A burst of changes collapses into one callback
// after a fixed quiet period; an event arriving while the timer runs
// restarts it, so a reload never races an in-flight burst.
package watch

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clipgrid/clipgrid/internal/logging"
)

// QuietPeriod is how long the watched paths must stay quiet before
// the callback fires.
const QuietPeriod = 500 * time.Millisecond

// Debouncer owns the watcher and the debounce timer. It is created
// once per process and re-armed with the effective paths after every
// reload.
type Debouncer struct {
	onQuiet func()
	quiet   time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	closed  bool
}

// New returns a debouncer that invokes onQuiet (from a background
// goroutine) once the watched paths have been quiet for the given
// period. A zero period uses QuietPeriod.
func New(onQuiet func(), quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = QuietPeriod
	}
	return &Debouncer{onQuiet: onQuiet, quiet: quiet}
}

// Rearm replaces the watched path set. Called after every reload,
// once the root and configuration locations are known. Unwatchable
// paths are logged and skipped.
func (d *Debouncer) Rearm(paths ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}

	if d.watcher != nil {
		_ = d.watcher.Close()
		d.watcher = nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			logging.Warn("watch: cannot watch %s: %v", p, err)
		}
	}
	d.watcher = w
	go d.run(w)
	return nil
}

func (d *Debouncer) run(w *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			logging.Debug("watch: %s", event)
			d.bump()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logging.Warn("watch: %v", err)
		}
	}
}

// bump restarts the quiet timer.
func (d *Debouncer) bump() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.onQuiet)
}

// Close stops the watcher and any pending timer.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.watcher != nil {
		_ = d.watcher.Close()
		d.watcher = nil
	}
}
