// Package watcher re-runs the analysis when its inputs change on disk:
// the topology document the discovery stage refreshes, and the diff file
// the change comes from. Events are debounced so editors that write in
// several syscalls trigger one run.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the settle delay after the last file event.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the analysis inputs and invokes the run callback.
type Watcher struct {
	paths     map[string]bool // absolute file paths to react to
	fsWatcher *fsnotify.Watcher

	debounceDelay time.Duration
	debounceTimer *time.Timer
	mu            sync.Mutex

	onChange func()
	onError  func(error)

	done chan struct{}
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceDelay overrides the settle delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDelay = d }
}

// WithOnError sets the error callback.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// New creates a watcher over the given files. onChange fires once per
// debounced burst of writes to any of them.
func New(files []string, onChange func(), opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watcher: no files to watch")
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		paths:         make(map[string]bool, len(files)),
		fsWatcher:     fsWatcher,
		debounceDelay: DefaultDebounce,
		onChange:      onChange,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Watch the parent directories: many tools replace files via rename,
	// which drops a watch placed on the file itself.
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start runs the event loop until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.paths[abs] {
				continue
			}
			w.scheduleRun()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// Stop terminates the event loop and releases the OS watches.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsWatcher.Close()
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) scheduleRun() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case <-w.done:
		default:
			w.onChange()
		}
	})
}
