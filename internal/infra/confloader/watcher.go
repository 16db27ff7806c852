package confloader

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/kiwi/internal/telemetry/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle
// before notifying. Editors often save in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a set of files. Events within the debounce
// window are coalesced, so a save produces one notification per file.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      logger.Logger

	mu        sync.Mutex
	files     map[string]struct{}
	callbacks []func(string)

	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithWatcherDebounce overrides DefaultDebounce. Zero notifies on every
// event.
func WithWatcherDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher with nothing watched yet.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fs,
		debounce: DefaultDebounce,
		log:      logger.Default(),
		files:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file. Its directory is what fsnotify watches, so a file
// replaced by rename is still seen.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()

	w.log.Debug("watching config file", "path", abs)
	return nil
}

// OnChange registers fn to run with the path of each changed file.
// Callbacks run on the watcher goroutine, one at a time.
func (w *Watcher) OnChange(fn func(string)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

// Start runs the event loop until Stop.
func (w *Watcher) Start() {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		clear(pending)
		sort.Strings(paths)
		for _, p := range paths {
			w.notify(p)
		}
	}

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			path, ok := w.match(ev)
			if !ok {
				continue
			}
			w.log.Debug("config file event", "path", path, "op", ev.Op.String())
			pending[path] = struct{}{}

			if w.debounce <= 0 {
				flush()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			flush()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop ends the event loop. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// match reports whether ev writes or creates a watched file.
func (w *Watcher) match(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	w.mu.Lock()
	_, ok := w.files[abs]
	w.mu.Unlock()
	return abs, ok
}

func (w *Watcher) notify(path string) {
	w.mu.Lock()
	cbs := append(([]func(string))(nil), w.callbacks...)
	w.mu.Unlock()

	for _, cb := range cbs {
		cb(path)
	}
}
