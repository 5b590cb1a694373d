// Package watch re-runs work when input files change on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls a function whenever one of a set of files is written.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool // cleaned absolute paths
	debounce time.Duration
	onChange func(path string)
	logger   *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running bool
	done    chan struct{}
	stopped chan struct{}
}

// New returns a Watcher for paths. onChange runs on its own goroutine,
// at most once per debounce interval for each file.
func New(paths []string, debounce time.Duration, onChange func(path string), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		files[abs] = true
	}

	return &Watcher{
		watcher:  fsw,
		files:    files,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start begins watching. The directories holding the files are watched,
// which also catches editors that save by renaming a new file into place.
// Watching ends when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}

	go w.loop(ctx)
	w.logger.Debug("watching files", "count", len(w.files), "dirs", len(dirs))
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule(filepath.Clean(event.Name))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		running := w.running
		w.mu.Unlock()

		if running {
			w.logger.Debug("file changed", "file", path)
			w.onChange(path)
		}
	})
}

// Stop ends watching and cancels pending callbacks.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.stopped
	return err
}
