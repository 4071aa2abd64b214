// Package watch re-runs a callback when pipeline description files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/vk/filtergrid/internal/ctxlog"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a set of files. Directories holding the files are watched
// rather than the files themselves, so editors that replace a file on save
// are still seen.
type Watcher struct {
	paths    map[string]struct{}
	dirs     []string
	extDirs  map[string][]string
	window   time.Duration
	onChange func(ctx context.Context) error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.window = d
		}
	}
}

// WithDirectory also reacts to any file with one of exts inside dir.
func WithDirectory(dir string, exts ...string) Option {
	return func(w *Watcher) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		w.extDirs[abs] = exts
		w.dirs = append(w.dirs, abs)
	}
}

// New creates a watcher for files that calls onChange after they change.
func New(files []string, onChange func(ctx context.Context) error, opts ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: nil callback")
	}
	w := &Watcher{
		paths:    make(map[string]struct{}, len(files)),
		extDirs:  make(map[string][]string),
		window:   DefaultDebounce,
		onChange: onChange,
	}
	seen := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolving %q: %w", f, err)
		}
		w.paths[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	if len(w.dirs) == 0 {
		return nil, errors.New("watch: nothing to watch")
	}
	return w, nil
}

// Relevant reports whether a change to path should trigger the callback.
func (w *Watcher) Relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if _, ok := w.paths[abs]; ok {
		return true
	}
	exts, ok := w.extDirs[filepath.Dir(abs)]
	if !ok {
		return false
	}
	ext := filepath.Ext(abs)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, invoking the callback once per burst of
// relevant changes. Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("component", "watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch: adding %q: %w", dir, err)
		}
		logger.Debug("Watching directory.", "dir", dir)
	}

	// The debouncer fires on its own goroutine; runs must not overlap.
	var running sync.Mutex
	debounced := debounce.New(w.window)
	trigger := func() {
		running.Lock()
		defer running.Unlock()
		if ctx.Err() != nil {
			return
		}
		logger.Info("Pipeline description changed, re-running.")
		if err := w.onChange(ctx); err != nil {
			logger.Error("Re-run failed.", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.Relevant(ev.Name) {
				continue
			}
			logger.Debug("Change observed.", "path", ev.Name, "op", ev.Op.String())
			debounced(trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)
		}
	}
}
