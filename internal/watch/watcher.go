// Package watch turns file system change notifications under a recipe
// root into index invalidations.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/fsutil"
)

// DefaultDelay is how long the watcher waits for a burst of changes to
// settle before invalidating.
const DefaultDelay = 100 * time.Millisecond

// Invalidator is told when the tree changed. *index.Index implements it.
type Invalidator interface {
	Invalidate()
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithOnChange registers a callback run after each invalidation with the
// changed paths, sorted.
func WithOnChange(fn func([]string)) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// Watcher monitors a recipe tree. fsnotify is not recursive, so every
// directory is watched individually and new directories are added as they
// appear.
type Watcher struct {
	root      string
	ext       string
	target    Invalidator
	delay     time.Duration
	onChange  func([]string)
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	logger    *slog.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a Watcher for recipe files with the given extension.
func New(root, ext string, target Invalidator, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		ext:      ext,
		target:   target,
		delay:    DefaultDelay,
		watcher:  fsw,
		logger:   slog.Default(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.delay)
	w.debouncer.SetCallback(w.flush)
	return w, nil
}

// Start watches every readable directory under the root and begins
// processing events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger = ctxlog.FromContext(ctx).With("component", "watch", "root", w.root)

	tree, err := fsutil.WalkTree(w.root, w.ext)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", w.root, err)
	}
	for _, d := range tree.Dirs {
		if err := w.watcher.Add(d.Path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", d.Path, err)
		}
	}
	w.logger.Debug("Watching recipe tree.", "directories", len(tree.Dirs))

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends the event loop and releases the underlying watcher. It is
// safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()
		w.debouncer.Stop()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error.", "error", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || w.ignored(event.Name) {
		return
	}

	isDir := false
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			isDir = true
			w.addTree(event.Name)
		}
	}

	// Removed or renamed paths can no longer be stat'ed, so they count
	// whether or not they were directories.
	relevant := isDir || strings.HasSuffix(event.Name, w.ext) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	if !relevant {
		return
	}
	w.logger.Debug("Recipe tree changed.", "path", event.Name, "op", event.Op.String())
	w.debouncer.Add(event.Name)
}

// addTree watches a directory created after Start, with its subdirectories.
func (w *Watcher) addTree(dir string) {
	tree, err := fsutil.WalkTree(dir, w.ext)
	if err != nil {
		w.logger.Warn("Could not watch new directory.", "path", dir, "error", err)
		return
	}
	for _, d := range tree.Dirs {
		if err := w.watcher.Add(d.Path); err != nil {
			w.logger.Warn("Could not watch new directory.", "path", d.Path, "error", err)
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func (w *Watcher) flush(paths []string) {
	sort.Strings(paths)
	w.target.Invalidate()
	w.logger.Info("Recipe index invalidated.", "changes", len(paths))
	if w.onChange != nil {
		w.onChange(paths)
	}
}

// Debouncer collects paths and hands them to the callback once no new
// path arrived for the configured duration.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	paths    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a new debouncer instance.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		paths:    make(map[string]struct{}),
	}
}

// Add records a path and restarts the delay.
func (d *Debouncer) Add(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}

	d.paths[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	if len(d.paths) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}
	paths := make([]string, 0, len(d.paths))
	for p := range d.paths {
		paths = append(paths, p)
	}
	d.paths = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback(paths)
	}
}

// SetCallback sets the callback function.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels a pending flush. Paths added afterwards are dropped.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
