// Package index maps recipe names, aliases and path fragments to the
// recipe files of a directory tree.
//
// An Index owns a sequence of immutable snapshots. Readers always see one
// complete snapshot; a refresh builds a new one from scratch and swaps it in.
package index

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/fsutil"
	"github.com/vk/cookcli/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Index is safe for concurrent use.
type Index struct {
	root        string
	opts        *options
	current     atomic.Pointer[Snapshot]
	invalidated atomic.Bool
	group       singleflight.Group
	generation  atomic.Uint64
}

// New returns an Index over root. Nothing is read until the first query.
func New(root string, opts ...Option) *Index {
	return &Index{root: root, opts: newOptions(opts)}
}

// Open returns an Index whose first snapshot is already built.
func Open(ctx context.Context, root string, opts ...Option) (*Index, error) {
	idx := New(root, opts...)
	if err := idx.Refresh(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Build walks root once and returns the resulting snapshot.
func Build(ctx context.Context, root string, opts ...Option) (*Snapshot, error) {
	return build(ctx, root, newOptions(opts))
}

func build(ctx context.Context, root string, o *options) (*Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	isDir, err := fsutil.IsDir(root)
	if err != nil {
		return nil, &RootInvalidError{Root: root, Err: err}
	}
	if !isDir {
		return nil, &RootInvalidError{Root: root}
	}

	tree, err := fsutil.WalkTree(root, o.extension)
	if err != nil {
		return nil, &RootInvalidError{Root: root, Err: err}
	}
	for _, w := range tree.Warnings {
		logger.Warn("Skipping unreadable subtree.", "path", w.Path, "error", w.Err)
	}

	snap := newSnapshot(root, tree, start, o)
	metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	logger.Debug("Recipe index built.", "root", root, "entries", snap.Len(), "warnings", len(snap.Warnings), "duration", time.Since(start))
	return snap, nil
}

// Root returns the directory the index covers.
func (i *Index) Root() string { return i.root }

// Extension returns the recipe file extension.
func (i *Index) Extension() string { return i.opts.extension }

// Snapshot returns the current snapshot, building it first when there is
// none yet or the index was invalidated.
func (i *Index) Snapshot(ctx context.Context) (*Snapshot, error) {
	return i.fresh(ctx)
}

// Refresh rebuilds the snapshot. Concurrent calls share one build. On
// failure the previous snapshot stays in place.
func (i *Index) Refresh(ctx context.Context) error {
	// Invalidations that arrive during a build must survive it.
	gen := i.generation.Load()
	_, err, _ := i.group.Do("refresh", func() (any, error) {
		snap, err := build(ctx, i.root, i.opts)
		if err != nil {
			metrics.IndexRefreshes.WithLabelValues("error").Inc()
			return nil, err
		}
		i.current.Store(snap)
		i.invalidated.CompareAndSwap(true, i.generation.Load() != gen)
		metrics.IndexRefreshes.WithLabelValues("ok").Inc()
		metrics.IndexEntries.Set(float64(snap.Len()))
		metrics.IndexWarnings.Set(float64(len(snap.Warnings)))
		return snap, nil
	})
	return err
}

// RefreshIfStale rebuilds when the index was invalidated or the tree
// changed since the current snapshot. It reports whether a rebuild ran.
func (i *Index) RefreshIfStale(ctx context.Context) (bool, error) {
	snap := i.current.Load()
	if snap == nil {
		return true, i.Refresh(ctx)
	}
	stale := i.invalidated.Load()
	if !stale {
		var err error
		stale, err = snap.Stale()
		if err != nil {
			return false, err
		}
	}
	if !stale {
		return false, nil
	}
	ctxlog.FromContext(ctx).Debug("Recipe index is stale, rebuilding.", "root", i.root)
	return true, i.Refresh(ctx)
}

// Invalidate marks the current snapshot stale. The next RefreshIfStale
// rebuilds it.
func (i *Index) Invalidate() {
	i.generation.Add(1)
	i.invalidated.Store(true)
}

// Lookup resolves a bare name or alias against the current snapshot.
func (i *Index) Lookup(ctx context.Context, name string) ([]Match, error) {
	snap, err := i.fresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Lookup(ctx, name), nil
}

// LookupPath resolves a relative path fragment against the current
// snapshot.
func (i *Index) LookupPath(ctx context.Context, fragment string) ([]Match, error) {
	snap, err := i.fresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.LookupPath(fragment), nil
}

// fresh returns the current snapshot, rebuilding it first when there is
// none or it was invalidated. Full mtime checks are left to RefreshIfStale.
// When a rebuild fails but an older snapshot exists, the older one is
// served.
func (i *Index) fresh(ctx context.Context) (*Snapshot, error) {
	s := i.current.Load()
	if s != nil && !i.invalidated.Load() {
		return s, nil
	}
	if err := i.Refresh(ctx); err != nil {
		if s != nil {
			ctxlog.FromContext(ctx).Warn("Index refresh failed, serving previous snapshot.", "root", i.root, "error", err)
			return s, nil
		}
		return nil, err
	}
	return i.current.Load(), nil
}

// String describes the index for logs.
func (i *Index) String() string {
	n := "unbuilt"
	if s := i.current.Load(); s != nil {
		n = strconv.Itoa(s.Len()) + " entries"
	}
	return "index(" + i.root + ", " + n + ")"
}
