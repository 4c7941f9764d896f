package index

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/fsutil"
	"golang.org/x/sync/errgroup"
)

// Snapshot is an immutable view of a recipe tree at one point in time.
type Snapshot struct {
	Root     string
	BuiltAt  time.Time
	Warnings []fsutil.Warning

	ext         string
	entries     []*Entry
	byKey       map[string][]*Entry
	dirs        []fsutil.Dir
	concurrency int

	aliasOnce  sync.Once
	aliasIndex map[string][]aliasHit
}

type aliasHit struct {
	entry *Entry
	alias string
}

// Entries returns every entry in tie-break order.
func (s *Snapshot) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Key normalizes a reference the way the snapshot's keys are normalized,
// stripping the recipe extension. Path separators are kept.
func (s *Snapshot) Key(ref string) string {
	return strings.Join(pathSegments(ref, s.ext), "/")
}

// Lookup returns the entries whose stem or alias normalizes to the same key
// as name. Stem matches come first, then alias matches, each group in
// tie-break order. An entry appears at most once.
func (s *Snapshot) Lookup(ctx context.Context, name string) []Match {
	key := Normalize(stripExtension(name, s.ext))
	if key == "" {
		return nil
	}

	var matches []Match
	seen := make(map[*Entry]bool)
	for _, e := range s.byKey[key] {
		matches = append(matches, Match{Entry: e, Kind: MatchStem})
		seen[e] = true
	}
	for _, hit := range s.aliases(ctx)[key] {
		if seen[hit.entry] {
			continue
		}
		seen[hit.entry] = true
		matches = append(matches, Match{Entry: hit.entry, Kind: MatchAlias, Alias: hit.alias})
	}
	return matches
}

// LookupPath returns the entries whose relative path ends with the given
// fragment, compared segment by segment after normalization.
func (s *Snapshot) LookupPath(fragment string) []Match {
	want := pathSegments(fragment, s.ext)
	if len(want) == 0 {
		return nil
	}

	var matches []Match
	for _, e := range s.entries {
		have := pathSegments(e.RelPath, s.ext)
		if len(have) < len(want) {
			continue
		}
		tail := have[len(have)-len(want):]
		ok := true
		for i := range want {
			if tail[i] != want[i] {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, Match{Entry: e, Kind: MatchPath})
		}
	}
	return matches
}

// LoadAliases reads every entry's aliases if that has not happened yet.
func (s *Snapshot) LoadAliases(ctx context.Context) {
	s.aliases(ctx)
}

// aliases builds the alias table on first use. Headers are read
// concurrently; unreadable headers are logged and contribute nothing.
func (s *Snapshot) aliases(ctx context.Context) map[string][]aliasHit {
	s.aliasOnce.Do(func() {
		logger := ctxlog.FromContext(ctx)
		start := time.Now()

		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for _, e := range s.entries {
			g.Go(func() error {
				if _, err := e.loadAliases(); err != nil {
					logger.Warn("Could not read recipe aliases.", "path", e.Path, "error", err)
				}
				return nil
			})
		}
		_ = g.Wait()

		table := make(map[string][]aliasHit)
		for _, e := range s.entries {
			for _, a := range e.Aliases() {
				k := Normalize(a)
				if k == "" {
					continue
				}
				dup := false
				for _, hit := range table[k] {
					if hit.entry == e {
						dup = true
						break
					}
				}
				if !dup {
					table[k] = append(table[k], aliasHit{entry: e, alias: a})
				}
			}
		}
		s.aliasIndex = table
		logger.Debug("Alias table built.", "entries", len(s.entries), "aliases", len(table), "duration", time.Since(start))
	})
	return s.aliasIndex
}

// Stale reports whether the tree changed since the snapshot was built: the
// root, a visited directory or an entry has a newer mtime, or an entry
// is gone.
func (s *Snapshot) Stale() (bool, error) {
	for _, d := range s.dirs {
		info, err := os.Stat(d.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return true, nil
			}
			if d.Path == s.Root {
				return false, &RootInvalidError{Root: s.Root, Err: err}
			}
			return true, nil
		}
		if info.ModTime().After(s.BuiltAt) {
			return true, nil
		}
	}
	for _, e := range s.entries {
		info, err := os.Stat(e.Path)
		if err != nil {
			return true, nil
		}
		if info.ModTime().After(s.BuiltAt) {
			return true, nil
		}
	}
	return false, nil
}

func newSnapshot(root string, tree *fsutil.Tree, builtAt time.Time, o *options) *Snapshot {
	s := &Snapshot{
		Root:        root,
		BuiltAt:     builtAt,
		Warnings:    tree.Warnings,
		ext:         o.extension,
		dirs:        tree.Dirs,
		byKey:       make(map[string][]*Entry),
		concurrency: o.concurrency,
	}
	for _, f := range tree.Files {
		name := entryName(f.RelPath, o.extension)
		e := &Entry{
			Path:    f.Path,
			RelPath: f.RelPath,
			Name:    name,
			Key:     Normalize(name),
			Depth:   f.Depth,
			ModTime: f.ModTime,
			pathKey: strings.Join(pathSegments(f.RelPath, o.extension), "/"),
			load:    o.aliasLoader,
		}
		s.entries = append(s.entries, e)
	}
	sort.SliceStable(s.entries, func(i, j int) bool { return less(s.entries[i], s.entries[j]) })
	for _, e := range s.entries {
		s.byKey[e.Key] = append(s.byKey[e.Key], e)
	}
	return s
}
