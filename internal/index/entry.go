package index

import (
	"strings"
	"sync"
	"time"
)

// AliasLoader reads the aliases a recipe file declares in its metadata.
type AliasLoader func(path string) ([]string, error)

// Entry describes one recipe file. Entries are shared by every reader of a
// snapshot and never change after the build, except that aliases are read
// on first access.
type Entry struct {
	Path    string
	RelPath string // slash separated, relative to the root
	Name    string // filename stem as displayed to users
	Key     string // normalized stem
	Depth   int
	ModTime time.Time

	pathKey   string
	load      AliasLoader
	aliasOnce sync.Once
	aliases   []string
	aliasErr  error
}

// Aliases returns the aliases declared by the recipe. The file header is
// read once, on the first call.
func (e *Entry) Aliases() []string {
	aliases, _ := e.loadAliases()
	return aliases
}

func (e *Entry) loadAliases() ([]string, error) {
	e.aliasOnce.Do(func() {
		if e.load == nil {
			return
		}
		e.aliases, e.aliasErr = e.load(e.Path)
	})
	return e.aliases, e.aliasErr
}

// PathKey returns the normalized relative path without extension, with
// segments joined by "/".
func (e *Entry) PathKey() string { return e.pathKey }

// AliasKeys returns the normalized, de-duplicated alias keys, excluding any
// equal to the entry's own key.
func (e *Entry) AliasKeys() []string {
	var keys []string
	seen := map[string]bool{e.Key: true}
	for _, a := range e.Aliases() {
		k := Normalize(a)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// less is the tie-break order between entries matched the same way:
// shallower first, then by relative path.
func less(a, b *Entry) bool {
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.RelPath < b.RelPath
}

// MatchKind says how an entry matched a lookup.
type MatchKind int

const (
	MatchStem MatchKind = iota
	MatchAlias
	MatchPath
)

func (k MatchKind) String() string {
	switch k {
	case MatchStem:
		return "stem"
	case MatchAlias:
		return "alias"
	case MatchPath:
		return "path"
	default:
		return "unknown"
	}
}

// Match is one lookup result.
type Match struct {
	Entry *Entry
	Kind  MatchKind
	Alias string // the alias that matched, for MatchAlias
}

func entryName(relPath, ext string) string {
	base := relPath
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return stripExtension(base, ext)
}
