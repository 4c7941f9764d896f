// Package resolve turns user supplied recipe references into parsed
// recipe documents.
package resolve

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/index"
	"github.com/vk/cookcli/internal/metrics"
	"github.com/vk/cookcli/internal/recipe"
)

// Index is the part of *index.Index the resolver needs.
type Index interface {
	Lookup(ctx context.Context, name string) ([]index.Match, error)
	LookupPath(ctx context.Context, fragment string) ([]index.Match, error)
	Snapshot(ctx context.Context) (*index.Snapshot, error)
}

// Parser turns recipe text into a document.
type Parser interface {
	Parse(name string, src []byte) (*recipe.Document, error)
}

// Kind is the outcome of a resolution.
type Kind int

const (
	NotFound Kind = iota
	Unique
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// Candidate is a recipe that matched a reference. Exact matches score 1.
type Candidate struct {
	Entry     *index.Entry
	Score     float64
	MatchedBy string
}

// Resolution is the result of resolving one reference. Document and Entry
// are set only for Unique.
type Resolution struct {
	Kind       Kind
	Reference  string
	Document   *recipe.Document
	Entry      *index.Entry
	Candidates []Candidate
}

// Err converts a non-unique resolution into an error matching ErrNotFound
// or ErrAmbiguous. It returns nil for Unique.
func (r *Resolution) Err() error {
	switch r.Kind {
	case Unique:
		return nil
	case Ambiguous:
		return &AmbiguousError{Reference: r.Reference, Candidates: r.Candidates}
	default:
		return &NotFoundError{Reference: r.Reference}
	}
}

// Options control one resolution.
type Options struct {
	Fuzzy bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold sets the minimum fuzzy similarity.
func WithThreshold(v float64) Option {
	return func(r *Resolver) { r.threshold = v }
}

// WithTieMargin sets the lead a fuzzy winner needs over the runner-up.
func WithTieMargin(v float64) Option {
	return func(r *Resolver) { r.margin = v }
}

// Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	index     Index
	parser    Parser
	threshold float64
	margin    float64
}

// New creates a Resolver.
func New(idx Index, parser Parser, opts ...Option) *Resolver {
	r := &Resolver{
		index:     idx,
		parser:    parser,
		threshold: DefaultThreshold,
		margin:    DefaultTieMargin,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a reference to a recipe. References containing a path
// separator are matched against relative paths, others against names and
// aliases. When nothing matches exactly and opts.Fuzzy is set, a similarity
// search picks a winner only when it clearly leads.
//
// A Unique result always carries a freshly parsed document.
func (r *Resolver) Resolve(ctx context.Context, reference string, opts Options) (*Resolution, error) {
	logger := ctxlog.FromContext(ctx).With("reference", reference)

	res, err := r.match(ctx, reference, opts)
	if err != nil {
		metrics.Resolutions.WithLabelValues("error").Inc()
		return nil, err
	}

	if res.Kind == Unique {
		doc, err := r.load(res.Entry)
		if err != nil {
			metrics.Resolutions.WithLabelValues("error").Inc()
			return nil, err
		}
		res.Document = doc
	}

	metrics.Resolutions.WithLabelValues(res.Kind.String()).Inc()
	logger.Debug("Reference resolved.", "kind", res.Kind, "candidates", len(res.Candidates))
	return res, nil
}

func (r *Resolver) match(ctx context.Context, reference string, opts Options) (*Resolution, error) {
	res := &Resolution{Kind: NotFound, Reference: reference}

	var (
		matches []index.Match
		err     error
	)
	if index.HasSeparator(reference) {
		matches, err = r.index.LookupPath(ctx, reference)
	} else {
		matches, err = r.index.Lookup(ctx, reference)
	}
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
	case 1:
		res.Kind = Unique
		res.Entry = matches[0].Entry
		res.Candidates = []Candidate{exact(matches[0])}
		return res, nil
	default:
		res.Kind = Ambiguous
		for _, m := range matches {
			res.Candidates = append(res.Candidates, exact(m))
		}
		return res, nil
	}

	if !opts.Fuzzy {
		return res, nil
	}

	snap, err := r.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	snap.LoadAliases(ctx)

	winner, tied := pick(rank(snap.Entries(), snap.Key(reference)), r.threshold, r.margin)
	switch {
	case winner != nil:
		res.Kind = Unique
		res.Entry = winner.Entry
		res.Candidates = []Candidate{*winner}
	case len(tied) > 0:
		res.Kind = Ambiguous
		res.Candidates = tied
	}
	return res, nil
}

// Search returns up to limit fuzzy candidates for the query, best first.
// A limit of zero or less returns every candidate above the threshold.
func (r *Resolver) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	snap, err := r.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	snap.LoadAliases(ctx)

	var out []Candidate
	for _, c := range rank(snap.Entries(), snap.Key(query)) {
		if c.Score <= r.threshold {
			break
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Load reads and parses the recipe behind an index entry.
func (r *Resolver) Load(entry *index.Entry) (*recipe.Document, error) {
	return r.load(entry)
}

func (r *Resolver) load(entry *index.Entry) (*recipe.Document, error) {
	src, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", entry.Path, err)
	}
	doc, err := r.parser.Parse(entry.Name, src)
	if err != nil {
		return nil, &ParseFailedError{Path: entry.Path, Err: err}
	}
	return doc, nil
}

func exact(m index.Match) Candidate {
	by := m.Kind.String()
	if m.Kind == index.MatchAlias {
		by = "alias:" + m.Alias
	}
	return Candidate{Entry: m.Entry, Score: 1, MatchedBy: by}
}
