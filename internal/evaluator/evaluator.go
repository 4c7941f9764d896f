// Package evaluator runs report definitions against resolved recipes.
//
// A run has two phases. The pre-pass resolves every recipe the definition
// declares and scales it to the requested servings. Evaluation then walks
// the expression tree over that closed set of documents without touching
// the file system, so the same definition and recipe files always produce
// the same result.
package evaluator

import (
	"context"
	"time"

	"github.com/vk/cookcli/internal/aisle"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/metrics"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/report"
	"github.com/vk/cookcli/internal/resolve"
)

// DefaultMaxDepth bounds expression nesting.
const DefaultMaxDepth = 64

// Resolver resolves recipe references.
type Resolver interface {
	Resolve(ctx context.Context, reference string, opts resolve.Options) (*resolve.Resolution, error)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithUnits sets the unit table used for conversions.
func WithUnits(t *quantity.Table) Option {
	return func(e *Evaluator) {
		if t != nil {
			e.units = t
		}
	}
}

// WithAisles sets the categories reported by ingredient.category.
func WithAisles(c *aisle.Config) Option {
	return func(e *Evaluator) {
		if c != nil {
			e.aisles = c
		}
	}
}

// WithMaxDepth sets the maximum expression nesting.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithConcurrency bounds how many references the pre-pass resolves at once.
func WithConcurrency(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// Evaluator holds configuration only and is safe for concurrent use.
type Evaluator struct {
	resolver    Resolver
	units       *quantity.Table
	aisles      *aisle.Config
	maxDepth    int
	concurrency int
}

// New creates an Evaluator.
func New(resolver Resolver, opts ...Option) *Evaluator {
	e := &Evaluator{
		resolver:    resolver,
		units:       quantity.DefaultTable(),
		aisles:      aisle.Empty(),
		maxDepth:    DefaultMaxDepth,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates def. Any failure aborts the whole report and is returned
// as *report.EvalError; no partial result is produced.
func (e *Evaluator) Run(ctx context.Context, def *report.Definition) (*report.Result, error) {
	logger := ctxlog.FromContext(ctx).With("report", def.Filename)
	start := time.Now()

	res, err := e.run(ctx, def)
	metrics.ReportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportRuns.WithLabelValues("error").Inc()
		logger.Debug("Report evaluation failed.", "error", err)
		return nil, err
	}
	metrics.ReportRuns.WithLabelValues("ok").Inc()
	logger.Debug("Report evaluated.", "lines", len(res.Lines))
	return res, nil
}

func (e *Evaluator) run(ctx context.Context, def *report.Definition) (*report.Result, error) {
	bindings, err := e.bind(ctx, def)
	if err != nil {
		return nil, err
	}

	r := &run{
		ev:       e,
		bindings: bindings,
		locals:   make(map[string]localValue, len(def.Locals)),
	}
	for _, b := range def.Recipes {
		r.order = append(r.order, bindings[b.Label])
	}

	for _, l := range def.Locals {
		r.touched = newTouched()
		v, err := r.eval(l.Expr, 1)
		if err != nil {
			return nil, err
		}
		r.locals[l.Name] = localValue{value: v, touched: r.touched}
	}

	result := &report.Result{Title: def.Title, Lines: []report.OutputLine{}}
	for _, item := range def.Body {
		lines, err := r.body(item)
		if err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, lines...)
	}
	return result, nil
}
