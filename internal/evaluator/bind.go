package evaluator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/cookcli/internal/index"
	"github.com/vk/cookcli/internal/recipe"
	"github.com/vk/cookcli/internal/report"
	"github.com/vk/cookcli/internal/resolve"
)

// binding is a resolved and scaled recipe under its report label.
type binding struct {
	label  string
	entry  *index.Entry
	doc    *recipe.Document
	factor float64
}

type request struct {
	ref   string
	fuzzy bool
}

type outcome struct {
	res *resolve.Resolution
	err error
}

// bind resolves every recipe the definition declares. Identical requests
// share one resolution. Failures are reported for the first binding in
// declaration order, whatever order the lookups finished in.
func (e *Evaluator) bind(ctx context.Context, def *report.Definition) (map[string]*binding, error) {
	slots := make(map[request]int, len(def.Recipes))
	var requests []request
	for _, b := range def.Recipes {
		rq := request{ref: b.Ref, fuzzy: b.Fuzzy}
		if _, ok := slots[rq]; !ok {
			slots[rq] = len(requests)
			requests = append(requests, rq)
		}
	}

	outcomes := make([]outcome, len(requests))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, rq := range requests {
		g.Go(func() error {
			res, err := e.resolver.Resolve(ctx, rq.ref, resolve.Options{Fuzzy: rq.fuzzy})
			outcomes[i] = outcome{res: res, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bindings := make(map[string]*binding, len(def.Recipes))
	for _, b := range def.Recipes {
		out := outcomes[slots[request{ref: b.Ref, fuzzy: b.Fuzzy}]]
		subject := "recipe." + b.Label
		if out.err != nil {
			return nil, &report.EvalError{Kind: report.UnresolvedReference, Range: b.Range, Subject: subject, Err: out.err}
		}
		if err := out.res.Err(); err != nil {
			return nil, &report.EvalError{Kind: report.UnresolvedReference, Range: b.Range, Subject: subject, Err: err}
		}

		factor, err := scaleFactor(b, out.res.Document)
		if err != nil {
			return nil, err
		}
		doc := out.res.Document
		if factor != 1 {
			doc = doc.Scale(factor)
		}
		bindings[b.Label] = &binding{label: b.Label, entry: out.res.Entry, doc: doc, factor: factor}
	}
	return bindings, nil
}

// scaleFactor returns the multiplier a binding applies. Target servings
// win over an explicit scale.
func scaleFactor(b report.RecipeBinding, doc *recipe.Document) (float64, error) {
	switch {
	case b.Servings != nil:
		native := doc.Metadata.Servings
		if native <= 0 {
			return 0, &report.EvalError{
				Kind:    report.UnknownField,
				Range:   b.Range,
				Subject: "recipe." + b.Label + ".servings",
				Err:     fmt.Errorf("recipe %q declares no servings to scale from", doc.Metadata.Title),
			}
		}
		return *b.Servings / native, nil
	case b.Scale != nil:
		return *b.Scale, nil
	default:
		return 1, nil
	}
}
