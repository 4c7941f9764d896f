package reporthcl

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// traversalSteps returns the attribute names and constant string keys
// after the root of a traversal. recipe.soup.ingredient["olive oil"]
// yields soup, ingredient, olive oil.
func traversalSteps(tr hcl.Traversal) []string {
	var steps []string
	for _, step := range tr[1:] {
		switch s := step.(type) {
		case hcl.TraverseAttr:
			steps = append(steps, s.Name)
		case hcl.TraverseIndex:
			if s.Key.Type() == cty.String && s.Key.IsKnown() && !s.Key.IsNull() {
				steps = append(steps, s.Key.AsString())
			} else {
				steps = append(steps, s.Key.GoString())
			}
		}
	}
	return steps
}

func joinSteps(steps []string) string {
	return strings.Join(steps, ".")
}

type localRef struct {
	name string
	rng  hcl.Range
}

// localRefs lists the local.<name> references made by an expression.
func localRefs(expr hcl.Expression) []localRef {
	var refs []localRef
	for _, tr := range expr.Variables() {
		if tr.RootName() != "local" || len(tr) < 2 {
			continue
		}
		if attr, ok := tr[1].(hcl.TraverseAttr); ok {
			refs = append(refs, localRef{name: attr.Name, rng: tr.SourceRange()})
		}
	}
	return refs
}
