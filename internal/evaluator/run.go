package evaluator

import (
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/recipe"
	"github.com/vk/cookcli/internal/report"
)

// run is the state of one evaluation. It is never shared between
// goroutines.
type run struct {
	ev       *Evaluator
	bindings map[string]*binding
	order    []*binding
	locals   map[string]localValue

	// touched collects the recipes read while producing the current line
	// or local.
	touched touched
	loop    *loopItem
}

type localValue struct {
	value   report.Value
	touched touched
}

type touched map[string]struct{}

func newTouched() touched { return touched{} }

func (t touched) add(label string) { t[label] = struct{}{} }

func (t touched) merge(other touched) {
	for label := range other {
		t[label] = struct{}{}
	}
}

// loopItem is the ingredient bound to the loop variable.
type loopItem struct {
	name       string
	quantities []quantity.Quantity
	note       string
	optional   bool
	labels     []string
}

func (r *run) binding(label string) (*binding, bool) {
	b, ok := r.bindings[label]
	if ok {
		r.touched.add(label)
	}
	return b, ok
}

// provenance lists the touched recipes in declaration order.
func (r *run) provenance(ingredient string) report.Provenance {
	p := report.Provenance{Ingredient: ingredient}
	for _, b := range r.order {
		if _, ok := r.touched[b.label]; !ok {
			continue
		}
		p.Recipes = append(p.Recipes, b.label)
		if b.entry != nil {
			p.Paths = append(p.Paths, b.entry.RelPath)
		}
	}
	return p
}

func (r *run) body(item report.Node) ([]report.OutputLine, error) {
	switch n := item.(type) {
	case *report.Line:
		r.touched = newTouched()
		line, ok, err := r.line(n.When, n.Text)
		if err != nil || !ok {
			return nil, err
		}
		line.Provenance = r.provenance("")
		return []report.OutputLine{line}, nil
	case *report.LoopIngredients:
		return r.each(n)
	default:
		return nil, evalErr(report.TypeMismatch, item, "", errUnexpectedNode)
	}
}

// line evaluates an optional condition and the text of one output line.
func (r *run) line(when, text report.Node) (report.OutputLine, bool, error) {
	if when != nil {
		cond, err := r.eval(when, 1)
		if err != nil {
			return report.OutputLine{}, false, err
		}
		if cond.Kind != report.KindBool {
			return report.OutputLine{}, false, mismatch(when, "condition", report.KindBool, cond)
		}
		if !cond.Bool {
			return report.OutputLine{}, false, nil
		}
	}
	v, err := r.eval(text, 1)
	if err != nil {
		return report.OutputLine{}, false, err
	}
	return report.OutputLine{Text: v.Render()}, true, nil
}

func (r *run) each(n *report.LoopIngredients) ([]report.OutputLine, error) {
	items, err := r.loopItems(n)
	if err != nil {
		return nil, err
	}
	defer func() { r.loop = nil }()

	var out []report.OutputLine
	for i := range items {
		r.loop = &items[i]
		r.touched = newTouched()
		for _, label := range items[i].labels {
			r.touched.add(label)
		}
		line, ok, err := r.line(n.Filter, n.Text)
		if err != nil {
			return nil, err
		}
		if ok {
			line.Provenance = r.provenance(items[i].name)
			out = append(out, line)
		}
	}
	return out, nil
}

// loopItems lists the ingredients a loop visits. The AllRecipes target
// merges ingredients of every binding by name, in order of first
// appearance, summing compatible amounts.
func (r *run) loopItems(n *report.LoopIngredients) ([]loopItem, error) {
	if n.Recipe != report.AllRecipes {
		b, ok := r.bindings[n.Recipe]
		if !ok {
			return nil, evalErr(report.UnresolvedReference, n, "recipe."+n.Recipe, nil)
		}
		items := make([]loopItem, 0, len(b.doc.Ingredients))
		for _, ing := range b.doc.Ingredients {
			items = append(items, loopItem{
				name:       ing.Name,
				quantities: r.ev.units.Group(ing.Quantities()),
				note:       ing.Note,
				optional:   ing.Optional,
				labels:     []string{b.label},
			})
		}
		return items, nil
	}

	var items []loopItem
	pos := make(map[string]int)
	for _, b := range r.order {
		for _, ing := range b.doc.Ingredients {
			key := recipe.NameKey(ing.Name)
			i, ok := pos[key]
			if !ok {
				pos[key] = len(items)
				items = append(items, loopItem{
					name:       ing.Name,
					quantities: ing.Quantities(),
					note:       ing.Note,
					optional:   ing.Optional,
					labels:     []string{b.label},
				})
				continue
			}
			it := &items[i]
			it.quantities = append(it.quantities, ing.Quantities()...)
			if it.note == "" {
				it.note = ing.Note
			}
			it.optional = it.optional && ing.Optional
			if it.labels[len(it.labels)-1] != b.label {
				it.labels = append(it.labels, b.label)
			}
		}
	}
	for i := range items {
		items[i].quantities = r.ev.units.Group(items[i].quantities)
	}
	return items, nil
}
