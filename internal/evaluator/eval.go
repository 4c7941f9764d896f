package evaluator

import (
	"fmt"
	"strings"

	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/recipe"
	"github.com/vk/cookcli/internal/report"
)

func (r *run) eval(node report.Node, depth int) (report.Value, error) {
	if depth > r.ev.maxDepth {
		return report.Value{}, evalErr(report.DepthExceeded, node, "",
			fmt.Errorf("more than %d nested expressions", r.ev.maxDepth))
	}

	switch n := node.(type) {
	case *report.Literal:
		return n.Value, nil
	case *report.RecipeRef:
		b, ok := r.binding(n.Label)
		if !ok {
			return report.Value{}, evalErr(report.UnresolvedReference, n, "recipe."+n.Label, nil)
		}
		return report.String(b.doc.Metadata.Title), nil
	case *report.FieldAccess:
		return r.field(n)
	case *report.Arithmetic:
		left, right, err := r.operands(n.Left, n.Right, depth)
		if err != nil {
			return report.Value{}, err
		}
		return r.arithmetic(n, left, right)
	case *report.Compare:
		left, right, err := r.operands(n.Left, n.Right, depth)
		if err != nil {
			return report.Value{}, err
		}
		return r.compare(n, left, right)
	case *report.Logical:
		return r.logical(n, depth)
	case *report.Not:
		v, err := r.eval(n.Operand, depth+1)
		if err != nil {
			return report.Value{}, err
		}
		if v.Kind != report.KindBool {
			return report.Value{}, mismatch(n, "operand of !", report.KindBool, v)
		}
		return report.Bool(!v.Bool), nil
	case *report.UnitConversion:
		return r.convert(n, depth)
	case *report.Aggregate:
		return r.aggregate(n)
	case *report.LocalRef:
		l, ok := r.locals[n.Name]
		if !ok {
			return report.Value{}, evalErr(report.UnknownField, n, "local."+n.Name, nil)
		}
		r.touched.merge(l.touched)
		return l.value, nil
	case *report.LoopVar:
		return r.loopVar(n)
	case *report.Conditional:
		cond, err := r.eval(n.Cond, depth+1)
		if err != nil {
			return report.Value{}, err
		}
		if cond.Kind != report.KindBool {
			return report.Value{}, mismatch(n.Cond, "condition", report.KindBool, cond)
		}
		switch {
		case cond.Bool:
			return r.eval(n.Then, depth+1)
		case n.Else != nil:
			return r.eval(n.Else, depth+1)
		default:
			return report.String(""), nil
		}
	case *report.Template:
		return r.template(n, depth)
	default:
		return report.Value{}, evalErr(report.TypeMismatch, node, "", errUnexpectedNode)
	}
}

func (r *run) operands(left, right report.Node, depth int) (report.Value, report.Value, error) {
	l, err := r.eval(left, depth+1)
	if err != nil {
		return report.Value{}, report.Value{}, err
	}
	rv, err := r.eval(right, depth+1)
	if err != nil {
		return report.Value{}, report.Value{}, err
	}
	return l, rv, nil
}

func (r *run) field(n *report.FieldAccess) (report.Value, error) {
	b, ok := r.binding(n.Recipe)
	if !ok {
		return report.Value{}, evalErr(report.UnresolvedReference, n, "recipe."+n.Recipe, nil)
	}
	if !n.Known {
		return report.Value{}, evalErr(report.UnknownField, n, "recipe."+n.Recipe+"."+n.Raw, nil)
	}

	meta := b.doc.Metadata
	switch n.Field.Kind {
	case report.FieldTitle:
		return report.String(meta.Title), nil
	case report.FieldServings:
		if meta.Servings <= 0 {
			return report.Value{}, evalErr(report.UnknownField, n, "recipe."+n.Recipe+".servings",
				fmt.Errorf("recipe %q declares no servings", meta.Title))
		}
		return report.Number(meta.Servings), nil
	case report.FieldTags:
		return report.Strings(meta.Tags), nil
	case report.FieldTag:
		return report.Bool(b.doc.HasTag(n.Field.Key)), nil
	case report.FieldIngredient:
		ing, ok := b.doc.Ingredient(n.Field.Key)
		if !ok {
			return report.Value{}, evalErr(report.UnknownField, n, "recipe."+n.Recipe+"."+n.Field.String(),
				fmt.Errorf("recipe %q has no ingredient %q", meta.Title, n.Field.Key))
		}
		return r.ingredientTotal(n, ing)
	case report.FieldIngredients:
		return report.Number(float64(len(b.doc.Ingredients))), nil
	case report.FieldCookware:
		return report.Strings(b.doc.CookwareNames()), nil
	case report.FieldSteps:
		return report.Number(float64(len(b.doc.Steps))), nil
	case report.FieldSource:
		return report.String(meta.Source), nil
	case report.FieldDescription:
		return report.String(meta.Description), nil
	default:
		return report.Value{}, evalErr(report.UnknownField, n, "recipe."+n.Recipe+"."+n.Field.String(), nil)
	}
}

// ingredientTotal sums every amount of an ingredient. An ingredient
// mentioned without an amount reads as the empty string.
func (r *run) ingredientTotal(n report.Node, ing recipe.Ingredient) (report.Value, error) {
	groups := r.ev.units.Group(ing.Quantities())
	switch len(groups) {
	case 0:
		return report.String(""), nil
	case 1:
		return report.Quantity(groups[0]), nil
	}
	for _, g := range groups {
		if !g.IsNumeric() {
			return report.Value{}, evalErr(report.TypeMismatch, n, ing.Name, quantity.ErrNotNumeric)
		}
	}
	return report.Value{}, evalErr(report.IncompatibleUnits, n, ing.Name,
		&quantity.IncompatibleUnitsError{From: groups[0].Unit, To: groups[1].Unit})
}

func (r *run) logical(n *report.Logical, depth int) (report.Value, error) {
	left, err := r.eval(n.Left, depth+1)
	if err != nil {
		return report.Value{}, err
	}
	if left.Kind != report.KindBool {
		return report.Value{}, mismatch(n.Left, "operand of "+n.Op.String(), report.KindBool, left)
	}
	if (n.Op == report.OpAnd && !left.Bool) || (n.Op == report.OpOr && left.Bool) {
		return left, nil
	}
	right, err := r.eval(n.Right, depth+1)
	if err != nil {
		return report.Value{}, err
	}
	if right.Kind != report.KindBool {
		return report.Value{}, mismatch(n.Right, "operand of "+n.Op.String(), report.KindBool, right)
	}
	return right, nil
}

func (r *run) convert(n *report.UnitConversion, depth int) (report.Value, error) {
	v, err := r.eval(n.Operand, depth+1)
	if err != nil {
		return report.Value{}, err
	}
	q, ok := numeric(v)
	if !ok {
		return report.Value{}, mismatch(n.Operand, "convert", report.KindQuantity, v)
	}
	out, err := r.ev.units.Convert(q, n.Unit)
	if err != nil {
		return report.Value{}, quantityErr(n, "convert", err)
	}
	return report.Quantity(out), nil
}

// aggregate totals one ingredient over every binding that uses it.
func (r *run) aggregate(n *report.Aggregate) (report.Value, error) {
	var qs []quantity.Quantity
	found := false
	for _, b := range r.order {
		ing, ok := b.doc.Ingredient(n.Ingredient)
		if !ok {
			continue
		}
		found = true
		r.touched.add(b.label)
		qs = append(qs, ing.Quantities()...)
	}
	subject := fmt.Sprintf("total(%q)", n.Ingredient)
	if !found {
		return report.Value{}, evalErr(report.UnknownField, n, subject,
			fmt.Errorf("no bound recipe uses %q", n.Ingredient))
	}
	total, err := r.ev.units.Sum(qs)
	if err != nil {
		return report.Value{}, quantityErr(n, subject, err)
	}
	return report.Quantity(total), nil
}

func (r *run) loopVar(n *report.LoopVar) (report.Value, error) {
	if !n.Known {
		return report.Value{}, evalErr(report.UnknownField, n, "ingredient."+n.Raw, nil)
	}
	it := r.loop
	if it == nil {
		return report.Value{}, evalErr(report.UnknownField, n, "ingredient", errOutsideLoop)
	}

	switch n.Field {
	case report.LoopName:
		return report.String(it.name), nil
	case report.LoopQuantity:
		if len(it.quantities) == 1 {
			return report.Quantity(it.quantities[0]), nil
		}
		return report.String(joinQuantities(it.quantities, quantity.Quantity.String)), nil
	case report.LoopAmount:
		if len(it.quantities) == 1 && it.quantities[0].IsNumeric() {
			return report.Number(it.quantities[0].Amount), nil
		}
		return report.String(joinQuantities(it.quantities, amountText)), nil
	case report.LoopUnit:
		return report.String(joinQuantities(it.quantities, func(q quantity.Quantity) string { return q.Unit })), nil
	case report.LoopNote:
		return report.String(it.note), nil
	case report.LoopCategory:
		return report.String(r.ev.aisles.Category(it.name)), nil
	case report.LoopOptional:
		return report.Bool(it.optional), nil
	default:
		return report.Value{}, evalErr(report.UnknownField, n, "ingredient."+n.Raw, nil)
	}
}

func (r *run) template(n *report.Template, depth int) (report.Value, error) {
	var sb strings.Builder
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Literal)
			continue
		}
		v, err := r.eval(part.Expr, depth+1)
		if err != nil {
			return report.Value{}, err
		}
		if part.Decimals < 0 {
			sb.WriteString(v.Render())
			continue
		}
		if v.Kind != report.KindNumber && v.Kind != report.KindQuantity {
			return report.Value{}, mismatch(part.Expr, "fixed", report.KindNumber, v)
		}
		sb.WriteString(v.RenderFixed(part.Decimals))
	}
	return report.String(sb.String()), nil
}

func joinQuantities(qs []quantity.Quantity, format func(quantity.Quantity) string) string {
	parts := make([]string, 0, len(qs))
	for _, q := range qs {
		parts = append(parts, format(q))
	}
	return strings.Join(parts, ", ")
}

func amountText(q quantity.Quantity) string {
	if q.IsNumeric() {
		return quantity.FormatNumber(q.Amount)
	}
	return q.Text
}
