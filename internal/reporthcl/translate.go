package reporthcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/report"
	"github.com/zclconf/go-cty/cty"
)

// scope says which variables an expression may use.
type scope struct {
	inLoop bool
}

var functions = map[string]int{
	"convert":  2,
	"fixed":    2,
	"quantity": 2,
	"total":    1,
}

var roots = []string{"recipe", "local", "ingredient"}

// translate converts one HCL expression into a report node. Problems are
// recorded on the loader and a placeholder literal is returned so the
// rest of the file is still checked.
func (l *loader) translate(expr hcl.Expression, sc scope) report.Node {
	rng := expr.Range()
	pos := report.Pos{Range: rng}

	// Using a type switch is the correct way to handle the various concrete
	// expression types that implement the hcl.Expression interface.
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return l.literal(e.Val, rng)

	case *hclsyntax.TemplateWrapExpr:
		return l.translate(e.Wrapped, sc)

	case *hclsyntax.TemplateExpr:
		return l.template(e, sc)

	case *hclsyntax.ParenthesesExpr:
		return l.translate(e.Expression, sc)

	case *hclsyntax.ScopeTraversalExpr:
		return l.traversal(e.Traversal, rng, sc)

	case *hclsyntax.BinaryOpExpr:
		left := l.translate(e.LHS, sc)
		right := l.translate(e.RHS, sc)
		switch e.Op {
		case hclsyntax.OpAdd:
			return &report.Arithmetic{Pos: pos, Op: report.OpAdd, Left: left, Right: right}
		case hclsyntax.OpSubtract:
			return &report.Arithmetic{Pos: pos, Op: report.OpSub, Left: left, Right: right}
		case hclsyntax.OpMultiply:
			return &report.Arithmetic{Pos: pos, Op: report.OpMul, Left: left, Right: right}
		case hclsyntax.OpDivide:
			return &report.Arithmetic{Pos: pos, Op: report.OpDiv, Left: left, Right: right}
		case hclsyntax.OpEqual:
			return &report.Compare{Pos: pos, Op: report.OpEq, Left: left, Right: right}
		case hclsyntax.OpNotEqual:
			return &report.Compare{Pos: pos, Op: report.OpNe, Left: left, Right: right}
		case hclsyntax.OpLessThan:
			return &report.Compare{Pos: pos, Op: report.OpLt, Left: left, Right: right}
		case hclsyntax.OpLessThanOrEqual:
			return &report.Compare{Pos: pos, Op: report.OpLe, Left: left, Right: right}
		case hclsyntax.OpGreaterThan:
			return &report.Compare{Pos: pos, Op: report.OpGt, Left: left, Right: right}
		case hclsyntax.OpGreaterThanOrEqual:
			return &report.Compare{Pos: pos, Op: report.OpGe, Left: left, Right: right}
		case hclsyntax.OpLogicalAnd:
			return &report.Logical{Pos: pos, Op: report.OpAnd, Left: left, Right: right}
		case hclsyntax.OpLogicalOr:
			return &report.Logical{Pos: pos, Op: report.OpOr, Left: left, Right: right}
		default:
			return l.unsupported("This operator", rng)
		}

	case *hclsyntax.UnaryOpExpr:
		operand := l.translate(e.Val, sc)
		switch e.Op {
		case hclsyntax.OpLogicalNot:
			return &report.Not{Pos: pos, Operand: operand}
		case hclsyntax.OpNegate:
			// Multiplying keeps the operand's unit.
			minusOne := &report.Literal{Pos: pos, Value: report.Number(-1)}
			return &report.Arithmetic{Pos: pos, Op: report.OpMul, Left: operand, Right: minusOne}
		default:
			return l.unsupported("This operator", rng)
		}

	case *hclsyntax.ConditionalExpr:
		return &report.Conditional{
			Pos:  pos,
			Cond: l.translate(e.Condition, sc),
			Then: l.translate(e.TrueResult, sc),
			Else: l.translate(e.FalseResult, sc),
		}

	case *hclsyntax.FunctionCallExpr:
		return l.call(e, sc)

	case *hclsyntax.ForExpr:
		return l.unsupported("A for expression", rng)
	case *hclsyntax.SplatExpr, *hclsyntax.RelativeTraversalExpr, *hclsyntax.IndexExpr:
		return l.unsupported("Dynamic indexing", rng)
	case *hclsyntax.ObjectConsExpr, *hclsyntax.TupleConsExpr:
		return l.unsupported("A collection constructor", rng)
	default:
		return l.unsupported(fmt.Sprintf("Expression type %T", e), rng)
	}
}

func (l *loader) literal(v cty.Value, rng hcl.Range) report.Node {
	pos := report.Pos{Range: rng}
	if v.IsNull() || !v.IsKnown() {
		l.diags = append(l.diags, errorDiag("Invalid value", "Null values cannot be used in a report.", rng))
		return &report.Literal{Pos: pos, Value: report.String("")}
	}
	switch v.Type() {
	case cty.String:
		return &report.Literal{Pos: pos, Value: report.String(v.AsString())}
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return &report.Literal{Pos: pos, Value: report.Number(f)}
	case cty.Bool:
		return &report.Literal{Pos: pos, Value: report.Bool(v.True())}
	default:
		return l.unsupported("A "+v.Type().FriendlyName()+" value", rng)
	}
}

func (l *loader) template(e *hclsyntax.TemplateExpr, sc scope) report.Node {
	t := &report.Template{Pos: report.Pos{Range: e.SrcRange}}
	for _, part := range e.Parts {
		if lit, ok := part.(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type() == cty.String {
			t.Parts = append(t.Parts, report.TemplatePart{Literal: lit.Val.AsString()})
			continue
		}
		t.Parts = append(t.Parts, report.TemplatePart{Expr: l.translate(part, sc), Decimals: -1})
	}
	return t
}

func (l *loader) traversal(tr hcl.Traversal, rng hcl.Range, sc scope) report.Node {
	pos := report.Pos{Range: rng}
	steps := traversalSteps(tr)

	switch tr.RootName() {
	case "recipe":
		if len(steps) == 0 {
			return l.invalidRef("A recipe reference needs a label, as in recipe.soup.", rng)
		}
		label := steps[0]
		if !l.recipes[label] {
			l.diags = append(l.diags, errorDiag("Unknown recipe",
				fmt.Sprintf("No recipe block is labelled %q.%s", label, suggestion(label, keys(l.recipes))), rng))
			return &report.Literal{Pos: pos, Value: report.String("")}
		}
		if len(steps) == 1 {
			return &report.RecipeRef{Pos: pos, Label: label}
		}
		return fieldAccess(pos, label, steps[1:])

	case "local":
		if len(steps) != 1 {
			return l.invalidRef("A local reference has the form local.<name>.", rng)
		}
		if _, ok := l.locals[steps[0]]; !ok {
			l.diags = append(l.diags, errorDiag("Unknown local value",
				fmt.Sprintf("No local value named %q.%s", steps[0], suggestion(steps[0], keys(l.locals))), rng))
			return &report.Literal{Pos: pos, Value: report.String("")}
		}
		return &report.LocalRef{Pos: pos, Name: steps[0]}

	case "ingredient":
		if !sc.inLoop {
			return l.invalidRef("The ingredient variable is only available inside each_ingredient blocks.", rng)
		}
		if len(steps) != 1 {
			return l.invalidRef("A loop variable has the form ingredient.<attribute>.", rng)
		}
		field, ok := report.LookupLoopField(steps[0])
		return &report.LoopVar{Pos: pos, Field: field, Known: ok, Raw: steps[0]}

	default:
		l.diags = append(l.diags, errorDiag("Unknown variable",
			fmt.Sprintf("There is no variable named %q.%s", tr.RootName(), suggestion(tr.RootName(), roots)), rng))
		return &report.Literal{Pos: pos, Value: report.String("")}
	}
}

// fieldAccess builds the access for the steps after recipe.<label>.
func fieldAccess(pos report.Pos, label string, steps []string) report.Node {
	raw := joinSteps(steps)
	kind, ok := report.LookupField(steps[0])
	fa := &report.FieldAccess{Pos: pos, Recipe: label, Raw: raw}
	switch {
	case !ok:
	case kind.Keyed() && len(steps) == 2:
		fa.Field = report.Field{Kind: kind, Key: steps[1]}
		fa.Known = true
	case !kind.Keyed() && len(steps) == 1:
		fa.Field = report.Field{Kind: kind}
		fa.Known = true
	}
	return fa
}

func (l *loader) call(e *hclsyntax.FunctionCallExpr, sc scope) report.Node {
	pos := report.Pos{Range: e.Range()}
	arity, ok := functions[e.Name]
	if !ok {
		l.diags = append(l.diags, errorDiag("Call to unknown function",
			fmt.Sprintf("There is no function named %q.%s", e.Name, suggestion(e.Name, keys(functions))), e.NameRange))
		return &report.Literal{Pos: pos, Value: report.String("")}
	}
	if len(e.Args) != arity {
		l.diags = append(l.diags, errorDiag("Wrong number of arguments",
			fmt.Sprintf("Function %q takes %d arguments.", e.Name, arity), e.Range()))
		return &report.Literal{Pos: pos, Value: report.String("")}
	}

	switch e.Name {
	case "convert":
		unit, _ := l.stringArg(e.Args[1])
		return &report.UnitConversion{Pos: pos, Operand: l.translate(e.Args[0], sc), Unit: unit}
	case "fixed":
		n, _ := l.decimals(e.Args[1])
		return &report.Template{Pos: pos, Parts: []report.TemplatePart{{Expr: l.translate(e.Args[0], sc), Decimals: n}}}
	case "quantity":
		unit, _ := l.stringArg(e.Args[1])
		one := &report.Literal{Pos: pos, Value: report.Quantity(quantity.New(1, unit))}
		return &report.Arithmetic{Pos: pos, Op: report.OpMul, Left: l.translate(e.Args[0], sc), Right: one}
	default: // total
		name, _ := l.stringArg(e.Args[0])
		return &report.Aggregate{Pos: pos, Ingredient: name}
	}
}

// stringArg requires a constant string argument.
func (l *loader) stringArg(expr hcl.Expression) (string, bool) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() || v.IsNull() || v.Type() != cty.String {
		l.diags = append(l.diags, errorDiag("Invalid argument", "This argument must be a constant string.", expr.Range()))
		return "", false
	}
	return v.AsString(), true
}

// decimals requires a constant whole number between 0 and 10.
func (l *loader) decimals(expr hcl.Expression) (int, bool) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() || v.IsNull() || v.Type() != cty.Number {
		l.diags = append(l.diags, errorDiag("Invalid argument", "The number of decimals must be a constant number.", expr.Range()))
		return 0, false
	}
	n, acc := v.AsBigFloat().Int64()
	if acc != 0 || n < 0 || n > 10 {
		l.diags = append(l.diags, errorDiag("Invalid argument", "The number of decimals must be a whole number from 0 to 10.", expr.Range()))
		return 0, false
	}
	return int(n), true
}

func (l *loader) unsupported(what string, rng hcl.Range) report.Node {
	l.diags = append(l.diags, errorDiag("Unsupported expression",
		what+" is not supported in report definitions.", rng))
	return &report.Literal{Pos: report.Pos{Range: rng}, Value: report.String("")}
}

func (l *loader) invalidRef(detail string, rng hcl.Range) report.Node {
	l.diags = append(l.diags, errorDiag("Invalid reference", detail, rng))
	return &report.Literal{Pos: report.Pos{Range: rng}, Value: report.String("")}
}
