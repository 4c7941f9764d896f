// Package reporthcl reads report definitions written in HCL and translates
// them into the report expression tree.
package reporthcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/dag"
	"github.com/vk/cookcli/internal/report"
)

// LoadFile reads and translates the report definition at path.
func LoadFile(ctx context.Context, path string) (*report.Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	return Load(ctx, path, src)
}

// Load translates report source. Problems are returned as hcl.Diagnostics.
func Load(ctx context.Context, filename string, src []byte) (*report.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Report loader started.", "file", filename)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &report.Definition{Filename: filename}
	if attr, ok := content.Attributes["title"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &def.Title); diags.HasErrors() {
			return nil, diags
		}
	}

	l := &loader{ctx: ctx, recipes: map[string]bool{}, locals: map[string]hcl.Expression{}}

	// Bindings and locals first: body blocks may refer to them wherever
	// they appear in the file.
	for _, block := range content.Blocks {
		switch block.Type {
		case "recipe":
			l.diags = l.diags.Extend(l.bindRecipe(def, block))
		case "locals":
			l.diags = l.diags.Extend(l.declareLocals(block))
		}
	}
	if l.diags.HasErrors() {
		return nil, l.diags
	}

	locals, diags := l.translateLocals()
	if diags.HasErrors() {
		return nil, diags
	}
	def.Locals = locals

	for _, block := range content.Blocks {
		switch block.Type {
		case "line":
			if n := l.translateLine(block); n != nil {
				def.Body = append(def.Body, n)
			}
		case "each_ingredient":
			if n := l.translateEach(block); n != nil {
				def.Body = append(def.Body, n)
			}
		}
	}
	if l.diags.HasErrors() {
		return nil, l.diags
	}

	logger.Debug("Report loaded.", "file", filename, "recipes", len(def.Recipes), "locals", len(def.Locals), "body", len(def.Body))
	return def, nil
}

// loader carries translation state for one file.
type loader struct {
	ctx     context.Context
	recipes map[string]bool
	locals  map[string]hcl.Expression
	diags   hcl.Diagnostics
}

func (l *loader) bindRecipe(def *report.Definition, block *hcl.Block) hcl.Diagnostics {
	label := block.Labels[0]
	if l.recipes[label] {
		return hcl.Diagnostics{errorDiag("Duplicate recipe block",
			fmt.Sprintf("A recipe labelled %q was already declared.", label), block.LabelRanges[0])}
	}

	var rb recipeBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &rb); diags.HasErrors() {
		return diags
	}
	if rb.Servings != nil && *rb.Servings <= 0 {
		return hcl.Diagnostics{errorDiag("Invalid servings",
			"Target servings must be a positive number.", block.DefRange)}
	}
	if rb.Scale != nil && *rb.Scale <= 0 {
		return hcl.Diagnostics{errorDiag("Invalid scale",
			"A scale factor must be a positive number.", block.DefRange)}
	}

	l.recipes[label] = true
	def.Recipes = append(def.Recipes, report.RecipeBinding{
		Label:    label,
		Ref:      rb.Ref,
		Servings: rb.Servings,
		Scale:    rb.Scale,
		Fuzzy:    rb.Fuzzy,
		Range:    block.DefRange,
	})
	return nil
}

func (l *loader) declareLocals(block *hcl.Block) hcl.Diagnostics {
	attrs, diags := block.Body.JustAttributes()
	for name, attr := range attrs {
		if _, exists := l.locals[name]; exists {
			diags = append(diags, errorDiag("Duplicate local value",
				fmt.Sprintf("A local value named %q was already declared.", name), attr.NameRange))
			continue
		}
		l.locals[name] = attr.Expr
	}
	return diags
}

// translateLocals orders locals so each depends only on earlier ones and
// rejects cycles.
func (l *loader) translateLocals() ([]report.Local, hcl.Diagnostics) {
	graph := dag.New()
	for name := range l.locals {
		graph.AddNode(name)
	}
	var diags hcl.Diagnostics
	for _, name := range keys(l.locals) {
		for _, ref := range localRefs(l.locals[name]) {
			if _, ok := l.locals[ref.name]; !ok {
				continue // reported during translation
			}
			if err := graph.AddEdge(ref.name, name); err != nil {
				diags = append(diags, errorDiag("Invalid local reference", err.Error(), ref.rng))
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	order, err := graph.TopologicalOrder()
	if err != nil {
		var cycle *dag.CycleError
		if !errors.As(err, &cycle) {
			return nil, hcl.Diagnostics{errorDiag("Invalid local values", err.Error(), hcl.Range{})}
		}
		return nil, hcl.Diagnostics{errorDiag("Cyclic local values",
			fmt.Sprintf("Local values refer to each other: %s.", strings.Join(cycle.Path, " -> ")),
			l.locals[cycle.Path[0]].Range())}
	}

	out := make([]report.Local, 0, len(order))
	for _, name := range order {
		node := l.translate(l.locals[name], scope{})
		out = append(out, report.Local{Name: name, Expr: node})
	}
	return out, l.diags
}

func (l *loader) translateLine(block *hcl.Block) report.Node {
	var lb lineBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &lb); diags.HasErrors() {
		l.diags = l.diags.Extend(diags)
		return nil
	}
	line := &report.Line{Pos: report.Pos{Range: block.DefRange}}
	line.Text = l.translate(lb.Text, scope{})
	if isExprDefined(l.ctx, lb.When, "when") {
		line.When = l.translate(lb.When, scope{})
	}
	return line
}

func (l *loader) translateEach(block *hcl.Block) report.Node {
	label := block.Labels[0]
	if label != report.AllRecipes && !l.recipes[label] {
		l.diags = append(l.diags, errorDiag("Unknown recipe",
			fmt.Sprintf("No recipe block is labelled %q.%s", label, suggestion(label, keys(l.recipes))),
			block.LabelRanges[0]))
		return nil
	}

	var eb eachBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &eb); diags.HasErrors() {
		l.diags = l.diags.Extend(diags)
		return nil
	}
	loop := &report.LoopIngredients{Pos: report.Pos{Range: block.DefRange}, Recipe: label}
	loop.Text = l.translate(eb.Text, scope{inLoop: true})
	if isExprDefined(l.ctx, eb.Filter, "filter") {
		loop.Filter = l.translate(eb.Filter, scope{inLoop: true})
	}
	return loop
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder fills omitted optional expressions with zero-width
// placeholders, so a nil check alone is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	defined := rng.End.Byte > rng.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName, "hcl_range", rng.String(), "is_defined", defined)
	return defined
}

func errorDiag(summary, detail string, rng hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}
}
