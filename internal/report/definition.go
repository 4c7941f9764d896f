package report

import "github.com/hashicorp/hcl/v2"

// RecipeBinding declares a recipe a report uses, under a label.
type RecipeBinding struct {
	Label    string
	Ref      string
	Servings *float64 // target servings; scales by Servings/native
	Scale    *float64 // explicit factor; ignored when Servings is set
	Fuzzy    bool
	Range    hcl.Range
}

// Local is a named expression from the locals block.
type Local struct {
	Name string
	Expr Node
}

// Definition is a parsed report. It is immutable once loaded and may be
// evaluated any number of times.
type Definition struct {
	Title   string
	Recipes []RecipeBinding
	// Locals are in dependency order: each local only refers to locals
	// before it.
	Locals []Local
	// Body holds *Line and *LoopIngredients nodes in source order.
	Body     []Node
	Filename string
}

// Binding returns the recipe binding with the given label.
func (d *Definition) Binding(label string) (RecipeBinding, bool) {
	for _, b := range d.Recipes {
		if b.Label == label {
			return b, true
		}
	}
	return RecipeBinding{}, false
}
